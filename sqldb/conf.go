package sqldb

import (
	"encoding/json/v2"
	"fmt"
	"os"
)

type Conf struct {
	Type string `json:"type"` // mysql, pgsql, ...
	Host string `json:"host"`
	Port int    `json:"port"`
	User string `json:"user"`
	PW   string `json:"pw"`
	DB   string `json:"db"`
	TZ   string `json:"tz"`  // Connection Timezone
	DSN  string `json:"dsn"` // To Overwrite Default DSN
}

// LoadConf reads a JSON conf file, e.g. config/.db.json
func LoadConf(path string) (*Conf, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Conf
	if err = json.Unmarshal(raw, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse db conf %s: %w", path, err)
	}
	return &conf, nil
}
