package nullable_test

import (
	"encoding/json/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeptools/gw-dbsession/nullable"
)

func TestIntJSON(t *testing.T) {
	v := nullable.NewInt(42)
	raw, err := json.Marshal(&v)
	require.NoError(t, err)
	assert.Equal(t, "42", string(raw))

	var back nullable.Int
	require.NoError(t, json.Unmarshal([]byte("null"), &back))
	assert.True(t, back.IsNil())
	assert.Equal(t, int64(0), back.ForceValue())
}

func TestStringJSON(t *testing.T) {
	v := nullable.NewString("ada")
	raw, err := json.Marshal(&v)
	require.NoError(t, err)
	assert.Equal(t, `"ada"`, string(raw))

	var back nullable.String
	require.NoError(t, json.Unmarshal([]byte(`"grace"`), &back))
	assert.Equal(t, "grace", back.ForceValue())
}

func TestTimeJSON(t *testing.T) {
	at := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	v := nullable.NewTime(at)
	raw, err := json.Marshal(&v)
	require.NoError(t, err)
	assert.Equal(t, `"2026-08-23T10:00:00Z"`, string(raw))

	var back nullable.Time
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.ForceValue().Equal(at))
}
