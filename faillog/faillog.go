// Package faillog is the audit trail for statement failures: every driver
// error is appended here with the offending query text and the serialized
// parameter payload, before any recovery or propagation happens.
package faillog

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeptools/gw-dbsession/rw"
)

type Entry struct {
	Time   time.Time `json:"time"`
	Msg    string    `json:"msg"`
	Query  string    `json:"query"`
	Params string    `json:"params"` // serialized bind values
}

// Sink consumes failure entries. Injected into the session so the core
// logic has no filesystem dependency.
type Sink interface {
	Append(e Entry) error
}

// Discard drops every entry.
type Discard struct{}

// Ensure Discard implements Sink
var _ Sink = Discard{}

func (Discard) Append(Entry) error { return nil }

// DailyFile appends tab-separated lines to <Dir>/<YYYY-MM-DD>.log, one file
// per calendar day. The directory is created lazily on the first append.
// Rotation/retention of old files is the caller's responsibility.
type DailyFile struct {
	Dir string

	day  string
	file *os.File
	cw   *rw.CountWriter
}

// Ensure DailyFile implements Sink
var _ Sink = (*DailyFile)(nil)

func (d *DailyFile) Append(e Entry) error {
	day := e.Time.Format("2006-01-02")
	if d.file == nil || day != d.day {
		if err := d.rollover(day); err != nil {
			return err
		}
	}
	line := e.Time.Format(time.RFC3339) + "\t" +
		flatten(e.Msg) + "\t" +
		flatten(e.Query) + "\t" +
		flatten(e.Params) + "\n"
	_, err := d.cw.Write([]byte(line))
	return err
}

// BytesWritten returns the bytes appended to the current day's file.
func (d *DailyFile) BytesWritten() int64 {
	if d.cw == nil {
		return 0
	}
	return d.cw.BytesWritten()
}

// EntriesWritten returns the entries appended to the current day's file.
func (d *DailyFile) EntriesWritten() int64 {
	if d.cw == nil {
		return 0
	}
	return d.cw.LinesWritten()
}

func (d *DailyFile) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	d.cw = nil
	return err
}

func (d *DailyFile) rollover(day string) error {
	if d.file != nil {
		_ = d.file.Close()
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(
		filepath.Join(d.Dir, day+".log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0o644,
	)
	if err != nil {
		return err
	}
	d.file = file
	d.day = day
	d.cw = rw.NewCountWriter(file)
	return nil
}

var flattener = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")

// flatten keeps multi-line SQL on one log line
func flatten(s string) string {
	return flattener.Replace(s)
}
