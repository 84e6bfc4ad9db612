package faillog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeptools/gw-dbsession/faillog"
)

func TestDailyFileAppend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dblog") // must not exist yet
	sink := &faillog.DailyFile{Dir: dir}
	defer sink.Close()

	at := time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC)
	require.NoError(t, sink.Append(faillog.Entry{
		Time:   at,
		Msg:    "Error 2006: MySQL server has gone away",
		Query:  "SELECT *\nFROM t",
		Params: `{"id":1}`,
	}))
	require.NoError(t, sink.Append(faillog.Entry{
		Time:   at.Add(time.Minute),
		Msg:    "Error 1062: Duplicate entry",
		Query:  "INSERT INTO t (a) VALUES (?)",
		Params: `{"a":"x"}`,
	}))

	raw, err := os.ReadFile(filepath.Join(dir, "2026-08-23.log"))
	require.NoError(t, err, "directory and daily file created lazily")

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 2)

	first := strings.Split(lines[0], "\t")
	require.Len(t, first, 4)
	assert.Equal(t, "2026-08-23T10:30:00Z", first[0])
	assert.Equal(t, "Error 2006: MySQL server has gone away", first[1])
	assert.Equal(t, "SELECT * FROM t", first[2], "multi-line SQL flattened")
	assert.Equal(t, `{"id":1}`, first[3])

	assert.Equal(t, int64(2), sink.EntriesWritten())
	assert.Equal(t, int64(len(raw)), sink.BytesWritten())
}

func TestDailyFileRollsOverByDay(t *testing.T) {
	dir := t.TempDir()
	sink := &faillog.DailyFile{Dir: dir}
	defer sink.Close()

	day1 := time.Date(2026, 8, 23, 23, 59, 0, 0, time.UTC)
	day2 := day1.Add(2 * time.Minute)
	require.NoError(t, sink.Append(faillog.Entry{Time: day1, Msg: "one"}))
	require.NoError(t, sink.Append(faillog.Entry{Time: day2, Msg: "two"}))

	assert.FileExists(t, filepath.Join(dir, "2026-08-23.log"))
	assert.FileExists(t, filepath.Join(dir, "2026-08-24.log"))
	assert.Equal(t, int64(1), sink.EntriesWritten(), "counter tracks the current day only")
}

func TestDailyFileCloseIdempotent(t *testing.T) {
	sink := &faillog.DailyFile{Dir: t.TempDir()}
	require.NoError(t, sink.Append(faillog.Entry{Time: time.Now(), Msg: "x"}))
	assert.NoError(t, sink.Close())
	assert.NoError(t, sink.Close())
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, faillog.Discard{}.Append(faillog.Entry{Msg: "dropped"}))
}
