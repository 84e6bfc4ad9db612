package rw

import (
	"bytes"
	"io"
)

// CountWriter wraps an io.Writer and keeps byte and line totals,
// so log sinks can report per-file volume without stat calls.
type CountWriter struct {
	w     io.Writer
	n     int64
	lines int64
}

func NewCountWriter(w io.Writer) *CountWriter {
	return &CountWriter{w: w}
}

// Write implements io.Writer
func (cw *CountWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n) // cuz Write() can be called multiple times internally
	cw.lines += int64(bytes.Count(p[:n], []byte{'\n'}))
	return n, err
}

// BytesWritten returns the total number of bytes written
func (cw *CountWriter) BytesWritten() int64 {
	return cw.n
}

// LinesWritten returns the number of completed lines written
func (cw *CountWriter) LinesWritten() int64 {
	return cw.lines
}
