// Package logging provides the run log of capgains: a zap logger whose lines
// are kept in memory so they can be displayed or exported at the end of a run.
//
// Lines look like
//
//	INFO  [2025-02-01 14:03:12] sale realized {"symbol": "AAPL", "gain": "$1,100.00"}
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// TimeFormat is the timestamp format of a log line.
const TimeFormat = "2006-01-02 15:04:05"

// Log is a logger that keeps a copy of everything it writes.
type Log struct {
	*zap.Logger
	buf *syncBuffer
}

// New returns a Log writing entries at or above level to its buffer and to
// every extra writer.
func New(level zapcore.Level, extra ...io.Writer) *Log {
	buf := &syncBuffer{}
	syncers := []zapcore.WriteSyncer{buf}
	for _, w := range extra {
		syncers = append(syncers, zapcore.Lock(zapcore.AddSync(w)))
	}
	core := zapcore.NewCore(newLineEncoder(), zapcore.NewMultiWriteSyncer(syncers...), level)
	return &Log{Logger: zap.New(core), buf: buf}
}

// ParseLevel parses a level name such as "debug" or "WARN".
func ParseLevel(s string) (zapcore.Level, error) {
	l, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// String returns every line logged since the last Reset.
func (l *Log) String() string { return l.buf.String() }

// Reset clears the buffered lines.
func (l *Log) Reset() { l.buf.Reset() }

// Export writes the buffered lines to path.
func (l *Log) Export(path string) error {
	if err := os.WriteFile(path, []byte(l.String()), 0o644); err != nil {
		return fmt.Errorf("cannot export log: %w", err)
	}
	return nil
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Sync() error { return nil }

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

var pool = buffer.NewPool()

// lineEncoder prefixes console lines with the level and then the time, the
// reverse of the zap console order.
type lineEncoder struct {
	zapcore.Encoder
}

func newLineEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.LevelKey = ""
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""
	cfg.ConsoleSeparator = " "
	return lineEncoder{zapcore.NewConsoleEncoder(cfg)}
}

func (e lineEncoder) Clone() zapcore.Encoder { return lineEncoder{e.Encoder.Clone()} }

func (e lineEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line, err := e.Encoder.EncodeEntry(ent, fields)
	if err != nil {
		return nil, err
	}
	defer line.Free()

	out := pool.Get()
	out.AppendString(fmt.Sprintf("%-5s [%s] ", ent.Level.CapitalString(), ent.Time.Format(TimeFormat)))
	out.Write(line.Bytes())
	return out, nil
}
