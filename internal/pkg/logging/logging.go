// Package logging builds the zap logger shared by the server and contentctl.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logFilePerm = 0o644
	logDirPerm  = 0o755
)

// DailyFile appends to <dir>/cms_<YYYY-MM-DD>.log, switching file at midnight.
type DailyFile struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

func NewDailyFile(dir string) (*DailyFile, error) {
	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return nil, err
	}
	return &DailyFile{dir: dir, now: time.Now}, nil
}

// Path is the file the next write lands in.
func (w *DailyFile) Path() string {
	return filepath.Join(w.dir, "cms_"+w.now().Format("2006-01-02")+".log")
}

func (w *DailyFile) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.Path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePerm)
	if err != nil {
		return 0, err
	}
	n, werr := f.Write(p)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return n, werr
}

func (w *DailyFile) Sync() error { return nil }

func consoleEncoder() zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	return zapcore.NewConsoleEncoder(encCfg)
}

func parseLevel(level string) (zap.AtomicLevel, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("log level: %w", err)
	}
	return zap.NewAtomicLevelAt(lvl), nil
}

// Console logs to w only. contentctl uses it on stderr so its own output
// on stdout stays clean.
func Console(w io.Writer, level string) (*zap.Logger, error) {
	atom, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	return zap.New(zapcore.NewCore(consoleEncoder(), zapcore.AddSync(w), atom)), nil
}

// New returns a console logger on stdout, teed into a daily file when dir
// is set. level is a zap level name.
func New(dir, level string) (*zap.Logger, error) {
	atom, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	enc := consoleEncoder()

	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.Lock(os.Stdout), atom)}
	if dir != "" {
		file, err := NewDailyFile(dir)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(file), atom))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	_ = zap.RedirectStdLog(logger)
	return logger, nil
}
