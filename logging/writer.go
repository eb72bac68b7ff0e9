package logging

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// fileWriter sends one level's entries through a rotated log file.
type fileWriter struct {
	lj *lumberjack.Logger
}

func newFileWriter(config Config, level string) *fileWriter {
	_ = os.MkdirAll(config.Directory, 0o755)
	return &fileWriter{
		lj: &lumberjack.Logger{
			Filename:   filepath.Join(config.Directory, level+".log"),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
			LocalTime:  true,
		},
	}
}

func (w *fileWriter) Write(p []byte) (int, error) { return w.lj.Write(p) }

// Sync is a no-op; lumberjack flushes on every write.
func (w *fileWriter) Sync() error { return nil }

func (w *fileWriter) Close() error { return w.lj.Close() }

// The registry tracks every file writer so CloseAllWriters can release
// them at shutdown.
var (
	writerRegistry   []*fileWriter
	writerRegistryMu sync.Mutex
)

func registerWriter(w *fileWriter) {
	writerRegistryMu.Lock()
	defer writerRegistryMu.Unlock()
	writerRegistry = append(writerRegistry, w)
}

// CloseAllWriters closes every log file the process opened.
func CloseAllWriters() error {
	writerRegistryMu.Lock()
	defer writerRegistryMu.Unlock()

	var lastErr error
	for _, w := range writerRegistry {
		if err := w.Close(); err != nil {
			lastErr = err
		}
	}
	writerRegistry = nil
	return lastErr
}

// newWriteSyncer assembles the output for one level: terminal, file, or
// both, per the config switches. With everything disabled the entries are
// discarded.
func newWriteSyncer(config Config, level string) zapcore.WriteSyncer {
	var syncers []zapcore.WriteSyncer
	if !config.DisableConsole {
		syncers = append(syncers, zapcore.AddSync(os.Stdout))
	}
	if config.File {
		w := newFileWriter(config, level)
		registerWriter(w)
		syncers = append(syncers, zapcore.AddSync(w))
	}

	switch len(syncers) {
	case 0:
		return zapcore.AddSync(discard{})
	case 1:
		return syncers[0]
	default:
		return zapcore.NewMultiWriteSyncer(syncers...)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
