package os

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/creachadair/atomicfile"
)

type logger interface {
	Info(msg string, keyvals ...interface{})
}

// SignalContext returns a context that is cancelled on SIGINT or SIGTERM, or
// when stop is called. The trapped signal is logged. Calling stop releases
// the signal handler; a second signal then terminates the process as usual.
func SignalContext(parent context.Context, logger logger) (ctx context.Context, stop context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigs:
			logger.Info("signal trapped", "msg", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()
	return ctx, cancel
}

// EnsureDir creates dir and its parents with mode unless it exists. A
// non-directory at dir is an error.
func EnsureDir(dir string, mode os.FileMode) error {
	if fi, err := os.Stat(dir); err == nil {
		if !fi.IsDir() {
			return fmt.Errorf("could not create directory %v: not a directory", dir)
		}
		return nil
	}
	if err := os.MkdirAll(dir, mode); err != nil {
		return fmt.Errorf("could not create directory %v: %w", dir, err)
	}
	return nil
}

func FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// WriteFileAtomic writes contents to filePath through a temporary file that
// is renamed into place, so readers never observe a partial file.
func WriteFileAtomic(filePath string, contents []byte, mode os.FileMode) error {
	if _, err := atomicfile.WriteAll(filePath, bytes.NewReader(contents), mode); err != nil {
		return fmt.Errorf("could not write %v: %w", filePath, err)
	}
	return nil
}
