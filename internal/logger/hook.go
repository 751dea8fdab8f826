package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const filteredField = "_filtered"

// AsyncHook buffers entries and writes them from its own goroutine.
// When the buffer is full the entry is dropped instead of blocking the caller.
type AsyncHook struct {
	writers []io.Writer
	entries chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewAsyncHookWithWriters starts the writer goroutine.
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	hook := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
	}

	hook.wg.Add(1)
	go hook.processEntries()

	return hook
}

// Levels implements logrus.Hook.
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook. It never blocks.
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		if isFiltered(entry) {
			return nil
		}
		data, err := format(entry)
		if err != nil {
			return err
		}
		for _, w := range h.writers {
			_, _ = w.Write(data)
		}
		return nil
	}

	// Data is shared with the caller's entry; copy it before handing off.
	select {
	case h.entries <- copyEntry(entry):
	default:
	}
	return nil
}

func (h *AsyncHook) processEntries() {
	defer h.wg.Done()

	for entry := range h.entries {
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintf(os.Stderr, "[LOGGER PANIC] recovered: %v\n", r)
					debug.PrintStack()
				}
			}()

			if isFiltered(entry) {
				return
			}
			data, err := format(entry)
			if err != nil {
				return
			}
			for _, w := range h.writers {
				_, _ = w.Write(data)
			}
		}()
	}
}

// Close drains pending entries and stops the writer goroutine.
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.entries)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}

func isFiltered(entry *logrus.Entry) bool {
	filtered, ok := entry.Data[filteredField].(bool)
	return ok && filtered
}

// copyEntry is entry.Dup plus the fields Dup leaves out.
func copyEntry(entry *logrus.Entry) *logrus.Entry {
	dup := entry.Dup()
	dup.Message = entry.Message
	dup.Level = entry.Level
	dup.Caller = entry.Caller
	return dup
}

func format(entry *logrus.Entry) ([]byte, error) {
	if _, ok := entry.Data[filteredField]; ok {
		entry = copyEntry(entry)
		delete(entry.Data, filteredField)
	}
	if entry.Logger != nil && entry.Logger.Formatter != nil {
		return entry.Logger.Formatter.Format(entry)
	}
	line, err := entry.String()
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}

// FilterHook marks noisy request logs (health checks, metric scrapes) so the
// async hook skips them. Warnings and errors always pass.
type FilterHook struct {
	paths []string
}

// NewFilterHook builds a FilterHook from cfg.FilterPaths.
func NewFilterHook(cfg *LogConfig) *FilterHook {
	if cfg == nil {
		return &FilterHook{}
	}
	return &FilterHook{paths: cfg.FilterPaths}
}

// Levels implements logrus.Hook.
func (h *FilterHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.InfoLevel, logrus.DebugLevel, logrus.TraceLevel}
}

// Fire implements logrus.Hook.
func (h *FilterHook) Fire(entry *logrus.Entry) error {
	path, ok := entry.Data["path"].(string)
	if !ok || path == "" {
		return nil
	}
	for _, p := range h.paths {
		if strings.HasPrefix(path, p) {
			entry.Data[filteredField] = true
			return nil
		}
	}
	return nil
}
