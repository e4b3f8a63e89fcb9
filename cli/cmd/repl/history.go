package repl

import (
	"bufio"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"
)

const baseHistory = "history.utf8"

// HistoryEntry represents a single history entry with its mode.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// key identifies an entry independent of its position.
func (e HistoryEntry) key() uint64 {
	return xxh3.HashString(e.prefix() + e.Line)
}

// prefix is the on-disk mode marker of the entry.
func (e HistoryEntry) prefix() string {
	if e.Mode == modeCtrl {
		return "C:"
	}

	return "E:"
}

// History manages command history with file persistence. Each distinct
// (line, mode) pair appears at most once; writing a line again moves it to the
// end.
type History struct {
	path    string
	entries []HistoryEntry
	index   map[uint64]struct{}
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
// An empty path keeps history in memory only.
func NewHistory(path string) *History {
	return &History{path: path, index: make(map[uint64]struct{})}
}

// Load reads history entries from the history file.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil
	clear(h.index)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry := HistoryEntry{Line: line, Mode: modeEval}

		if s, ok := strings.CutPrefix(line, "E:"); ok {
			entry.Line = s
		} else if s, ok := strings.CutPrefix(line, "C:"); ok {
			entry.Line, entry.Mode = s, modeCtrl
		}

		h.push(entry)
	}

	return scanner.Err()
}

// Write appends an eval-mode entry.
func (h *History) Write(entry string) (int, error) {
	return h.WriteWithMode(entry, modeEval)
}

// WriteWithMode appends a new entry to the history with the specified mode.
// If a duplicate entry exists (same line and mode), it removes the old one.
func (h *History) WriteWithMode(line string, mode inputMode) (int, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entry := HistoryEntry{Line: line, Mode: mode}

	// Skip if same as last entry
	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return len(line), nil
	}

	if h.push(entry) {
		return h.rewriteFile()
	}

	if h.path == "" {
		return len(line), nil
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return file.WriteString(entry.prefix() + entry.Line + "\n")
}

// push appends entry, removing an earlier duplicate, and reports whether one
// was removed. Must be called with h.mu held.
func (h *History) push(entry HistoryEntry) (moved bool) {
	key := entry.key()

	if _, ok := h.index[key]; ok {
		h.entries = slices.DeleteFunc(h.entries, func(e HistoryEntry) bool {
			return e == entry
		})
		moved = true
	}

	h.index[key] = struct{}{}
	h.entries = append(h.entries, entry)

	return moved
}

// GetEntry retrieves a historic entry (line and mode) by index.
// Index 0 is the oldest entry.
func (h *History) GetEntry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns all history entries.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() (int, error) {
	if h.path == "" {
		return 0, nil
	}

	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	total := 0

	for _, entry := range h.entries {
		n, err := w.WriteString(entry.prefix() + entry.Line + "\n")
		total += n

		if err != nil {
			return total, err
		}
	}

	return total, w.Flush()
}
