// Package journal keeps a human-readable activity log of grading sessions.
// The TUI tails it into its log panel; the structured zap log stays the
// source of truth for diagnostics.
package journal

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a journal entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Entry is one parsed journal line.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
}

// Short renders the entry for the narrow TUI panel.
func (e Entry) Short() string {
	if e.Time.IsZero() {
		return fmt.Sprintf("%-5s %s", e.Level, e.Message)
	}
	return fmt.Sprintf("%s %-5s %s", e.Time.Local().Format("15:04:05"), e.Level, e.Message)
}

// Journal appends entries to a text file, one per line.
type Journal struct {
	path  string
	clock func() time.Time
	mu    sync.Mutex
}

// New creates a journal that writes to the provided path.
func New(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: ensure dir: %w", err)
	}
	return &Journal{path: path, clock: time.Now}, nil
}

// Path returns the file backing this journal.
func (j *Journal) Path() string {
	if j == nil {
		return ""
	}
	return j.path
}

// Append writes a single entry. Write failures are swallowed; the journal is
// advisory and must never break the grading flow.
func (j *Journal) Append(level Level, message string) {
	if j == nil {
		return
	}
	message = strings.Join(strings.Fields(message), " ")
	j.mu.Lock()
	defer j.mu.Unlock()
	line := fmt.Sprintf("%s\t%s\t%s\n", j.clock().UTC().Format(time.RFC3339), level, message)
	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
}

// Tail returns up to maxEntries of the most recent entries together with the
// total number of entries in the journal.
func (j *Journal) Tail(maxEntries int) ([]Entry, int) {
	if j == nil || maxEntries <= 0 {
		return nil, 0
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	file, err := os.Open(j.path)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var entries []Entry
	total := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		total++
		entries = append(entries, parseLine(line))
		if len(entries) > maxEntries {
			entries = entries[1:]
		}
	}
	return entries, total
}

// Info appends an informational entry.
func (j *Journal) Info(format string, args ...any) {
	j.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (j *Journal) Warn(format string, args ...any) {
	j.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (j *Journal) Error(format string, args ...any) {
	j.Append(LevelError, fmt.Sprintf(format, args...))
}

func parseLine(line string) Entry {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 {
		return Entry{Level: LevelInfo, Message: line}
	}
	ts, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return Entry{Level: LevelInfo, Message: line}
	}
	return Entry{Time: ts, Level: Level(parts[1]), Message: parts[2]}
}
