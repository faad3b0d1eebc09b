// Package history keeps an append-only JSONL record of past classifications.
// It is operator-facing only: the pipeline writes it after the fact and
// nothing in the core ever reads it back.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const fileName = "history.jsonl"

// Entry is one recorded classification.
type Entry struct {
	Time           time.Time `json:"ts"`
	Path           string    `json:"path,omitempty"`
	Sender         string    `json:"sender"`
	Subject        string    `json:"subject"`
	Score          int       `json:"score"`
	Classification string    `json:"classification"`
	Error          string    `json:"error,omitempty"`
}

// Log appends entries to the history file.
type Log struct {
	path    string
	file    *os.File
	writer  *bufio.Writer
	writeMu sync.Mutex
}

// Open creates the data directory if needed and opens the history file for
// appending.
func Open(dir string) (*Log, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("history directory is empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	path := filepath.Join(dir, fileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open history file for append: %w", err)
	}

	return &Log{
		path:   path,
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

// Append writes one entry as a single JSON line.
func (l *Log) Append(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("write history entry: %w", err)
	}
	if err := l.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}

	return nil
}

// Close flushes and closes the history file.
func (l *Log) Close() error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	var firstErr error
	if err := l.writer.Flush(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("flush history file: %w", err)
	}
	if err := l.file.Sync(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("sync history file: %w", err)
	}
	if err := l.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close history file: %w", err)
	}

	return firstErr
}

// Recent returns the last n entries in the history file under dir, newest
// first. A missing file yields an empty slice. Unparseable lines are skipped.
func Recent(dir string, n int) ([]Entry, error) {
	file, err := os.Open(filepath.Join(dir, fileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}

	// Newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}
