// Package mbox streams raw messages out of an mbox archive for the calibrate
// command.
package mbox

import (
	"errors"
	"fmt"
	"io"
	"os"

	mboxlib "github.com/emersion/go-mbox"
)

// Message is one raw message read from the archive.
type Message struct {
	Index int
	Raw   []byte
}

// Read iterates over all messages in the archive at path, calling fn for
// each. Messages that cannot be read are skipped; fn returning an error stops
// the iteration.
func Read(path string, fn func(Message) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open mbox: %w", err)
	}
	defer file.Close()

	reader := mboxlib.NewReader(file)
	for idx := 0; ; idx++ {
		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("message %d: %w", idx, err)
		}

		raw, err := io.ReadAll(msgReader)
		if err != nil {
			continue
		}

		if err := fn(Message{Index: idx, Raw: raw}); err != nil {
			return err
		}
	}
}

// Count returns the number of messages in the archive, used to size the
// progress bar before a sweep.
func Count(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open mbox: %w", err)
	}
	defer file.Close()

	reader := mboxlib.NewReader(file)
	count := 0
	for {
		msgReader, err := reader.NextMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return count, nil
			}
			return 0, err
		}

		if _, err := io.Copy(io.Discard, msgReader); err != nil {
			count++
			continue
		}
		count++
	}
}
