// Package progress renders the progress bar for a calibration sweep.
package progress

import (
	"sync"

	"github.com/pterm/pterm"
)

// Bar tracks sweep progress over a known message count.
type Bar struct {
	pb      *pterm.ProgressbarPrinter
	total   int
	mu      sync.Mutex
	enabled bool
}

// New creates a progress bar over total messages. When enabled is false every
// method is a no-op, which keeps machine-readable output clean.
func New(total int, enabled bool) *Bar {
	bar := &Bar{total: total, enabled: enabled}

	if enabled {
		pb, _ := pterm.DefaultProgressbar.
			WithTotal(total).
			WithTitle("Scoring messages").
			Start()
		bar.pb = pb
	}

	return bar
}

// Step advances the bar by one message and shows its subject.
func (b *Bar) Step(subject string) {
	if !b.enabled || b.pb == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.pb.Increment()
	if subject != "" {
		if len(subject) > 40 {
			subject = subject[:37] + "..."
		}
		b.pb.UpdateTitle("Scoring: " + subject)
	}
}

// Fail reports a message that produced no score above the bar.
func (b *Bar) Fail(err error) {
	if !b.enabled || b.pb == nil {
		return
	}
	if err != nil {
		pterm.Error.Printf("Error: %v\n", err)
	}
}

// Stop finalizes the bar.
func (b *Bar) Stop() {
	if !b.enabled || b.pb == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pb.Current < b.total {
		b.pb.Current = b.total
	}
	b.pb.Stop()
}
