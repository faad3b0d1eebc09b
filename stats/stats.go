// Package stats accumulates care scores during a calibration sweep and
// summarizes how the configured thresholds would split a mailbox.
package stats

import (
	"sort"

	"github.com/dhcgn/mail-triage/model"
	"github.com/dhcgn/mail-triage/score"
)

// BucketCount is the number of histogram buckets (0-9, 10-19, ... 90-100;
// 100 falls into the last bucket).
const BucketCount = 10

// Distribution collects scores against a fixed threshold pair.
type Distribution struct {
	redMin  int
	blueMin int

	scores   []int
	red      int
	blue     int
	none     int
	failures int
}

// NewDistribution creates an empty distribution for the given thresholds.
func NewDistribution(redMin, blueMin int) *Distribution {
	return &Distribution{redMin: redMin, blueMin: blueMin}
}

// Add records one score and returns the classification the thresholds assign.
func (d *Distribution) Add(s int) model.Classification {
	d.scores = append(d.scores, s)

	cls := score.Map(s, d.redMin, d.blueMin)
	switch cls {
	case model.ClassificationRed:
		d.red++
	case model.ClassificationBlue:
		d.blue++
	default:
		d.none++
	}
	return cls
}

// AddFailure records a message that produced no usable score.
func (d *Distribution) AddFailure() {
	d.failures++
}

// Summary is a point-in-time view of the distribution.
type Summary struct {
	Count    int
	Red      int
	Blue     int
	None     int
	Failures int
	Min      int
	Max      int
	Mean     float64
	Median   int
	Buckets  [BucketCount]int
}

// Summary computes the current summary.
func (d *Distribution) Summary() Summary {
	s := Summary{
		Count:    len(d.scores),
		Red:      d.red,
		Blue:     d.blue,
		None:     d.none,
		Failures: d.failures,
	}
	if len(d.scores) == 0 {
		return s
	}

	sorted := make([]int, len(d.scores))
	copy(sorted, d.scores)
	sort.Ints(sorted)

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Median = sorted[len(sorted)/2]

	total := 0
	for _, v := range sorted {
		total += v
		bucket := v / 10
		if bucket >= BucketCount {
			bucket = BucketCount - 1
		}
		s.Buckets[bucket]++
	}
	s.Mean = float64(total) / float64(len(sorted))

	return s
}

// LogAttrs renders the summary as slog attributes.
func (s Summary) LogAttrs() []any {
	return []any{
		"scored", s.Count,
		"red", s.Red,
		"blue", s.Blue,
		"none", s.None,
		"failures", s.Failures,
	}
}
