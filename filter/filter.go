// Package filter selects which messages a calibration sweep scores.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dhcgn/mail-triage/model"
)

// Options captures the regex selection for a sweep. Include and Exclude are
// mutually exclusive.
type Options struct {
	Include []string
	Exclude []string
}

// Filter holds the compiled patterns. Patterns are matched against the
// sender, the subject and the extracted body of each message.
type Filter struct {
	includeMode bool
	excludeMode bool
	include     []*regexp.Regexp
	exclude     []*regexp.Regexp
}

// New compiles the patterns in opts.
func New(opts Options) (*Filter, error) {
	include, err := compilePatterns(opts.Include)
	if err != nil {
		return nil, fmt.Errorf("compile include pattern: %w", err)
	}
	exclude, err := compilePatterns(opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("compile exclude pattern: %w", err)
	}

	if len(include) > 0 && len(exclude) > 0 {
		return nil, fmt.Errorf("include and exclude filters are mutually exclusive")
	}

	return &Filter{
		includeMode: len(include) > 0,
		excludeMode: len(exclude) > 0,
		include:     include,
		exclude:     exclude,
	}, nil
}

// Allows reports whether the message should be scored.
func (f *Filter) Allows(msg model.ParsedMessage) bool {
	text := msg.Sender + "\n" + msg.Subject + "\n" + msg.Body

	if f.includeMode {
		return matchAny(f.include, text)
	}
	if f.excludeMode {
		return !matchAny(f.exclude, text)
	}
	return true
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
