package model

// ParsedMessage holds the fields extracted from a raw mail payload that are
// relevant for scoring. Extraction never fails: absent or malformed headers
// are replaced by placeholder values.
type ParsedMessage struct {
	Sender    string
	Subject   string
	Body      string
	Truncated bool
}

// Classification is the tri-state outcome of one scoring run. Its string
// value is the exact token the mail hook matches on stdout.
type Classification string

const (
	ClassificationRed  Classification = "red"
	ClassificationBlue Classification = "blue"
	ClassificationNone Classification = "none"
)

func (c Classification) String() string {
	return string(c)
}
