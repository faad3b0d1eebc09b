package score

import (
	"errors"
	"testing"

	"github.com/dhcgn/mail-triage/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    int
		wantErr bool
	}{
		{name: "bare integer", reply: "92", want: 92},
		{name: "integer with prose", reply: "92 - this seems urgent", want: 92},
		{name: "prose before integer", reply: "I would say 15 out of 100", want: 15},
		{name: "zero", reply: "0", want: 0},
		{name: "hundred", reply: "100", want: 100},
		{name: "leading whitespace", reply: "\n  73\n", want: 73},
		{name: "no integer", reply: "I think around maybe forty", wantErr: true},
		{name: "empty reply", reply: "", wantErr: true},
		{name: "out of range only", reply: "150", wantErr: true},
		{name: "negative treated as bare digit", reply: "-5", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.reply)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %d, want error", tt.reply, got)
				}
				if !errors.Is(err, ErrInvalidScore) {
					t.Errorf("Parse(%q) error = %v, want ErrInvalidScore", tt.reply, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.reply, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.reply, got, tt.want)
			}
		})
	}
}

func TestMap_DefaultThresholds(t *testing.T) {
	const redMin, blueMin = 80, 60

	for s := 0; s <= 100; s++ {
		got := Map(s, redMin, blueMin)

		var want model.Classification
		switch {
		case s >= 80:
			want = model.ClassificationRed
		case s >= 60:
			want = model.ClassificationBlue
		default:
			want = model.ClassificationNone
		}

		if got != want {
			t.Errorf("Map(%d, 80, 60) = %s, want %s", s, got, want)
		}
	}
}

func TestMap_Boundaries(t *testing.T) {
	tests := []struct {
		score, redMin, blueMin int
		want                   model.Classification
	}{
		{79, 80, 60, model.ClassificationBlue},
		{80, 80, 60, model.ClassificationRed},
		{59, 80, 60, model.ClassificationNone},
		{60, 80, 60, model.ClassificationBlue},
		{50, 50, 50, model.ClassificationRed},
		{0, 0, 0, model.ClassificationRed},
		{100, 100, 100, model.ClassificationRed},
	}

	for _, tt := range tests {
		if got := Map(tt.score, tt.redMin, tt.blueMin); got != tt.want {
			t.Errorf("Map(%d, %d, %d) = %s, want %s", tt.score, tt.redMin, tt.blueMin, got, tt.want)
		}
	}
}
