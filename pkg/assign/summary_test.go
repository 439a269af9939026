package assign

import (
	"errors"
	"testing"
)

func TestSummarize(t *testing.T) {
	nouns := Nouns{Subject: "note", Container: "notebook"}
	titles := map[string]string{"A": "Work", "B": "Home", "C": "Ideas", "D": "Inbox"}

	tests := []struct {
		name     string
		subjects int
		res      Result
		want     string
	}{
		{
			name:     "nothing changed",
			subjects: 1,
			res:      Result{Applied: 1},
			want:     "",
		},
		{
			name:     "single add",
			subjects: 1,
			res:      Result{Added: []string{"A"}},
			want:     "1 note added to Work.",
		},
		{
			name:     "several adds and a removal",
			subjects: 2,
			res:      Result{Added: []string{"A", "B", "C"}, Removed: []string{"D"}},
			want:     "2 notes added to Work and 2 others & removed from Inbox.",
		},
		{
			name:     "two removals",
			subjects: 3,
			res:      Result{Removed: []string{"D", "A"}},
			want:     "3 notes removed from Inbox and 1 other.",
		},
		{
			name:     "unknown title falls back to a count",
			subjects: 1,
			res:      Result{Added: []string{"X", "A"}},
			want:     "1 note added to 2 notebooks.",
		},
		{
			name:     "partial failure",
			subjects: 1,
			res:      Result{Added: []string{"A"}, Failures: []error{errors.New("boom")}},
			want:     "1 note added to Work. 1 change failed.",
		},
		{
			name:     "only failures",
			subjects: 1,
			res:      Result{Failures: []error{errors.New("a"), errors.New("b")}},
			want:     "2 changes failed.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.subjects, nouns, tt.res, titles)
			if got != tt.want {
				t.Errorf("Summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}
