package assign

import (
	"fmt"
	"strings"
)

// Nouns names subjects and containers of a dialog kind in messages.
type Nouns struct {
	Subject   string
	Container string
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// describe names the first container and folds the rest into "and N others".
func describe(ids []string, titles map[string]string, noun string) string {
	first := titles[ids[0]]
	if first == "" {
		return pluralize(len(ids), noun)
	}
	switch rest := len(ids) - 1; rest {
	case 0:
		return first
	case 1:
		return first + " and 1 other"
	default:
		return fmt.Sprintf("%s and %d others", first, rest)
	}
}

// Summarize builds the single notification shown after a commit, e.g.
// "2 notes added to Work and 2 others & removed from Inbox." It returns an
// empty string when the commit changed nothing and nothing failed.
func Summarize(subjectCount int, nouns Nouns, res Result, titles map[string]string) string {
	parts := make([]string, 0, 4)
	if len(res.Added) > 0 {
		parts = append(parts, "added to "+describe(res.Added, titles, nouns.Container))
	}
	if len(res.Removed) > 0 {
		if len(parts) > 0 {
			parts = append(parts, "&")
		}
		parts = append(parts, "removed from "+describe(res.Removed, titles, nouns.Container))
	}

	var b strings.Builder
	if len(parts) > 0 {
		b.WriteString(pluralize(subjectCount, nouns.Subject))
		b.WriteString(" ")
		b.WriteString(strings.Join(parts, " "))
		b.WriteString(".")
	}
	if n := len(res.Failures); n > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s failed.", pluralize(n, "change"))
	}
	return b.String()
}
