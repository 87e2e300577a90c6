// Package dateparse finds natural language dates ("tomorrow", "next friday",
// "on 5 may") inside free text.
package dateparse

import (
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Parser wraps a rule set that is built once and shared.
type Parser struct {
	w *when.Parser
}

func New() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w}
}

// Parse returns the first date expression found in text, resolved against base.
func (p *Parser) Parse(text string, base time.Time) (time.Time, bool) {
	r, err := p.w.Parse(text, base)
	if err != nil || r == nil {
		return time.Time{}, false
	}
	return r.Time, true
}

// DueDate is the end of the day named in text, or the end of today when text
// names no day.
func (p *Parser) DueDate(text string, now time.Time) time.Time {
	if t, ok := p.Parse(text, now); ok {
		return EndOfDay(t)
	}
	return EndOfDay(now)
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
