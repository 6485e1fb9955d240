package datex

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/br"
	"github.com/olebedev/when/rules/common"
)

// NaturalParser reads dates typed by a person: ISO, DD/MM/YYYY, or
// Portuguese expressions such as "amanhã" anchored on the civil now.
type NaturalParser struct {
	w *when.Parser
	c *Classifier
}

func NewNaturalParser(c *Classifier) *NaturalParser {
	w := when.New(nil)
	w.Add(br.All...)
	w.Add(common.All...)
	return &NaturalParser{w: w, c: c}
}

func (p *NaturalParser) Parse(s string) (CalendarDate, error) {
	s = strings.TrimSpace(s)
	if d, err := ParseCalendarDate(s); err == nil {
		return d, nil
	}
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return DateOf(t), nil
	}

	r, err := p.w.Parse(s, p.c.Now())
	if err != nil || r == nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return DateOf(r.Time.In(p.c.Location())), nil
}
