package brief

import (
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/julianstephens/meetmate/internal/logger"
)

// WhenExtractor finds English date and time expressions ("tomorrow 3 PM", "next friday at 10am")
type WhenExtractor struct {
	parser *when.Parser
}

func NewWhenExtractor() *WhenExtractor {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &WhenExtractor{parser: w}
}

func (e *WhenExtractor) Extract(text string, now time.Time) (time.Time, bool) {
	r, err := e.parser.Parse(text, now)
	if err != nil {
		logger.Debug("Time extraction failed", "error", err)
		return time.Time{}, false
	}
	if r == nil {
		return time.Time{}, false
	}
	// a bare clock time already passed today refers to tomorrow
	if r.Time.Before(now) && sameDay(r.Time, now) {
		return r.Time.AddDate(0, 0, 1), true
	}
	return r.Time, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
