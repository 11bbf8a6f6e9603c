package formatter

import (
	"fmt"
	"time"

	"github.com/alexanderramin/routine/internal/domain"
	"github.com/mattn/go-runewidth"
)

// FormatMinutes renders whole minutes as "1h 10m", "45m" or "2h".
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatDelta renders a step delta as "+5m", colored by length.
func FormatDelta(e *domain.Elapsed) string {
	if e == nil {
		return Dim("—")
	}
	text := "+" + FormatMinutes(e.Minutes)
	switch {
	case e.Minutes >= 20:
		return StyleRed.Render(text)
	case e.Minutes >= 10:
		return StyleYellow.Render(text)
	default:
		return StyleGreen.Render(text)
	}
}

// HumanDate renders a history date relative to now when recent.
func HumanDate(date string, now time.Time) string {
	t, err := time.ParseInLocation(domain.DateLayout, date, now.Location())
	if err != nil {
		return date
	}
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	y3, m3, d3 := now.AddDate(0, 0, -1).Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Mon Jan 2, 2006")
}

// Truncate shortens s to max terminal cells with an ellipsis.
func Truncate(s string, max int) string {
	if max < 4 {
		return s
	}
	return runewidth.Truncate(s, max, "...")
}
