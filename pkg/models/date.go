package model

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// CommentTimeLayout matches the millisecond ISO form used by stored comments.
const CommentTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// ParseDay reads a calendar day. Full timestamps are accepted and reduced to
// their date part.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}
