package entities

import (
	"strings"
	"time"

	domainerrors "timecapsule/contexts/activity/activity-log/domain/errors"
)

// Activity is one observed request, written after the handler returned.
type Activity struct {
	ActivityID string
	RequestID  string
	Method     string
	Path       string
	Route      string
	Status     int
	UserID     string
	IPAddress  string
	UserAgent  string
	DurationMs int64
	OccurredAt time.Time
}

func (a Activity) Validate() error {
	if strings.TrimSpace(a.ActivityID) == "" {
		return domainerrors.ErrInvalidActivity
	}
	if strings.TrimSpace(a.Method) == "" || strings.TrimSpace(a.Path) == "" {
		return domainerrors.ErrInvalidActivity
	}
	if a.Status < 100 || a.Status > 599 {
		return domainerrors.ErrInvalidActivity
	}
	return nil
}

