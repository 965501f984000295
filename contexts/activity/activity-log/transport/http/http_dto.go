package httptransport

import "time"

type ActivityDTO struct {
	ActivityID string    `json:"activity_id"`
	RequestID  string    `json:"request_id,omitempty"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Route      string    `json:"route,omitempty"`
	Status     int       `json:"status"`
	UserID     string    `json:"user_id,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ListActivitiesRequest struct {
	UserID string
	Method string
	Limit  int
	Offset int
}

type ListActivitiesResponse struct {
	Items      []ActivityDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}
