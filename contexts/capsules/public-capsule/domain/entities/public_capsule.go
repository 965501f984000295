package entities

import "time"

type PublicCapsule struct {
	CapsuleID  string    `json:"capsule_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	AuthorName string    `json:"author_name"`
	OpensAt    time.Time `json:"opens_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsOpen reports whether the capsule may be shown at now.
func (c PublicCapsule) IsOpen(now time.Time) bool {
	return !c.OpensAt.After(now)
}
