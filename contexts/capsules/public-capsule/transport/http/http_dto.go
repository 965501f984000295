package httptransport

import "time"

type PublicCapsuleDTO struct {
	CapsuleID  string    `json:"capsule_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	AuthorName string    `json:"author_name"`
	OpensAt    time.Time `json:"opens_at"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListPublicCapsulesRequest struct {
	Limit  int
	Offset int
}

type ListPublicCapsulesResponse struct {
	Items      []PublicCapsuleDTO `json:"items"`
	NextCursor string             `json:"next_cursor,omitempty"`
}
