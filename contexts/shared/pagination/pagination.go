// Package pagination is the shared paging module: query parsing, opaque
// offset cursors and the limit+1 lookahead used by every list endpoint.
package pagination

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrInvalidLimit  = errors.New("limit must be a positive integer")
	ErrInvalidCursor = errors.New("cursor is malformed")
)

type Defaults struct {
	Limit    int
	MaxLimit int
}

var StandardDefaults = Defaults{Limit: 20, MaxLimit: 100}

type Request struct {
	Limit  int
	Offset int
}

// Parse reads limit and cursor from query values. Limits above MaxLimit are
// clamped; a malformed cursor is rejected rather than silently restarting.
func Parse(query url.Values, defaults Defaults) (Request, error) {
	if defaults.Limit <= 0 {
		defaults.Limit = StandardDefaults.Limit
	}
	if defaults.MaxLimit <= 0 {
		defaults.MaxLimit = StandardDefaults.MaxLimit
	}

	req := Request{Limit: defaults.Limit}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return Request{}, ErrInvalidLimit
		}
		req.Limit = limit
	}
	if req.Limit > defaults.MaxLimit {
		req.Limit = defaults.MaxLimit
	}

	offset, err := DecodeCursor(query.Get("cursor"))
	if err != nil {
		return Request{}, err
	}
	req.Offset = offset
	return req, nil
}

// Window is the row count to fetch: one extra row tells whether a next page exists.
func (r Request) Window() int {
	return r.Limit + 1
}

// Trim cuts a fetched window back to the page and returns the next cursor.
func Trim[T any](r Request, rows []T) ([]T, string) {
	if len(rows) > r.Limit {
		return rows[:r.Limit], EncodeCursor(r.Offset + r.Limit)
	}
	return rows, ""
}

func EncodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

func DecodeCursor(cursor string) (int, error) {
	if strings.TrimSpace(cursor) == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, ErrInvalidCursor
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0, ErrInvalidCursor
	}
	return offset, nil
}
