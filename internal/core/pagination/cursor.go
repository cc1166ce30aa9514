// Package pagination implements opaque cursor-based pagination over
// in-memory ordered collections.
//
// Cursors encode a plain offset, so pages are stateless and require no
// server-side session. The flip side is that inserts or deletes before
// the current offset shift subsequent pages; that is an accepted
// limitation of offset cursors, not a bug.
package pagination

import (
	"encoding/base64"
	"encoding/json"
)

// cursor is the structure hidden inside a page token.
type cursor struct {
	Offset int `json:"offset"`
}

// EncodeToken encodes a non-negative offset into an opaque,
// transport-safe page token. Deterministic: the same offset always
// yields the same token.
func EncodeToken(offset int) string {
	raw, _ := json.Marshal(cursor{Offset: offset})
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeToken decodes a page token back into its offset.
//
// Any failure (bad base64, malformed JSON, missing or negative
// offset) degrades to offset 0 so a corrupted or foreign token lands
// on the first page instead of erroring the request.
func DecodeToken(token string) int {
	if token == "" {
		return 0
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0
	}
	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return 0
	}
	if c.Offset < 0 {
		return 0
	}
	return c.Offset
}

// Paginate slices items into the page addressed by token and returns it
// together with the token for the next page ("" when this is the last
// page). An offset at or beyond the end of items yields an empty page.
func Paginate[T any](items []T, pageSize int, token string) ([]T, string) {
	offset := DecodeToken(token)

	end := offset + pageSize
	if offset >= len(items) {
		return []T{}, ""
	}
	if end > len(items) {
		end = len(items)
	}
	page := items[offset:end]

	next := ""
	if offset+pageSize < len(items) {
		next = EncodeToken(offset + pageSize)
	}
	return page, next
}
