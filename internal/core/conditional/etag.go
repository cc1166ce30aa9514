// Package conditional implements ETag fingerprinting and RFC 7232
// precondition evaluation (If-None-Match / If-Match) for the HTTP layer.
//
// Everything here is pure and stateless: callers own resource lookup,
// transactional boundaries, and the translation of the boolean outcomes
// into 304 / 412 responses.
package conditional

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// ETag computes a strong fingerprint for a resource representation.
//
// The resource is serialized to JSON, round-tripped through a generic
// value so object keys come out sorted, hashed with SHA-256, and the hex
// digest is returned wrapped in double quotes. Two resources with the
// same field values produce the same fingerprint regardless of field
// declaration order.
func ETag(resource any) string {
	raw, err := json.Marshal(resource)
	if err != nil {
		// Unserializable values are a caller-side contract violation;
		// still return a deterministic token rather than failing.
		raw = []byte(`null`)
	}

	// json.Marshal emits map keys in sorted order, so decoding into a
	// generic value and re-encoding yields a canonical form.
	var generic any
	if err := json.Unmarshal(raw, &generic); err == nil {
		if canonical, err := json.Marshal(generic); err == nil {
			raw = canonical
		}
	}

	sum := sha256.Sum256(raw)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// ParseETagList splits an If-Match / If-None-Match header value into its
// comma-separated tokens, trimming surrounding whitespace. An empty or
// absent header yields nil. Empty tokens are dropped.
func ParseETagList(header string) []string {
	if header == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(header, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// NotModified evaluates an If-None-Match header for GET/HEAD.
// It reports whether the caller should short-circuit with 304.
//
// Matching is exact string comparison on the quoted tokens; a weak ETag
// (W/ prefix) never matches a strong one.
func NotModified(ifNoneMatch, currentETag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for _, tag := range ParseETagList(ifNoneMatch) {
		if tag == "*" || tag == currentETag {
			return true
		}
	}
	return false
}

// PreconditionHolds evaluates an If-Match header for PATCH/DELETE.
// It reports whether the write should proceed; false means the caller
// must reject with 412 Precondition Failed.
//
// An absent header allows the write (no precondition). The wildcard
// allows it as well: the caller checks resource existence before asking,
// so 404 takes precedence.
func PreconditionHolds(ifMatch, currentETag string) bool {
	if ifMatch == "" {
		return true
	}
	for _, tag := range ParseETagList(ifMatch) {
		if tag == "*" || tag == currentETag {
			return true
		}
	}
	return false
}
