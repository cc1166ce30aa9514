package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"userhub/internal/domain/profile"
	"userhub/internal/domain/user"
	"userhub/internal/validation"

	"github.com/rs/zerolog/log"
)

// listEnvelope is the paginated collection response shape: items plus
// HATEOAS self/next links carrying the opaque page tokens.
type listEnvelope struct {
	Items     any               `json:"items"`
	PageSize  int               `json:"pageSize"`
	PageToken string            `json:"pageToken,omitempty"`
	Links     map[string]string `json:"_links"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeServiceError maps domain and validation errors onto status
// codes; anything unrecognized is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *validation.ValidationError
	switch {
	case errors.Is(err, user.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "User not found")
	case errors.Is(err, profile.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Profile not found")
	case errors.Is(err, user.ErrEmailExists),
		errors.Is(err, user.ErrPhoneExists),
		errors.Is(err, profile.ErrUsernameExists),
		errors.Is(err, profile.ErrUserHasProfile),
		errors.Is(err, profile.ErrOwnerNotFound):
		writeDetail(w, http.StatusBadRequest, capitalized(err))
	case errors.As(err, &ve):
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("%s %s", ve.Field, ve.Message))
	default:
		log.Error().Err(err).Msg("request failed")
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func capitalized(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	if msg[0] >= 'a' && msg[0] <= 'z' {
		return string(msg[0]-'a'+'A') + msg[1:]
	}
	return msg
}

// listLinks builds the envelope's self/next links for a collection URL.
func listLinks(base string, pageSize int, token, nextToken string) map[string]string {
	self := fmt.Sprintf("%s?pageSize=%d", base, pageSize)
	if token != "" {
		self += "&pageToken=" + url.QueryEscape(token)
	}
	links := map[string]string{"self": self}
	if nextToken != "" {
		links["next"] = fmt.Sprintf("%s?pageSize=%d&pageToken=%s", base, pageSize, url.QueryEscape(nextToken))
	}
	return links
}
