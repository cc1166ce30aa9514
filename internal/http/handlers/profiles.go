package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"userhub/internal/core/conditional"
	"userhub/internal/domain/profile"
	profilesvc "userhub/internal/services/profile"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func profileLinks(p *profile.Profile) map[string]string {
	return map[string]string{
		"self": "/profiles/" + p.ID.String(),
		"user": "/users/" + p.UserID.String(),
	}
}

// CreateProfile handles POST /profiles: the owner must exist, may own
// only one profile, and the username must be free.
func CreateProfile(svc *profilesvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profilesvc.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		p, err := svc.Create(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		p.Links = profileLinks(p)
		w.Header().Set("Location", "/profiles/"+p.ID.String())
		writeJSON(w, http.StatusCreated, p)
	}
}

// ListProfiles handles GET /profiles with owner/username filters and
// opaque cursor pagination.
func ListProfiles(svc *profilesvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var userID uuid.UUID
		if v := q.Get("userId"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				writeDetail(w, http.StatusBadRequest, "Invalid userId filter")
				return
			}
			userID = id
		}

		pageSize := 0
		if v := q.Get("pageSize"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				pageSize = n
			}
		}
		token := q.Get("pageToken")

		resp, err := svc.List(r.Context(), profilesvc.ListRequest{
			Filter: profile.Filter{
				UserID:   userID,
				Username: q.Get("username"),
			},
			PageSize:  pageSize,
			PageToken: token,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		for _, p := range resp.Profiles {
			p.Links = profileLinks(p)
		}
		writeJSON(w, http.StatusOK, listEnvelope{
			Items:     resp.Profiles,
			PageSize:  resp.PageSize,
			PageToken: token,
			Links:     listLinks("/profiles", resp.PageSize, token, resp.NextPageToken),
		})
	}
}

// GetProfile handles GET /profiles/{id} with If-None-Match support.
func GetProfile(svc *profilesvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid profile ID")
			return
		}

		p, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		etag := conditional.ETag(p.Snapshot())
		if conditional.NotModified(r.Header.Get("If-None-Match"), etag) {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}

		p.Links = profileLinks(p)
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "max-age=3600")
		writeJSON(w, http.StatusOK, p)
	}
}

// UpdateProfile handles PATCH /profiles/{id}, guarded by If-Match.
func UpdateProfile(svc *profilesvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid profile ID")
			return
		}

		var req profilesvc.UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		current, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		etag := conditional.ETag(current.Snapshot())
		if !conditional.PreconditionHolds(r.Header.Get("If-Match"), etag) {
			writeDetail(w, http.StatusPreconditionFailed, "Precondition Failed")
			return
		}

		updated, err := svc.Update(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		newETag := conditional.ETag(updated.Snapshot())
		updated.Links = profileLinks(updated)
		w.Header().Set("ETag", newETag)
		writeJSON(w, http.StatusOK, updated)
	}
}

// DeleteProfile handles DELETE /profiles/{id}, guarded by If-Match.
func DeleteProfile(svc *profilesvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid profile ID")
			return
		}

		current, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		etag := conditional.ETag(current.Snapshot())
		if !conditional.PreconditionHolds(r.Header.Get("If-Match"), etag) {
			writeDetail(w, http.StatusPreconditionFailed, "Precondition Failed")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
