package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"userhub/internal/core/conditional"
	"userhub/internal/domain/user"
	usersvc "userhub/internal/services/user"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func userLinks(u *user.User) map[string]string {
	return map[string]string{
		"self":    "/users/" + u.ID.String(),
		"orders":  "/orders?userId=" + u.ID.String(),
		"profile": "/profiles?userId=" + u.ID.String(),
	}
}

// CreateUser handles POST /users: 201 with a Location header, 400 on
// validation failures or duplicate email/phone.
func CreateUser(svc *usersvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req usersvc.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		u, err := svc.Create(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		u.Links = userLinks(u)
		w.Header().Set("Location", "/users/"+u.ID.String())
		writeJSON(w, http.StatusCreated, u)
	}
}

// ListUsers handles GET /users with exact-match filters and opaque
// cursor pagination.
func ListUsers(svc *usersvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		pageSize := 0
		if v := q.Get("pageSize"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				pageSize = n
			}
		}
		token := q.Get("pageToken")

		resp, err := svc.List(r.Context(), usersvc.ListRequest{
			Filter: user.Filter{
				Name:           q.Get("name"),
				Email:          q.Get("email"),
				Phone:          q.Get("phone"),
				MembershipTier: user.Tier(q.Get("membership_tier")),
			},
			PageSize:  pageSize,
			PageToken: token,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		for _, u := range resp.Users {
			u.Links = userLinks(u)
		}
		writeJSON(w, http.StatusOK, listEnvelope{
			Items:     resp.Users,
			PageSize:  resp.PageSize,
			PageToken: token,
			Links:     listLinks("/users", resp.PageSize, token, resp.NextPageToken),
		})
	}
}

// GetUser handles GET /users/{id} with conditional-request support:
// a matching If-None-Match short-circuits to 304 with no body.
func GetUser(svc *usersvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid user ID")
			return
		}

		u, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		etag := conditional.ETag(u.Snapshot())
		if conditional.NotModified(r.Header.Get("If-None-Match"), etag) {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}

		u.Links = userLinks(u)
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "max-age=3600")
		writeJSON(w, http.StatusOK, u)
	}
}

// UpdateUser handles PATCH /users/{id}: sparse update guarded by
// If-Match. 404 takes precedence over the precondition check.
func UpdateUser(svc *usersvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid user ID")
			return
		}

		var req usersvc.UpdateRequest
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
		updated.Links = userLinks(updated)
		w.Header().Set("ETag", newETag)
		writeJSON(w, http.StatusOK, updated)
	}
}

// DeleteUser handles DELETE /users/{id}, also guarded by If-Match.
func DeleteUser(svc *usersvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid user ID")
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
