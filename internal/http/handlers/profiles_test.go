package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createProfile(t *testing.T, srv *httptest.Server, userID, username string) (id, etag string) {
	t.Helper()

	resp := do(t, http.MethodPost, srv.URL+"/profiles", map[string]any{
		"user_id":      userID,
		"username":     username,
		"display_name": "Black Mamba",
		"avatar_url":   "https://cdn.example.com/avatars/kobe.png",
		"bio":          "Love hoops & craftsmanship.",
		"style_tags":   []string{"street", "minimal"},
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id = decode(t, resp)["id"].(string)

	get := do(t, http.MethodGet, srv.URL+"/profiles/"+id, nil, nil)
	require.Equal(t, http.StatusOK, get.StatusCode)
	etag = get.Header.Get("ETag")
	require.NotEmpty(t, etag)
	return id, etag
}

func TestCreateProfile(t *testing.T) {
	srv := newServer(t)
	userID, _ := createUser(t, srv, "kobe24@example.com", "+11234567890")

	resp := do(t, http.MethodPost, srv.URL+"/profiles", map[string]any{
		"user_id":  userID,
		"username": "mamba_24",
	}, nil)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "/profiles/"+body["id"].(string), resp.Header.Get("Location"))
	assert.Equal(t, userID, body["user_id"])
	assert.Equal(t, []any{}, body["style_tags"])

	links := body["_links"].(map[string]any)
	assert.Equal(t, "/users/"+userID, links["user"])
}

func TestCreateProfile_OwnerMustExist(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/profiles", map[string]any{
		"user_id":  "3fa85f64-5717-4562-b3fc-2c963f66afa6",
		"username": "ghost",
	}, nil)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User does not exist", decode(t, resp)["detail"])
}

func TestCreateProfile_OneProfilePerUser(t *testing.T) {
	srv := newServer(t)
	userID, _ := createUser(t, srv, "kobe24@example.com", "+11234567890")
	createProfile(t, srv, userID, "mamba_24")

	resp := do(t, http.MethodPost, srv.URL+"/profiles", map[string]any{
		"user_id":  userID,
		"username": "second_handle",
	}, nil)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already has a profile", decode(t, resp)["detail"])
}

func TestCreateProfile_UsernameTaken(t *testing.T) {
	srv := newServer(t)
	u1, _ := createUser(t, srv, "kobe24@example.com", "+11234567890")
	u2, _ := createUser(t, srv, "lebron23@example.com", "+19876543210")
	createProfile(t, srv, u1, "mamba_24")

	resp := do(t, http.MethodPost, srv.URL+"/profiles", map[string]any{
		"user_id":  u2,
		"username": "MAMBA_24",
	}, nil)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username already exists", decode(t, resp)["detail"])
}

func TestGetProfile_ConditionalRequests(t *testing.T) {
	srv := newServer(t)
	userID, _ := createUser(t, srv, "kobe24@example.com", "+11234567890")
	id, etag := createProfile(t, srv, userID, "mamba_24")

	resp := do(t, http.MethodGet, srv.URL+"/profiles/"+id, nil, map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/profiles/"+id, nil, map[string]string{"If-None-Match": `"other"`})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdateProfile_Preconditions(t *testing.T) {
	srv := newServer(t)
	userID, _ := createUser(t, srv, "kobe24@example.com", "+11234567890")
	id, etag := createProfile(t, srv, userID, "mamba_24")

	resp := do(t, http.MethodPatch, srv.URL+"/profiles/"+id,
		map[string]any{"bio": "Should not apply"},
		map[string]string{"If-Match": `"stale"`})
	require.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)

	resp = do(t, http.MethodPatch, srv.URL+"/profiles/"+id,
		map[string]any{"bio": "Fashion forward.", "style_tags": []string{"luxury"}},
		map[string]string{"If-Match": etag})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Fashion forward.", body["bio"])
	assert.Equal(t, []any{"luxury"}, body["style_tags"])
	assert.NotEqual(t, etag, resp.Header.Get("ETag"))

	// user_id is immutable: an attempt to change it is simply ignored.
	resp = do(t, http.MethodPatch, srv.URL+"/profiles/"+id,
		map[string]any{"user_id": "3fa85f64-5717-4562-b3fc-2c963f66afa6"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, decode(t, resp)["user_id"])
}

func TestDeleteProfile(t *testing.T) {
	srv := newServer(t)
	userID, _ := createUser(t, srv, "kobe24@example.com", "+11234567890")
	id, etag := createProfile(t, srv, userID, "mamba_24")

	resp := do(t, http.MethodDelete, srv.URL+"/profiles/"+id, nil, map[string]string{"If-Match": `"stale"`})
	require.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/profiles/"+id, nil, map[string]string{"If-Match": etag})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/profiles/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteUser_RemovesProfile(t *testing.T) {
	srv := newServer(t)
	userID, _ := createUser(t, srv, "kobe24@example.com", "+11234567890")
	profileID, _ := createProfile(t, srv, userID, "mamba_24")

	resp := do(t, http.MethodDelete, srv.URL+"/users/"+userID, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/profiles/"+profileID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListProfiles_FilterByOwner(t *testing.T) {
	srv := newServer(t)
	u1, _ := createUser(t, srv, "kobe24@example.com", "+11234567890")
	u2, _ := createUser(t, srv, "lebron23@example.com", "+19876543210")
	createProfile(t, srv, u1, "mamba_24")
	createProfile(t, srv, u2, "king_james")

	resp := do(t, http.MethodGet, srv.URL+"/profiles?userId="+u2, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode(t, resp)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "king_james", items[0].(map[string]any)["username"])

	resp = do(t, http.MethodGet, srv.URL+"/profiles?userId=not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListProfiles_FilterByUsernameCaseInsensitive(t *testing.T) {
	srv := newServer(t)
	u1, _ := createUser(t, srv, "kobe24@example.com", "+11234567890")
	createProfile(t, srv, u1, "mamba_24")

	resp := do(t, http.MethodGet, srv.URL+"/profiles?username=MAMBA_24", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode(t, resp)["items"].([]any)
	require.Len(t, items, 1)
}
