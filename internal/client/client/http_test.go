package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewHTTPClient(srv.URL, 2*time.Second)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewHTTPClient_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPClient("127.0.0.1:8080", 0)
	assert.Error(t, err)
	_, err = NewHTTPClient("ftp://host", 0)
	assert.Error(t, err)
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "j@example.com", body["email"])
		assert.Equal(t, "pw", body["password"])

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Login successful",
			"data":    map[string]string{"email": "j@example.com", "username": "J", "token": "tok"},
		})
	})

	res, err := c.Login(context.Background(), "j@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, LoginResult{Email: "j@example.com", Username: "J", Token: "tok"}, res)
}

func TestLogin_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Bad credentials", "data": nil, "error": "Unauthorized"})
	})

	_, err := c.Login(context.Background(), "j@example.com", "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Bad credentials", apiErr.Message)
	assert.Equal(t, models.NetworkUnauthorized, MapError(err))
}

func TestBearerTokenAttached(t *testing.T) {
	var got []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []any{})
	})

	_, err := c.ListRecipes(context.Background(), false)
	require.NoError(t, err)
	c.SetToken("abc")
	_, err = c.ListRecipes(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer abc"}, got)
}

func TestListRecipes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("all"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "title": "a", "body": "x", "timestamp": 5, "owner": "J"},
			{"id": 2, "title": "b", "body": "", "timestamp": 6, "owner": "K"},
		})
	})

	got, err := c.ListRecipes(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.Recipe{ID: 1, Title: "a", Body: "x", Timestamp: 5, Owner: "J"}, got[0])
	assert.Equal(t, "K", got[1].Owner)
}

func TestPutRecipe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 7, body["id"])
		assert.Equal(t, "T", body["title"])
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Recipe created",
			"recipe":  map[string]any{"id": 7, "title": "T", "body": "", "timestamp": 9, "owner": "J"},
		})
	})

	got, err := c.PutRecipe(context.Background(), models.Recipe{ID: 7, Title: "T", Timestamp: 9})
	require.NoError(t, err)
	assert.Equal(t, "J", got.Owner)
}

func TestPutRecipe_ValidationMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Recipe with id 7 exists!", "data": nil, "error": "Bad Request"})
	})

	_, err := c.PutRecipe(context.Background(), models.Recipe{ID: 7, Title: "T"})
	require.Error(t, err)
	assert.Equal(t, "Recipe with id 7 exists!", ErrorMessage(err))
	assert.Equal(t, models.NetworkUnknown, MapError(err))
}

func TestDeleteRecipe(t *testing.T) {
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteRecipe(context.Background(), 12))
	assert.Equal(t, "/recipes/12", path)
}

func TestPing_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.Ping(context.Background())
	assert.Equal(t, models.NetworkServerError, MapError(err))
}

func TestNoConnectivity(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c, err := NewHTTPClient("http://"+addr, time.Second)
	require.NoError(t, err)

	err = c.Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, models.NetworkNoConnectivity, MapError(err))
	assert.Equal(t, models.NetworkNoConnectivity.Message(), ErrorMessage(err))
}

func TestTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.Ping(ctx)
	require.Error(t, err)
	assert.Equal(t, models.NetworkNoConnectivity, MapError(err))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want models.NetworkError
	}{
		{"forbidden", &APIError{Status: http.StatusForbidden}, models.NetworkUnauthorized},
		{"server", &APIError{Status: http.StatusInternalServerError}, models.NetworkServerError},
		{"not found", &APIError{Status: http.StatusNotFound}, models.NetworkUnknown},
		{"deadline", context.DeadlineExceeded, models.NetworkNoConnectivity},
		{"already mapped", models.NetworkServerError, models.NetworkServerError},
		{"other", errors.New("boom"), models.NetworkUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapError(tt.err))
		})
	}
}
