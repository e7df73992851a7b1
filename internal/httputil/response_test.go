// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, http.StatusOK, map[string]string{"text": "<b>x</b>"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"text":"<b>x</b>"}`, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "<b>", "HTML must not be escaped twice")
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteError(rec, http.StatusBadRequest, errors.New("page must be positive")))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorBody{Status: "error", Code: 400, Message: "page must be positive"}, body)
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int
		wantErr bool
	}{
		{name: "missing uses fallback", query: "", want: 7},
		{name: "empty uses fallback", query: "?page=", want: 7},
		{name: "value", query: "?page=3", want: 3},
		{name: "zero is returned for the caller to reject", query: "?page=0", want: 0},
		{name: "negative is returned for the caller to reject", query: "?page=-2", want: -2},
		{name: "not a number", query: "?page=two", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil)
			got, err := QueryInt(r, "page", 7)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrBadParam)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, BearerToken(r))

	r.Header.Set("Authorization", "Bearer  tok_123 ")
	assert.Equal(t, "tok_123", BearerToken(r))

	r.Header.Set("Authorization", "bearer tok_456")
	assert.Equal(t, "tok_456", BearerToken(r))

	r.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, BearerToken(r))
}
