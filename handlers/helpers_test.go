package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/fixture-engine/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: round 1 match 2", services.ErrNotReadyToAdvance), http.StatusAccepted},
		{services.ErrCompetitionNotFound, http.StatusNotFound},
		{services.ErrRoundNotFound, http.StatusNotFound},
		{services.ErrTeamNotEntered, http.StatusNotFound},
		{services.ErrAlreadyScheduled, http.StatusConflict},
		{services.ErrNotInDraft, http.StatusConflict},
		{services.ErrNoSchedule, http.StatusConflict},
		{services.ErrBracketComplete, http.StatusConflict},
		{services.ErrRoundAlreadyAdvanced, http.StatusConflict},
		{services.ErrTeamAlreadyEntered, http.StatusConflict},
		{services.ErrInvalidInput, http.StatusBadRequest},
		{services.ErrUnsupportedFormat, http.StatusBadRequest},
		{services.ErrNotKnockout, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil), tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestNotReadyResponseBody(t *testing.T) {
	rec := httptest.NewRecorder()
	mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil), services.ErrNotReadyToAdvance)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "not_ready", body["status"])
	assert.NotEmpty(t, body["message"])
}

func TestServerErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"Cup"}`, ""},
		{"empty", ``, "body must not be empty"},
		{"syntax", `{"name":`, "badly-formed JSON"},
		{"type", `{"name": 5}`, `incorrect JSON type for field "name"`},
		{"unknown field", `{"title":"Cup"}`, `unknown key "title"`},
		{"two values", `{"name":"a"}{"name":"b"}`, "single JSON value"},
		{"too large", `{"name":"` + strings.Repeat("x", 1_048_577) + `"}`, "must not be larger"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := readJSON(rec, req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Cup", dst.Name)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func requestWithParams(params map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestURLParams(t *testing.T) {
	id := uuid.New()

	got, err := getUUIDFromURL(requestWithParams(map[string]string{"competitionID": id.String()}), "competitionID")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = getUUIDFromURL(requestWithParams(map[string]string{"competitionID": "42"}), "competitionID")
	assert.Error(t, err)
	_, err = getUUIDFromURL(requestWithParams(nil), "competitionID")
	assert.Error(t, err)

	n, err := getIntFromURL(requestWithParams(map[string]string{"roundNumber": "3"}), "roundNumber")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, bad := range []string{"", "zero", "0", "-1"} {
		_, err := getIntFromURL(requestWithParams(map[string]string{"roundNumber": bad}), "roundNumber")
		assert.Error(t, err, bad)
	}
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(ctx context.Context) error { return p.err }

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(fakePinger{}).Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(fakePinger{err: errors.New("down")}).Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
