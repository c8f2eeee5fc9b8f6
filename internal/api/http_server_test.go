package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"servaura/internal/config"
	"servaura/internal/database"
	"servaura/internal/models"
	"servaura/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, cfg config.APIConfig) (*HTTPServer, *database.DB) {
	t.Helper()
	db, err := database.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	states := repository.NewMemoryStateRepository(time.Hour)
	logger := zerolog.New(io.Discard)
	return NewHTTPServer(cfg, db, states, &logger), db
}

func openConfig() config.APIConfig {
	return config.APIConfig{
		Enabled: true,
		HTTP:    config.APIHTTPConfig{Enabled: true, Port: 0},
	}
}

func futureWeekday(t *testing.T) string {
	t.Helper()
	d := time.Now().UTC().AddDate(0, 0, 7)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(models.DateLayout)
}

func createBody(t *testing.T) []byte {
	raw, err := json.Marshal(models.CreateRequest{
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		Phone:        "(555) 000-1111",
		PropertyType: "estate",
		Date:         futureWeekday(t),
		TimeSlot:     "3:00 PM",
	})
	require.NoError(t, err)
	return raw
}

func TestConsultationLifecycle(t *testing.T) {
	srv, _ := testServer(t, openConfig())
	handler := srv.Handler()

	// Create.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/consultations", bytes.NewReader(createBody(t))))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Consultation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusPending, created.Status)

	// List.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/consultations", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Consultation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	// Get one.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/consultations/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// Update status.
	rec = httptest.NewRecorder()
	patch := bytes.NewReader([]byte(`{"status":"confirmed"}`))
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/consultations/"+created.ID, patch))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Consultation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusConfirmed, updated.Status)

	// Delete.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/consultations/"+created.ID, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Gone now.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/consultations/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateConsultationValidation(t *testing.T) {
	srv, _ := testServer(t, openConfig())
	handler := srv.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/consultations", bytes.NewReader([]byte(`{"name":"x"}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/consultations", bytes.NewReader([]byte(`not json`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateConsultationConflict(t *testing.T) {
	srv, _ := testServer(t, openConfig())
	handler := srv.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/consultations", bytes.NewReader(createBody(t))))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/consultations", bytes.NewReader(createBody(t))))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPatchInvalidStatus(t *testing.T) {
	srv, _ := testServer(t, openConfig())
	handler := srv.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/consultations", bytes.NewReader(createBody(t))))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Consultation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = httptest.NewRecorder()
	body := bytes.NewReader([]byte(`{"status":"weird"}`))
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/consultations/"+created.ID, body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	srv, db := testServer(t, openConfig())
	handler := srv.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	require.NoError(t, db.UpsertAvailability(context.Background(),
		models.AvailabilityRecord{Date: "2025-06-10", UnavailableSlots: []int{0, 3, 6}}))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var records []models.AvailabilityRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, []int{0, 3, 6}, records[0].UnavailableSlots)
}

func TestHandoffEndpoints(t *testing.T) {
	srv, _ := testServer(t, openConfig())
	handler := srv.Handler()

	put := bytes.NewReader([]byte(`{"serviceIds":["lawn","windows"]}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/handoff/sess-1", put))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/handoff/sess-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"serviceIds":["lawn","windows"]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/handoff/sess-1", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/handoff/sess-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"serviceIds":[]}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t, openConfig())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func authedConfig() config.APIConfig {
	cfg := openConfig()
	cfg.Auth = config.APIAuthConfig{
		Enabled: true,
		APIKeys: []config.APIClientKey{
			{Key: "key-1", Extra: "extra-1", Name: "client", Permissions: []string{"read:consultations", "read:availability"}},
			{Key: "key-2", Extra: "extra-2", Name: "admin"},
		},
	}
	return cfg
}

func TestAuthRequired(t *testing.T) {
	srv, _ := testServer(t, authedConfig())
	handler := srv.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/consultations", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/consultations", nil)
	req.Header.Set("x-api-key", "key-1")
	req.Header.Set("x-api-extra", "wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/consultations", nil)
	req.Header.Set("x-api-key", "key-1")
	req.Header.Set("x-api-extra", "extra-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthPermissionDenied(t *testing.T) {
	srv, _ := testServer(t, authedConfig())
	handler := srv.Handler()

	// key-1 can read but not write consultations.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/consultations", bytes.NewReader(createBody(t)))
	req.Header.Set("x-api-key", "key-1")
	req.Header.Set("x-api-extra", "extra-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// key-2 has no permission list and passes everywhere.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/consultations", bytes.NewReader(createBody(t)))
	req.Header.Set("x-api-key", "key-2")
	req.Header.Set("x-api-extra", "extra-2")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAuthSkippedForHealthz(t *testing.T) {
	srv, _ := testServer(t, authedConfig())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := openConfig()
	cfg.RateLimit = config.APIRateLimitConfig{RPS: 0.001, Burst: 1}
	srv, _ := testServer(t, cfg)
	handler := srv.Handler()

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/consultations", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusTooManyRequests, statuses[1])
	assert.Equal(t, http.StatusTooManyRequests, statuses[2])
}
