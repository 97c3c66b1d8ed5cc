package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguard-server/internal/cache"
	"github.com/medguard-server/internal/domain"
	"github.com/medguard-server/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	profileCache, err := cache.NewLRUCache(16)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	cfg := &domain.Config{
		Logging:   domain.LoggingConfig{Level: "info"},
		RateLimit: domain.RateLimitConfig{Enabled: false},
	}

	return NewServer(cfg, st, profileCache, logger)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), into))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string         `json:"status"`
		Tables map[string]int `json:"tables"`
	}
	decode(t, w, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, 10, body.Tables["drug_master"])
}

func TestListDrugs(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/drugs", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Drugs      []domain.DrugWithBrands `json:"drugs"`
		Count      int                     `json:"count"`
		Disclaimer string                  `json:"disclaimer"`
	}
	decode(t, w, &body)
	assert.Equal(t, 10, body.Count)
	assert.Equal(t, domain.Disclaimer, body.Disclaimer)
}

func TestGetDrugProfile(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/drugs/D05", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile domain.DrugProfile
	decode(t, w, &profile)
	assert.Equal(t, "Metronidazole", profile.Molecule)
	assert.Equal(t, domain.Disclaimer, profile.Disclaimer)
}

func TestGetDrugProfile_NotFound(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/drugs/D99", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var body struct {
		Error domain.APIError `json:"error"`
	}
	decode(t, w, &body)
	assert.Equal(t, domain.CodeNotFound, body.Error.Code)
	assert.Contains(t, body.Error.Details, "D99")
}

func TestAssessRisk_Scenario(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/risk", map[string]interface{}{
		"drug_ids":       []string{"D03", "D01"},
		"user_age":       70,
		"report_alcohol": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var assessment domain.RiskAssessment
	decode(t, w, &assessment)
	assert.Equal(t, domain.RED, assessment.RiskLevel)
	assert.NotEmpty(t, assessment.Flags)
	assert.NotEmpty(t, assessment.ClinicalAnalysis)
	assert.Equal(t, domain.Disclaimer, assessment.Disclaimer, "disclaimer is verbatim on every response")
}

func TestAssessRisk_Validation(t *testing.T) {
	srv := newTestServer(t)

	// an empty drug list is a valid request and assesses GREEN
	w := doJSON(t, srv, http.MethodPost, "/api/v1/risk", map[string]interface{}{
		"drug_ids": []string{},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var assessment domain.RiskAssessment
	decode(t, w, &assessment)
	assert.Equal(t, domain.GREEN, assessment.RiskLevel)
	assert.Empty(t, assessment.Flags)
	assert.Empty(t, assessment.Sources)
	assert.Equal(t, domain.Disclaimer, assessment.Disclaimer)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/risk", map[string]interface{}{
		"drug_ids":     []string{"D02"},
		"missed_doses": map[string]int{"D02": -1},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessRisk_UnknownDrug(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/risk", map[string]interface{}{
		"drug_ids": []string{"D01", "D99"},
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	var body struct {
		Error domain.APIError `json:"error"`
	}
	decode(t, w, &body)
	assert.Equal(t, domain.CodeNotFound, body.Error.Code)
}

func TestCheckInteractions(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/interactions", map[string]interface{}{
		"drug_ids": []string{"D09", "D03"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		RiskLevel   domain.RiskLevel                    `json:"risk_level"`
		Flags       []domain.RiskFlag                   `json:"flags"`
		FoodAlcohol map[string][]domain.FoodAlcoholRule `json:"food_alcohol"`
		Disclaimer  string                              `json:"disclaimer"`
	}
	decode(t, w, &body)
	assert.Equal(t, domain.RED, body.RiskLevel)
	assert.Len(t, body.Flags, 1)
	assert.Len(t, body.FoodAlcohol["D09"], 2)
	assert.Len(t, body.FoodAlcohol["D03"], 1)
	assert.Equal(t, domain.Disclaimer, body.Disclaimer)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/interactions", map[string]interface{}{
		"drug_ids": []string{"D09"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/interactions", map[string]interface{}{
		"drug_ids": []string{"D09", "D99"},
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAMRCheck(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/amr", map[string]interface{}{
		"drug_id":      "D02",
		"missed_doses": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var status domain.AMRStatus
	decode(t, w, &status)
	assert.Equal(t, domain.RED, status.RiskLevel)
	assert.Equal(t, "Amoxicillin", status.Drug)
}

func TestExplain(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/explain", map[string]interface{}{
		"drug_id": "D03",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var profile domain.DrugProfile
	decode(t, w, &profile)
	assert.Equal(t, "Ibuprofen", profile.Molecule)
	assert.NotEmpty(t, profile.Evidence)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/explain", map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmMedicineAndTimeline(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/medicine", map[string]interface{}{
		"drug_id":    "D02",
		"user_id":    "u1",
		"start_date": "2026-08-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Entry domain.TimelineEntry `json:"entry"`
	}
	decode(t, w, &created)
	assert.NotZero(t, created.Entry.ID)
	assert.True(t, created.Entry.Confirmed)
	assert.Equal(t, "Amoxicillin", created.Entry.DrugName)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/timeline?user_id=u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Timeline []domain.TimelineItem `json:"timeline"`
		Count    int                   `json:"count"`
	}
	decode(t, w, &listed)
	require.Equal(t, 1, listed.Count)
	assert.Equal(t, "Amoxicillin", listed.Timeline[0].Molecule)
}

func TestConfirmMedicine_BadDate(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/medicine", map[string]interface{}{
		"drug_id":    "D02",
		"start_date": "15/08/2026",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsights_EmptyTimeline(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/insights?user_id=nobody", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Insights []domain.Insight `json:"insights"`
	}
	decode(t, w, &body)
	require.Len(t, body.Insights, 1)
	assert.Equal(t, "info", body.Insights[0].Type)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "caller-supplied", w.Header().Get("X-Request-ID"))
}
