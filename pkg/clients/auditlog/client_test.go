package auditlog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mamadbah2/pitak/internal/config"
	"github.com/mamadbah2/pitak/internal/domain/models"
)

func TestSaveMeasurementRecord(t *testing.T) {
	var (
		gotAuth string
		gotPath string
		gotBody models.MeasurementRecord
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(config.AuditConfig{WebhookURL: srv.URL + "/", WebhookToken: "secret"})
	rec := models.MeasurementRecord{
		ID:        "rec-1",
		Shape:     models.ShapeCircle,
		RawInputs: models.RawInputs{"radius": 1},
		Method:    "Circle: π × Radius² (buhol→m)",
		Timestamp: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := client.SaveMeasurementRecord(context.Background(), rec); err != nil {
		t.Fatalf("SaveMeasurementRecord() err=%v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/measurement-records" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.ID != "rec-1" || gotBody.RawInputs["radius"] != 1 || !gotBody.Timestamp.Equal(rec.Timestamp) {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestSaveMeasurementRecordServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"maintenance"}`))
	}))
	defer srv.Close()

	client := NewClient(config.AuditConfig{WebhookURL: srv.URL})
	err := client.SaveMeasurementRecord(context.Background(), models.MeasurementRecord{ID: "rec-2"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "code=503") || !strings.Contains(err.Error(), "maintenance") {
		t.Fatalf("err = %v", err)
	}
}
