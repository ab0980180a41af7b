// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopmind/shopmind/internal/logging"
)

func TestRequestID_Generated(t *testing.T) {
	var gotCtxID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCtxID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	headerID := rec.Header().Get("X-Request-ID")
	if headerID == "" {
		t.Fatal("Expected X-Request-ID header to be set")
	}
	if gotCtxID != headerID {
		t.Errorf("Context request ID %q != header %q", gotCtxID, headerID)
	}
	if logID := logging.RequestIDFromContext(req.Context()); logID != "" {
		// Original request context is untouched; the handler saw the derived one.
		t.Errorf("Original request context should not carry request ID, got %q", logID)
	}
}

func TestRequestID_UpstreamHonored(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetRequestID(r.Context()); got != "upstream-123" {
			t.Errorf("GetRequestID() = %q, want upstream-123", got)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "upstream-123" {
		t.Errorf("X-Request-ID header = %q, want upstream-123", got)
	}
}

func TestRequestID_Unique(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		id := rec.Header().Get("X-Request-ID")
		if seen[id] {
			t.Fatalf("Duplicate request ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestPrometheusMetrics_CapturesStatus(t *testing.T) {
	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestPrometheusMetrics_DefaultStatusOK(t *testing.T) {
	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestCompression_GzipApplied(t *testing.T) {
	payload := strings.Repeat("recommendation ", 200)
	handler := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}

	gz, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	defer gz.Close()

	decompressed, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("Reading gzip body: %v", err)
	}
	if string(decompressed) != payload {
		t.Error("Decompressed body does not match original payload")
	}
}

func TestCompression_SkippedWithoutAcceptHeader(t *testing.T) {
	handler := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want empty", got)
	}
	if rec.Body.String() != "plain" {
		t.Errorf("Body = %q, want plain", rec.Body.String())
	}
}

func TestPerformanceMonitor_RecordAndStats(t *testing.T) {
	pm := NewPerformanceMonitor(100)

	durations := []int64{10, 20, 30, 40, 50}
	for _, d := range durations {
		pm.RecordRequest(&RequestMetrics{
			Path:       "/api/v1/users/{userID}/recommendations",
			Method:     "GET",
			DurationMS: d,
			StatusCode: 200,
			Timestamp:  time.Now(),
		})
	}

	stats := pm.GetStats()
	if len(stats) != 1 {
		t.Fatalf("GetStats() returned %d endpoints, want 1", len(stats))
	}

	s := stats[0]
	if s.RequestCount != 5 {
		t.Errorf("RequestCount = %d, want 5", s.RequestCount)
	}
	if s.AvgDuration != 30 {
		t.Errorf("AvgDuration = %v, want 30", s.AvgDuration)
	}
	if s.MinDuration != 10 || s.MaxDuration != 50 {
		t.Errorf("Min/Max = %d/%d, want 10/50", s.MinDuration, s.MaxDuration)
	}
	if s.P50Duration != 30 {
		t.Errorf("P50 = %d, want 30", s.P50Duration)
	}
}

func TestPerformanceMonitor_SlidingWindow(t *testing.T) {
	pm := NewPerformanceMonitor(3)

	for i := 1; i <= 5; i++ {
		pm.RecordRequest(&RequestMetrics{
			Path:       "/",
			Method:     "GET",
			DurationMS: int64(i),
		})
	}

	recent := pm.GetRecentMetrics(10)
	if len(recent) != 3 {
		t.Fatalf("Window holds %d metrics, want 3", len(recent))
	}
	if recent[0].DurationMS != 3 || recent[2].DurationMS != 5 {
		t.Errorf("Window = [%d..%d], want [3..5]", recent[0].DurationMS, recent[2].DurationMS)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	pm := NewPerformanceMonitor(10)
	handler := pm.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ratings", nil))

	recent := pm.GetRecentMetrics(1)
	if len(recent) != 1 {
		t.Fatal("Expected one recorded metric")
	}
	if recent[0].StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want %d", recent[0].StatusCode, http.StatusCreated)
	}
	if recent[0].Method != http.MethodPost {
		t.Errorf("Method = %q, want POST", recent[0].Method)
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []int64
		p      float64
		want   int64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []int64{7}, 0.99, 7},
		{"median of five", []int64{1, 2, 3, 4, 5}, 0.5, 3},
		{"p99 of five", []int64{1, 2, 3, 4, 5}, 0.99, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(tt.sorted, tt.p); got != tt.want {
				t.Errorf("percentile(%v, %v) = %d, want %d", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}
