// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful SELECT query",
			operation: "SELECT",
			table:     "ratings",
			duration:  10 * time.Millisecond,
		},
		{
			name:      "successful INSERT query",
			operation: "INSERT",
			table:     "ratings",
			duration:  5 * time.Millisecond,
		},
		{
			name:      "failed query with short error",
			operation: "SELECT",
			table:     "users",
			duration:  100 * time.Millisecond,
			err:       errors.New("connection refused"),
		},
		{
			name:      "failed query with long error - truncated to 50 chars",
			operation: "SELECT",
			table:     "products",
			duration:  50 * time.Millisecond,
			err:       errors.New(strings.Repeat("x", 120)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Recording must not panic regardless of error shape.
			RecordDBQuery(tt.operation, tt.table, tt.duration, tt.err)
		})
	}
}

func TestRecordDBQuery_ErrorCounter(t *testing.T) {
	err := errors.New("disk full")

	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("INSERT", "ratings", "disk full"))
	RecordDBQuery("INSERT", "ratings", time.Millisecond, err)
	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("INSERT", "ratings", "disk full"))

	if after != before+1 {
		t.Errorf("DBQueryErrors = %v, want %v", after, before+1)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/stats", "200"))
	RecordAPIRequest("GET", "/api/v1/stats", "200", 25*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/stats", "200"))

	if after != before+1 {
		t.Errorf("APIRequestsTotal = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != base+1 {
		t.Errorf("APIActiveRequests after inc = %v, want %v", got, base+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != base {
		t.Errorf("APIActiveRequests after dec = %v, want %v", got, base)
	}
}

func TestRecordTraining(t *testing.T) {
	successBefore := testutil.ToFloat64(TrainingRuns.WithLabelValues("success"))
	failureBefore := testutil.ToFloat64(TrainingRuns.WithLabelValues("failure"))

	RecordTraining(2*time.Second, nil)
	RecordTraining(time.Second, errors.New("insufficient rating data"))

	if got := testutil.ToFloat64(TrainingRuns.WithLabelValues("success")); got != successBefore+1 {
		t.Errorf("success runs = %v, want %v", got, successBefore+1)
	}
	if got := testutil.ToFloat64(TrainingRuns.WithLabelValues("failure")); got != failureBefore+1 {
		t.Errorf("failure runs = %v, want %v", got, failureBefore+1)
	}

	// Last success timestamp should be recent.
	ts := testutil.ToFloat64(TrainingLastSuccess)
	if time.Since(time.Unix(int64(ts), 0)) > time.Minute {
		t.Errorf("TrainingLastSuccess not updated: %v", ts)
	}
}

func TestUpdateModelGauges(t *testing.T) {
	UpdateModelGauges(3, 120, 45, 900, 0.1667)

	if got := testutil.ToFloat64(ModelVersion); got != 3 {
		t.Errorf("ModelVersion = %v, want 3", got)
	}
	if got := testutil.ToFloat64(ModelUsers); got != 120 {
		t.Errorf("ModelUsers = %v, want 120", got)
	}
	if got := testutil.ToFloat64(ModelProducts); got != 45 {
		t.Errorf("ModelProducts = %v, want 45", got)
	}
	if got := testutil.ToFloat64(ModelRatings); got != 900 {
		t.Errorf("ModelRatings = %v, want 900", got)
	}
	if got := testutil.ToFloat64(ModelDensity); got != 0.1667 {
		t.Errorf("ModelDensity = %v, want 0.1667", got)
	}
}

func TestEngineCounters(t *testing.T) {
	predBefore := testutil.ToFloat64(PredictionsTotal.WithLabelValues("user_based"))
	recBefore := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("item_based"))
	simBefore := testutil.ToFloat64(SimilarityQueriesTotal.WithLabelValues("product"))

	RecordPrediction("user_based")
	RecordRecommendation("item_based")
	RecordSimilarityQuery("product")

	if got := testutil.ToFloat64(PredictionsTotal.WithLabelValues("user_based")); got != predBefore+1 {
		t.Errorf("PredictionsTotal = %v, want %v", got, predBefore+1)
	}
	if got := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("item_based")); got != recBefore+1 {
		t.Errorf("RecommendationsTotal = %v, want %v", got, recBefore+1)
	}
	if got := testutil.ToFloat64(SimilarityQueriesTotal.WithLabelValues("product")); got != simBefore+1 {
		t.Errorf("SimilarityQueriesTotal = %v, want %v", got, simBefore+1)
	}
}
