// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopmind/shopmind/internal/recommend"
)

// fakeHTTPServer implements HTTPServer for testing.
type fakeHTTPServer struct {
	listenErr    error
	shutdownErr  error
	shutdownSeen atomic.Bool
	release      chan struct{}
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{release: make(chan struct{})}
}

func (f *fakeHTTPServer) ListenAndServe() error {
	<-f.release
	if f.listenErr != nil {
		return f.listenErr
	}
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(ctx context.Context) error {
	f.shutdownSeen.Store(true)
	close(f.release)
	return f.shutdownErr
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	srv := newFakeHTTPServer()
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if !srv.shutdownSeen.Load() {
		t.Error("Shutdown never called")
	}
}

func TestHTTPServerService_ListenFailure(t *testing.T) {
	srv := newFakeHTTPServer()
	srv.listenErr = errors.New("address in use")
	close(srv.release)

	svc := NewHTTPServerService(srv, time.Second)
	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, srv.listenErr) {
		t.Errorf("Serve = %v, want wrapped listen error", err)
	}
}

func TestHTTPServerService_String(t *testing.T) {
	svc := NewHTTPServerService(newFakeHTTPServer(), 0)
	if svc.String() != "http-server" {
		t.Errorf("String() = %q, want http-server", svc.String())
	}
}

func testRecords() []recommend.RatingRecord {
	return []recommend.RatingRecord{
		{UserID: 1, ItemID: 10, Rating: 5},
		{UserID: 1, ItemID: 20, Rating: 4},
		{UserID: 2, ItemID: 10, Rating: 5},
		{UserID: 2, ItemID: 20, Rating: 3},
		{UserID: 3, ItemID: 10, Rating: 1},
		{UserID: 3, ItemID: 20, Rating: 2},
	}
}

func newTestRecommender(t *testing.T) *recommend.Recommender {
	t.Helper()

	rec, err := recommend.NewRecommender(recommend.Config{
		Mode: recommend.ModeUserBased, K: 2, Metric: recommend.MetricCosine, MinRatings: 1,
	})
	if err != nil {
		t.Fatalf("NewRecommender: %v", err)
	}
	return rec
}

func TestTrainerService_TrainNow(t *testing.T) {
	rec := newTestRecommender(t)
	loader := func(ctx context.Context) ([]recommend.RatingRecord, error) {
		return testRecords(), nil
	}

	svc := NewTrainerService(rec, loader, TrainerConfig{}, zerolog.Nop())

	info, err := svc.TrainNow(context.Background())
	if err != nil {
		t.Fatalf("TrainNow: %v", err)
	}
	if info.Version != 1 {
		t.Errorf("version = %d, want 1", info.Version)
	}
	if info.NumUsers != 3 || info.NumItems != 2 {
		t.Errorf("model size = %dx%d, want 3x2", info.NumUsers, info.NumItems)
	}
	if !rec.IsTrained() {
		t.Error("recommender not trained after TrainNow")
	}
}

func TestTrainerService_TrainNow_LoaderFailure(t *testing.T) {
	rec := newTestRecommender(t)
	wantErr := errors.New("database gone")
	loader := func(ctx context.Context) ([]recommend.RatingRecord, error) {
		return nil, wantErr
	}

	svc := NewTrainerService(rec, loader, TrainerConfig{}, zerolog.Nop())

	if _, err := svc.TrainNow(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("TrainNow = %v, want %v", err, wantErr)
	}
	if rec.IsTrained() {
		t.Error("recommender trained despite loader failure")
	}
}

func TestTrainerService_TrainsOnStartup(t *testing.T) {
	rec := newTestRecommender(t)
	var calls atomic.Int32
	loader := func(ctx context.Context) ([]recommend.RatingRecord, error) {
		calls.Add(1)
		return testRecords(), nil
	}

	svc := NewTrainerService(rec, loader, TrainerConfig{
		TrainOnStartup: true,
		TrainInterval:  time.Hour,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for !rec.IsTrained() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-errCh

	if calls.Load() != 1 {
		t.Errorf("loader calls = %d, want 1", calls.Load())
	}
	if !rec.IsTrained() {
		t.Error("model not trained on startup")
	}
}

func TestTrainerService_PeriodicRetrain(t *testing.T) {
	rec := newTestRecommender(t)
	var calls atomic.Int32
	loader := func(ctx context.Context) ([]recommend.RatingRecord, error) {
		calls.Add(1)
		return testRecords(), nil
	}

	svc := NewTrainerService(rec, loader, TrainerConfig{
		TrainInterval: 20 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-errCh

	if calls.Load() < 2 {
		t.Errorf("loader calls = %d, want >= 2", calls.Load())
	}
}

func TestTrainerService_String(t *testing.T) {
	svc := NewTrainerService(newTestRecommender(t), nil, TrainerConfig{}, zerolog.Nop())
	if svc.String() != "trainer-service" {
		t.Errorf("String() = %q, want trainer-service", svc.String())
	}
}
