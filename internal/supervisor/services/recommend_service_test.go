// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

var _ suture.Service = (*RecommendService)(nil)

type mockTrainer struct {
	mu       sync.Mutex
	calls    int
	err      error
	delay    time.Duration
	deadline bool
}

func (m *mockTrainer) Train(ctx context.Context) error {
	m.mu.Lock()
	m.calls++
	_, hasDeadline := ctx.Deadline()
	m.deadline = hasDeadline
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.delay):
		}
	}
	return m.err
}

func (m *mockTrainer) getCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestNewRecommendService_Defaults(t *testing.T) {
	svc := NewRecommendService(&mockTrainer{}, RecommendServiceConfig{}, zerolog.Nop())

	if svc.config.TrainInterval != time.Hour {
		t.Errorf("TrainInterval = %v, want 1h", svc.config.TrainInterval)
	}
	if svc.config.TrainTimeout != 10*time.Minute {
		t.Errorf("TrainTimeout = %v, want 10m", svc.config.TrainTimeout)
	}
	if svc.String() != "recommend-service" {
		t.Errorf("String() = %q, want recommend-service", svc.String())
	}
}

func TestRecommendService_Serve(t *testing.T) {
	tests := []struct {
		name      string
		cfg       RecommendServiceConfig
		trainErr  error
		runFor    time.Duration
		wantCalls func(int) bool
		wantDesc  string
	}{
		{
			name:      "trains on startup",
			cfg:       RecommendServiceConfig{TrainOnStartup: true, TrainInterval: time.Hour},
			runFor:    100 * time.Millisecond,
			wantCalls: func(n int) bool { return n == 1 },
			wantDesc:  "exactly 1",
		},
		{
			name:      "no startup training",
			cfg:       RecommendServiceConfig{TrainInterval: time.Hour},
			runFor:    100 * time.Millisecond,
			wantCalls: func(n int) bool { return n == 0 },
			wantDesc:  "0",
		},
		{
			name:      "scheduled training",
			cfg:       RecommendServiceConfig{TrainInterval: 30 * time.Millisecond},
			runFor:    200 * time.Millisecond,
			wantCalls: func(n int) bool { return n >= 2 },
			wantDesc:  "at least 2",
		},
		{
			name:      "failures keep the loop alive",
			cfg:       RecommendServiceConfig{TrainOnStartup: true, TrainInterval: 30 * time.Millisecond},
			trainErr:  recommend.ErrEmptyTable,
			runFor:    200 * time.Millisecond,
			wantCalls: func(n int) bool { return n >= 3 },
			wantDesc:  "at least 3",
		},
		{
			name:      "concurrent cycle is skipped quietly",
			cfg:       RecommendServiceConfig{TrainOnStartup: true, TrainInterval: time.Hour},
			trainErr:  recommend.ErrTrainingInProgress,
			runFor:    100 * time.Millisecond,
			wantCalls: func(n int) bool { return n == 1 },
			wantDesc:  "exactly 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trainer := &mockTrainer{err: tt.trainErr}
			svc := NewRecommendService(trainer, tt.cfg, zerolog.Nop())

			ctx, cancel := context.WithTimeout(context.Background(), tt.runFor)
			defer cancel()

			if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
			}
			if got := trainer.getCalls(); !tt.wantCalls(got) {
				t.Errorf("Train() called %d times, want %s", got, tt.wantDesc)
			}
		})
	}
}

func TestRecommendService_TrainTimeoutApplied(t *testing.T) {
	trainer := &mockTrainer{delay: time.Second}
	svc := NewRecommendService(trainer, RecommendServiceConfig{
		TrainOnStartup: true,
		TrainInterval:  time.Hour,
		TrainTimeout:   20 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// The startup cycle is cut off by TrainTimeout, not by the test.
	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve() did not return")
	}

	trainer.mu.Lock()
	defer trainer.mu.Unlock()
	if !trainer.deadline {
		t.Error("training context had no deadline")
	}
}
