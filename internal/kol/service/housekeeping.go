package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/openkol/kolboard/internal/kol/store"
)

// HousekeepingService periodically reconciles pending invitations whose TTL
// elapsed without anyone touching them. Lazy expiry at read time is the
// correctness mechanism; this sweep only keeps listings and stats from
// accumulating stale pending rows.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs the sweep.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress sweep.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run a sweep immediately on startup
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep reconciles every overdue pending invitation to expired.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	if err := s.Store.Invitations().ExpireOverdueInvitations(ctx, time.Now().UTC()); err != nil {
		s.Logger.Error("failed to expire overdue invitations", "error", err)
		return
	}
	s.Logger.Debug("expired overdue invitations reconciled")
}
