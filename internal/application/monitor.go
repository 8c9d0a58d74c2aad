package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/selflearning/internal/domain/port/driven"
)

// refreshRequest represents a manual refresh trigger.
type refreshRequest struct {
	done chan error
}

// Availability summarizes the last reconciliation of all stored credentials.
type Availability struct {
	Credentials int       `json:"credentials"`
	Available   int       `json:"available"`
	CheckedAt   time.Time `json:"checked_at"`
}

// Monitor periodically reconciles every stored credential so that
// availability gauges and the health endpoint stay current without an
// administrator opening the configuration page.
type Monitor struct {
	store      driven.CredentialStore
	reconciler *Reconciler
	interval   time.Duration
	refreshCh  chan refreshRequest
	logger     *slog.Logger

	mu     sync.RWMutex
	status Availability
}

// NewMonitor creates a Monitor. A non-positive interval disables the ticker;
// manual refreshes still work.
func NewMonitor(store driven.CredentialStore, reconciler *Reconciler, interval time.Duration, logger *slog.Logger) *Monitor {
	return &Monitor{
		store:      store,
		reconciler: reconciler,
		interval:   interval,
		refreshCh:  make(chan refreshRequest),
		logger:     logger,
	}
}

// Start runs an immediate check, then checks on the configured interval and
// serves manual refresh requests. Start blocks until the context is canceled.
func (m *Monitor) Start(ctx context.Context) {
	if err := m.checkAll(ctx); err != nil {
		m.logger.Error("initial availability check failed", "error", err)
	}

	var tick <-chan time.Time
	if m.interval > 0 {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("availability monitor stopped")
			return
		case <-tick:
			if err := m.checkAll(ctx); err != nil {
				m.logger.Error("availability check failed", "error", err)
			}
		case req := <-m.refreshCh:
			req.done <- m.checkAll(ctx)
		}
	}
}

// Refresh triggers an immediate check, bypassing the interval. It blocks
// until the check completes or the context is canceled.
func (m *Monitor) Refresh(ctx context.Context) error {
	req := refreshRequest{done: make(chan error, 1)}

	select {
	case m.refreshCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Availability returns the summary of the last completed check. CheckedAt is
// zero before the first check.
func (m *Monitor) Availability() Availability {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// checkAll reconciles every stored credential and publishes the result.
func (m *Monitor) checkAll(ctx context.Context) error {
	start := time.Now()

	stored, err := m.store.ListAll(ctx)
	if err != nil {
		return err
	}

	reconciled := m.reconciler.Reconcile(ctx, stored)

	status := Availability{Credentials: len(reconciled), CheckedAt: time.Now()}
	for _, c := range reconciled {
		if c.Available {
			status.Available++
		}
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()

	m.logger.Info("availability check complete",
		"credentials", status.Credentials,
		"available", status.Available,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
