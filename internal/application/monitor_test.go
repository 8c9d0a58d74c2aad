package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/selflearning/internal/application"
	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

// startMonitor runs a Monitor in the background until the test ends.
func startMonitor(t *testing.T, store *mockStore, prober *mockProber, interval time.Duration) *application.Monitor {
	t.Helper()

	mon := application.NewMonitor(store, application.NewReconciler(prober, discardLogger()), interval, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		mon.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return mon
}

func TestMonitor_RefreshPublishesAvailability(t *testing.T) {
	store := &mockStore{creds: []model.Credential{
		{ID: "c1", EndpointURL: "http://up.example"},
		{ID: "c2", EndpointURL: "http://down.example"},
	}}
	prober := &mockProber{models: map[string][]string{"http://up.example": {"m"}}}

	mon := startMonitor(t, store, prober, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, mon.Refresh(ctx))

	got := mon.Availability()
	assert.Equal(t, 2, got.Credentials)
	assert.Equal(t, 1, got.Available)
	assert.False(t, got.CheckedAt.IsZero())
}

func TestMonitor_RefreshReportsStoreError(t *testing.T) {
	store := &mockStore{listErr: assert.AnError}
	mon := startMonitor(t, store, &mockProber{}, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.ErrorIs(t, mon.Refresh(ctx), assert.AnError)
}

func TestMonitor_TickerChecks(t *testing.T) {
	store := &mockStore{creds: []model.Credential{{ID: "c1", EndpointURL: "http://up.example"}}}
	prober := &mockProber{models: map[string][]string{"http://up.example": {}}}

	mon := startMonitor(t, store, prober, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		prober.mu.Lock()
		defer prober.mu.Unlock()
		return len(prober.probed) >= 2
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, mon.Availability().Available)
}

func TestMonitor_RefreshCanceled(t *testing.T) {
	mon := application.NewMonitor(&mockStore{}, application.NewReconciler(&mockProber{}, discardLogger()), 0, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, mon.Refresh(ctx), context.Canceled)
}
