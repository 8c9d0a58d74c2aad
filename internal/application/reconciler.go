// Package application contains use-case orchestration services.
package application

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
	"github.com/ericfisherdev/selflearning/internal/domain/port/driven"
	"github.com/ericfisherdev/selflearning/internal/metrics"
)

// defaultProbeConcurrency bounds the number of in-flight probes per reconciliation.
const defaultProbeConcurrency = 8

// Reconciler merges stored credentials with the models their endpoints
// currently report.
type Reconciler struct {
	prober driven.ModelProber
	limit  int
	logger *slog.Logger
}

// NewReconciler creates a Reconciler that probes through prober.
func NewReconciler(prober driven.ModelProber, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		prober: prober,
		limit:  defaultProbeConcurrency,
		logger: logger,
	}
}

// Reconcile probes every credential concurrently and returns one reconciled
// copy per input, in input order. A failed probe marks the copy unavailable
// and leaves its models untouched. A successful probe appends each reported
// name that is not stored yet as an unpersisted model. The inputs are not
// modified.
func (r *Reconciler) Reconcile(ctx context.Context, creds []model.Credential) []model.Credential {
	out := make([]model.Credential, len(creds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for i, cred := range creds {
		g.Go(func() error {
			out[i] = r.reconcileOne(gctx, cred)
			return nil
		})
	}

	// Probe failures are recorded per credential, never returned.
	_ = g.Wait()

	return out
}

func (r *Reconciler) reconcileOne(ctx context.Context, cred model.Credential) model.Credential {
	out := cred.Clone()
	if out.Models == nil {
		out.Models = []model.Model{}
	}

	names, err := r.prober.ListModels(ctx, cred.EndpointURL, cred.Token)
	metrics.ObserveProbe(err == nil)
	metrics.SetAvailability(cred.EndpointURL, err == nil)
	if err != nil {
		r.logger.Warn("ai server unreachable",
			"credential", cred.ID,
			"endpoint", cred.EndpointURL,
			"error", err,
		)
		out.Available = false
		return out
	}

	out.Available = true
	var added int
	for _, name := range names {
		if name == "" || out.HasModel(name) {
			continue
		}
		out.Models = append(out.Models, model.Model{Name: name, CredentialID: cred.ID})
		added++
	}

	r.logger.Debug("credential reconciled",
		"credential", cred.ID,
		"endpoint", cred.EndpointURL,
		"probed", len(names),
		"added", added,
	)

	return out
}
