package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
	"github.com/ericfisherdev/selflearning/internal/domain/port/driven"
	"github.com/ericfisherdev/selflearning/internal/metrics"
)

// ConfigService implements the administrator operations on AI server
// credentials and the active model. Every operation requires an ADMIN
// principal and touches no store before that check passes.
type ConfigService struct {
	store      driven.CredentialStore
	prober     driven.ModelProber
	reconciler *Reconciler
	logger     *slog.Logger
}

// NewConfigService creates a ConfigService.
func NewConfigService(store driven.CredentialStore, prober driven.ModelProber, logger *slog.Logger) *ConfigService {
	return &ConfigService{
		store:      store,
		prober:     prober,
		reconciler: NewReconciler(prober, logger),
		logger:     logger,
	}
}

// Reconciler returns the reconciler shared with the availability monitor.
func (s *ConfigService) Reconciler() *Reconciler {
	return s.reconciler
}

// AddCredential stores a new AI server with the listed model names.
func (s *ConfigService) AddCredential(ctx context.Context, p model.Principal, in CredentialInput) (model.Credential, error) {
	if !p.IsAdmin() {
		return model.Credential{}, ErrUnauthorized
	}

	in.normalize()
	if err := validateInput(&in); err != nil {
		return model.Credential{}, err
	}

	cred := model.Credential{
		Name:        in.Name,
		Token:       in.Token,
		EndpointURL: in.EndpointURL,
		Available:   true,
	}
	for _, m := range in.Models {
		cred.Models = append(cred.Models, model.Model{Name: strings.TrimSpace(m.Name)})
	}

	created, err := s.store.Create(ctx, cred)
	if err != nil {
		return model.Credential{}, fmt.Errorf("add credential: %w", err)
	}

	s.logger.Info("credential added",
		"credential", created.ID,
		"endpoint", created.EndpointURL,
		"models", len(created.Models),
		"by", p.ID,
	)
	return created, nil
}

// RemoveCredential deletes a credential and its models, addressed by ID or,
// when no ID is given, by endpoint URL.
func (s *ConfigService) RemoveCredential(ctx context.Context, p model.Principal, in RemoveInput) (model.Credential, error) {
	if !p.IsAdmin() {
		return model.Credential{}, ErrUnauthorized
	}

	if err := in.validate(); err != nil {
		return model.Credential{}, err
	}

	var (
		removed model.Credential
		err     error
	)
	if in.ID != "" {
		removed, err = s.store.Delete(ctx, in.ID)
	} else {
		removed, err = s.store.DeleteByEndpoint(ctx, in.EndpointURL)
	}
	if err != nil {
		return model.Credential{}, fmt.Errorf("remove credential: %w", err)
	}

	metrics.ForgetEndpoint(removed.EndpointURL)
	s.logger.Info("credential removed", "credential", removed.ID, "endpoint", removed.EndpointURL, "by", p.ID)
	return removed, nil
}

// AddModel stores the model under its credential if needed and makes it the
// single active model. Other models are never deleted.
func (s *ConfigService) AddModel(ctx context.Context, p model.Principal, in ModelInput) (model.Model, error) {
	if !p.IsAdmin() {
		return model.Model{}, ErrUnauthorized
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(&in); err != nil {
		return model.Model{}, err
	}

	activated, err := s.store.ActivateModel(ctx, model.Model{Name: in.Name, CredentialID: in.CredentialID})
	if err != nil {
		return model.Model{}, fmt.Errorf("add model: %w", err)
	}

	s.logger.Info("model added", "model", activated.Name, "credential", activated.CredentialID, "by", p.ID)
	return activated, nil
}

// Credentials returns every stored credential reconciled against a fresh probe
// of its endpoint. Stored models start toggled when they are active.
func (s *ConfigService) Credentials(ctx context.Context, p model.Principal) ([]model.Credential, error) {
	if !p.IsAdmin() {
		return nil, ErrUnauthorized
	}

	stored, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}

	for i := range stored {
		for j := range stored[i].Models {
			stored[i].Models[j].Toggle = stored[i].Models[j].Active
		}
	}

	return s.reconciler.Reconcile(ctx, stored), nil
}

// ProbeCredential reconciles a single credential, typically one just added.
func (s *ConfigService) ProbeCredential(ctx context.Context, cred model.Credential) model.Credential {
	return s.reconciler.Reconcile(ctx, []model.Credential{cred})[0]
}

// ProbeModels asks an arbitrary endpoint for its model names. It is admin-only
// because the server issues the request on the caller's behalf.
func (s *ConfigService) ProbeModels(ctx context.Context, p model.Principal, in ProbeInput) ([]string, error) {
	if !p.IsAdmin() {
		return nil, ErrUnauthorized
	}

	in.EndpointURL = strings.TrimRight(strings.TrimSpace(in.EndpointURL), "/")
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	names, err := s.prober.ListModels(ctx, in.EndpointURL, in.Token)
	metrics.ObserveProbe(err == nil)
	if err != nil {
		return nil, fmt.Errorf("probe models: %w", err)
	}
	return names, nil
}

// Submit applies the single-active-model rule to creds and activates the one
// toggled model through AddModel, so it is validated the same way. Zero
// toggles is a no-op; more than one yields an error notification without any
// store call.
func (s *ConfigService) Submit(ctx context.Context, p model.Principal, creds []model.Credential) (SubmitResult, error) {
	if !p.IsAdmin() {
		return SubmitResult{}, ErrUnauthorized
	}

	activate := func(ctx context.Context, m model.Model) (model.Model, error) {
		return s.AddModel(ctx, p, ModelInput{Name: m.Name, CredentialID: m.CredentialID})
	}
	return submitToggles(ctx, creds, activate, s.logger), nil
}

// SubmitSelection activates the model identified by key ("credentialID/name")
// among the reconciled credentials. An unknown key yields an error notification.
func (s *ConfigService) SubmitSelection(ctx context.Context, p model.Principal, key string) (SubmitResult, error) {
	creds, err := s.Credentials(ctx, p)
	if err != nil {
		return SubmitResult{}, err
	}

	list := NewToggleList(creds)
	if err := list.Select(key); err != nil {
		s.logger.Warn("activation key not found", "key", key, "error", err)
		return SubmitResult{Notification: model.ErrorNotification(MsgActivateFailed)}, nil
	}

	return s.Submit(ctx, p, list.Credentials())
}
