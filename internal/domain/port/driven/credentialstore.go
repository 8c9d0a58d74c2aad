// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

// Sentinel errors returned by CredentialStore implementations.
var (
	// ErrEncryptionKeyNotSet is returned when SELFLEARNING_SECRET_KEY has not been configured.
	ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set SELFLEARNING_SECRET_KEY")

	// ErrCredentialExists indicates a credential with the same endpoint URL is already stored.
	ErrCredentialExists = errors.New("credential already exists")

	// ErrCredentialNotFound indicates the requested credential does not exist.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")
)

// CredentialStore defines the driven port for AI server credential persistence.
// Tokens cross this boundary as plaintext; adapters encrypt them at rest.
type CredentialStore interface {
	// Create inserts a credential and its models, assigning IDs.
	// Returns ErrCredentialExists if the endpoint URL is already stored.
	Create(ctx context.Context, cred model.Credential) (model.Credential, error)

	// ListAll returns every credential with its models, ordered by creation.
	ListAll(ctx context.Context) ([]model.Credential, error)

	// Delete removes a credential and its models, returning the removed record.
	Delete(ctx context.Context, id string) (model.Credential, error)

	// DeleteByEndpoint removes the credential registered for endpointURL.
	DeleteByEndpoint(ctx context.Context, endpointURL string) (model.Credential, error)

	// ActivateModel stores m under its credential if it is not stored yet and
	// makes it the only active model. Other models are kept, only deactivated.
	// Returns ErrCredentialNotFound if m.CredentialID does not exist.
	ActivateModel(ctx context.Context, m model.Model) (model.Model, error)

	// ActiveModel returns the active model with its credential's endpoint and token.
	// Returns ErrModelNotFound if no model is active.
	ActiveModel(ctx context.Context) (model.ActiveModel, error)
}
