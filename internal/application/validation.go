package application

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CredentialInput is the addCredentials payload.
type CredentialInput struct {
	ID          *string          `json:"id" validate:"omitempty,uuid"`
	Name        string           `json:"name" validate:"required,max=200"`
	Token       string           `json:"token" validate:"max=4096"`
	EndpointURL string           `json:"endpointUrl" validate:"required,url,startswith=http"`
	Models      []ModelNameInput `json:"models" validate:"omitempty,dive"`
}

// ModelNameInput names a model to store together with a new credential.
type ModelNameInput struct {
	Name string `json:"name" validate:"required,max=200"`
}

// ModelInput is the addModel payload. ID is accepted for compatibility and ignored.
type ModelInput struct {
	ID           *string `json:"id" validate:"omitempty,uuid"`
	Name         string  `json:"name" validate:"required,max=200"`
	CredentialID string  `json:"credentialId" validate:"required,uuid"`
}

// RemoveInput identifies a credential by ID or by endpoint URL; ID wins when both are set.
type RemoveInput struct {
	ID          string `json:"id" validate:"omitempty,uuid"`
	EndpointURL string `json:"endpointUrl" validate:"omitempty,url"`
}

// ProbeInput is the models payload.
type ProbeInput struct {
	EndpointURL string `json:"endpointUrl" validate:"required,url,startswith=http"`
	Token       string `json:"token" validate:"max=4096"`
}

// ChatInput is the chat payload.
type ChatInput struct {
	Message string `json:"message" validate:"required,max=20000"`
}

// validateInput runs struct validation and wraps failures in ErrValidation.
func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	return nil
}

func (in *CredentialInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.EndpointURL = strings.TrimRight(strings.TrimSpace(in.EndpointURL), "/")
}

func (in *RemoveInput) validate() error {
	in.EndpointURL = strings.TrimRight(strings.TrimSpace(in.EndpointURL), "/")
	if in.ID == "" && in.EndpointURL == "" {
		return fmt.Errorf("%w: id or endpointUrl is required", ErrValidation)
	}
	return validateInput(in)
}
