package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

// User-facing notification texts of the activation form.
const (
	MsgOnlyOneModel   = "Es kann nur ein Modell gleichzeitig aktiviert werden."
	MsgActivateFailed = "Fehler beim Aktivieren des Modells"
)

// SubmitResult is the outcome of submitting the activation form. Both fields
// are nil when nothing was toggled.
type SubmitResult struct {
	Activated    *model.Model
	Notification *model.Notification
}

// activateFunc persists m as the single active model.
type activateFunc func(ctx context.Context, m model.Model) (model.Model, error)

// submitToggles validates the toggle state before acting: with more than one
// toggled model nothing is persisted.
func submitToggles(ctx context.Context, creds []model.Credential, activate activateFunc, logger *slog.Logger) SubmitResult {
	toggled := toggledModels(creds)

	switch len(toggled) {
	case 0:
		return SubmitResult{}
	case 1:
	default:
		logger.Info("activation rejected", "toggled", len(toggled))
		return SubmitResult{Notification: model.ErrorNotification(MsgOnlyOneModel)}
	}

	candidate := toggled[0]
	candidate.ID = ""
	candidate.Toggle = false

	activated, err := activate(ctx, candidate)
	if errors.Is(err, ErrValidation) {
		logger.Warn("activation rejected", "credential", candidate.CredentialID, "error", err)
		return SubmitResult{Notification: model.ErrorNotification(MsgActivateFailed)}
	}
	if err != nil {
		logger.Error("activate model failed",
			"model", candidate.Name,
			"credential", candidate.CredentialID,
			"error", err,
		)
		return SubmitResult{Notification: model.ErrorNotification(MsgActivateFailed)}
	}

	logger.Info("model activated", "model", activated.Name, "credential", activated.CredentialID)
	return SubmitResult{
		Activated:    &activated,
		Notification: model.SuccessNotification(fmt.Sprintf("Modell %s aktiviert", activated.Name)),
	}
}
