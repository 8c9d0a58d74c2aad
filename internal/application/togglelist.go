package application

import (
	"fmt"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

// ToggleList is the in-memory selection state of the AI configuration form.
// Turning one model on turns every other model off, across all credentials.
// It is not safe for concurrent use; each request builds its own list.
type ToggleList struct {
	creds []model.Credential
}

// NewToggleList copies creds into a new list.
func NewToggleList(creds []model.Credential) *ToggleList {
	list := make([]model.Credential, len(creds))
	for i, c := range creds {
		list[i] = c.Clone()
	}
	return &ToggleList{creds: list}
}

// Credentials returns a copy of the current list.
func (l *ToggleList) Credentials() []model.Credential {
	out := make([]model.Credential, len(l.creds))
	for i, c := range l.creds {
		out[i] = c.Clone()
	}
	return out
}

// Toggle selects the model at (credentialIndex, modelIndex) and clears every
// other toggle.
func (l *ToggleList) Toggle(credentialIndex, modelIndex int) error {
	if credentialIndex < 0 || credentialIndex >= len(l.creds) {
		return fmt.Errorf("toggle model: credential index %d out of range", credentialIndex)
	}
	if modelIndex < 0 || modelIndex >= len(l.creds[credentialIndex].Models) {
		return fmt.Errorf("toggle model: model index %d out of range", modelIndex)
	}

	for ci := range l.creds {
		for mi := range l.creds[ci].Models {
			l.creds[ci].Models[mi].Toggle = ci == credentialIndex && mi == modelIndex
		}
	}
	return nil
}

// Select toggles the model whose Key equals key. The list is unchanged when
// no model matches.
func (l *ToggleList) Select(key string) error {
	for ci, c := range l.creds {
		for mi, m := range c.Models {
			if m.Key() == key {
				return l.Toggle(ci, mi)
			}
		}
	}
	return fmt.Errorf("select model: no model with key %q", key)
}

// toggledModels scans credentials in order and their models in order.
// Models without a CredentialID inherit the owning credential's ID.
func toggledModels(creds []model.Credential) []model.Model {
	var toggled []model.Model
	for _, c := range creds {
		for _, m := range c.Models {
			if !m.Toggle {
				continue
			}
			if m.CredentialID == "" {
				m.CredentialID = c.ID
			}
			toggled = append(toggled, m)
		}
	}
	return toggled
}
