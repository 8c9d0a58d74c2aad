package web

import (
	vm "github.com/ericfisherdev/selflearning/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

// toCredentialCardViewModels converts reconciled credentials to card view models.
// A model is pre-selected when its toggle is set.
func toCredentialCardViewModels(creds []model.Credential) []vm.CredentialCardViewModel {
	cards := make([]vm.CredentialCardViewModel, 0, len(creds))
	for _, c := range creds {
		cards = append(cards, toCredentialCardViewModel(c))
	}
	return cards
}

func toCredentialCardViewModel(c model.Credential) vm.CredentialCardViewModel {
	options := make([]vm.ModelOptionViewModel, 0, len(c.Models))
	for _, m := range c.Models {
		if m.CredentialID == "" {
			m.CredentialID = c.ID
		}
		options = append(options, vm.ModelOptionViewModel{
			Name:     m.Name,
			Key:      m.Key(),
			Stored:   m.Persisted(),
			Active:   m.Active,
			Selected: m.Toggle,
		})
	}

	return vm.CredentialCardViewModel{
		ID:          c.ID,
		Name:        c.Name,
		EndpointURL: c.EndpointURL,
		Available:   c.Available,
		Models:      options,
	}
}

// toToastViewModel converts a domain notification; nil stays nil.
func toToastViewModel(n *model.Notification) *vm.ToastViewModel {
	if n == nil {
		return nil
	}
	return &vm.ToastViewModel{
		IsError:  n.Type == model.NotificationError,
		Title:    n.Title,
		Subtitle: n.Subtitle,
	}
}

// hasSelectableModels reports whether any card lists a model.
func hasSelectableModels(cards []vm.CredentialCardViewModel) bool {
	for _, c := range cards {
		if len(c.Models) > 0 {
			return true
		}
	}
	return false
}
