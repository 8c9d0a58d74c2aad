package model

// Model is a named inference model exposed by a credential's endpoint.
// A Model synthesized from a probe result has an empty ID until it is activated.
type Model struct {
	ID           string
	Name         string
	CredentialID string
	Active       bool // persisted; at most one model is active at a time
	Toggle       bool // transient selection state, never persisted
}

// Persisted reports whether the model has a store-assigned ID.
func (m Model) Persisted() bool {
	return m.ID != ""
}

// Key identifies a model across all credentials as "credentialID/name".
// Probed models have no ID yet, so the name stands in for it.
func (m Model) Key() string {
	return m.CredentialID + "/" + m.Name
}

// ActiveModel is the model selected for chat together with the
// endpoint and token needed to call it.
type ActiveModel struct {
	Model       Model
	EndpointURL string
	Token       string
}
