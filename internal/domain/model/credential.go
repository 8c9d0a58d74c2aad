package model

// Credential is a stored AI server endpoint plus the bearer token used to reach it.
// ID is empty until the credential has been persisted. EndpointURL is the
// unique key of a credential.
type Credential struct {
	ID          string
	Name        string
	Token       string
	EndpointURL string
	// Available is false when the last probe of EndpointURL failed.
	Available bool
	Models    []Model
}

// Persisted reports whether the credential has a store-assigned ID.
func (c Credential) Persisted() bool {
	return c.ID != ""
}

// Clone returns a copy of c whose Models slice does not alias c.Models.
func (c Credential) Clone() Credential {
	out := c
	if c.Models != nil {
		out.Models = make([]Model, len(c.Models))
		copy(out.Models, c.Models)
	}
	return out
}

// HasModel reports whether a model with the given name is already listed.
func (c Credential) HasModel(name string) bool {
	for _, m := range c.Models {
		if m.Name == name {
			return true
		}
	}
	return false
}
