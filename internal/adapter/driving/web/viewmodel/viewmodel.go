// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// ToastViewModel holds a flash notification shown once after a redirect.
type ToastViewModel struct {
	IsError  bool
	Title    string
	Subtitle string
}

// ModelOptionViewModel holds presentation data for one selectable model.
type ModelOptionViewModel struct {
	Name     string
	Key      string // form value: "credentialID/name"
	Stored   bool
	Active   bool
	Selected bool
}

// CredentialCardViewModel holds presentation data for one AI server card.
// The token is never part of a view model.
type CredentialCardViewModel struct {
	ID          string
	Name        string
	EndpointURL string
	Available   bool
	Models      []ModelOptionViewModel
}

// AIConfigPageViewModel holds all data needed to render the AI configuration page.
type AIConfigPageViewModel struct {
	CSRFToken string
	Cards     []CredentialCardViewModel
	Toast     *ToastViewModel
	// HasModels is false when no card offers a selectable model.
	HasModels bool
}

// ChatPageViewModel holds all data needed to render the chat page.
type ChatPageViewModel struct {
	CSRFToken   string
	ActiveModel string
	Question    string
	AnswerHTML  string
	Error       string
}
