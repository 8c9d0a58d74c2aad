package model

// NotificationType distinguishes success toasts from error toasts.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Notification is a user-facing toast produced by a form submission.
type Notification struct {
	Type     NotificationType
	Title    string
	Subtitle string
}

// SuccessNotification builds a success toast with the standard title.
func SuccessNotification(subtitle string) *Notification {
	return &Notification{Type: NotificationSuccess, Title: "Erfolg", Subtitle: subtitle}
}

// ErrorNotification builds an error toast with the standard title.
func ErrorNotification(subtitle string) *Notification {
	return &Notification{Type: NotificationError, Title: "Fehler", Subtitle: subtitle}
}
