// Package provider holds the types exchanged with external delivery providers.
package provider

// EmailMessage is a single transactional email.
type EmailMessage struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// SendResult is the provider's acknowledgement of an accepted message.
type SendResult struct {
	MessageID string
}
