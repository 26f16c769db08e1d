package resend

// apiRequest is the JSON body of POST /emails.
type apiRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

// apiResponse is returned for accepted messages.
type apiResponse struct {
	ID string `json:"id"`
}

// apiError is returned for rejected messages.
type apiError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}
