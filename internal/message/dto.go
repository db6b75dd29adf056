package message

import "strings"

type SendMessageDTO struct {
	RecipientID string `json:"recipient_id"`
	Subject     string `json:"subject,omitempty"`
	Body        string `json:"body"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d SendMessageDTO) Validate() error {
	if strings.TrimSpace(d.RecipientID) == "" {
		return ValidationError{Msg: "recipient_id is required"}
	}
	if strings.TrimSpace(d.Body) == "" {
		return ValidationError{Msg: "body is required"}
	}
	return nil
}
