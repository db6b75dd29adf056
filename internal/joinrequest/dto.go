package joinrequest

import "strings"

type SubmitDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Area  string `json:"area,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type ReviewDTO struct {
	Status string `json:"status"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d SubmitDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "name is required"}
	}
	if strings.TrimSpace(d.Phone) == "" {
		return ValidationError{Msg: "phone is required"}
	}
	return nil
}

func (d ReviewDTO) Validate() error {
	switch d.Status {
	case StatusApproved, StatusRejected:
		return nil
	}
	return ValidationError{Msg: "status must be APPROVED or REJECTED"}
}
