package user

import "strings"

type CreateUserDTO struct {
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Phone    *string `json:"phone,omitempty"`
	Password string  `json:"password"`
	RoleID   string  `json:"role_id"`
}

type UpdateUserDTO struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	RoleID *string `json:"role_id,omitempty"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateUserDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return ValidationError{Msg: "email is required"}
	}
	if !strings.Contains(d.Email, "@") {
		return ValidationError{Msg: "email is invalid"}
	}
	if len(d.Password) < 8 {
		return ValidationError{Msg: "password must be at least 8 characters"}
	}
	if strings.TrimSpace(d.RoleID) == "" {
		return ValidationError{Msg: "role_id is required"}
	}
	return nil
}
