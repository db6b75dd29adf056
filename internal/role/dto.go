package role

import (
	"encoding/json"
	"strings"
)

// PermissionsInput accepts either a JSON array of strings or a single
// comma-delimited string, mirroring what older clients send.
type PermissionsInput []string

func (p *PermissionsInput) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*p = list
		return nil
	}
	var csv string
	if err := json.Unmarshal(data, &csv); err != nil {
		return err
	}
	*p = strings.Split(csv, ",")
	return nil
}

type CreateRoleDTO struct {
	Name        string           `json:"name"`
	NameAr      string           `json:"name_ar"`
	Permissions PermissionsInput `json:"permissions"`
}

type UpdateRoleDTO struct {
	NameAr      *string           `json:"name_ar,omitempty"`
	Permissions *PermissionsInput `json:"permissions,omitempty"`
	IsActive    *bool             `json:"is_active,omitempty"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateRoleDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "name is required"}
	}
	if strings.TrimSpace(d.NameAr) == "" {
		return ValidationError{Msg: "name_ar is required"}
	}
	return nil
}
