package post

import (
	"strings"
	"time"
)

type CreatePostDTO struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Type        string     `json:"type"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

type UpdatePostDTO struct {
	Title       *string    `json:"title,omitempty"`
	Content     *string    `json:"content,omitempty"`
	Status      *string    `json:"status,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreatePostDTO) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ValidationError{Msg: "title is required"}
	}
	if strings.TrimSpace(d.Content) == "" {
		return ValidationError{Msg: "content is required"}
	}
	switch d.Type {
	case "", TypeAnnouncement, TypeNews, TypeEvent:
	default:
		return ValidationError{Msg: "type must be one of ANNOUNCEMENT, NEWS, EVENT"}
	}
	return nil
}

func validStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}
