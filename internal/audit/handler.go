package audit

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/alhamla/campaign-office/internal/transport"
	"github.com/alhamla/campaign-office/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

type logEntryResponse struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	ActorName  string    `json:"actor_name,omitempty"`
	ActorEmail string    `json:"actor_email,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	OldValues  *string   `json:"old_values,omitempty"`
	NewValues  *string   `json:"new_values,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// List serves the read-only activity-log surface: filterable by actor,
// action, entity type, and time range, with pagination or CSV export.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)

	if r.URL.Query().Get("export") == "csv" {
		h.exportCSV(w, r, f)
		return
	}

	views, total, err := h.Service.List(r.Context(), f)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "failed to list activity logs", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	entries := make([]logEntryResponse, len(views))
	for i, v := range views {
		entries[i] = toResponse(v)
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"logs":  entries,
			"total": total,
			"page":  f.Page,
			"limit": f.Limit,
		},
	})
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request, f Filter) {
	// Export ignores pagination: the whole filtered range goes out.
	f.Page = 1
	f.Limit = 500

	// Fetch the first page before touching headers, so a store failure
	// still produces an error response instead of a truncated download.
	views, _, err := h.Service.List(r.Context(), f)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "activity log export failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="activity-logs-%s.csv"`, time.Now().Format("2006-01-02")))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Timestamp", "User", "Email", "Action", "Entity Type", "Entity ID", "Old Values", "New Values"})

	for {
		for _, v := range views {
			_ = cw.Write([]string{
				v.CreatedAt.Format(time.RFC3339),
				v.ActorName,
				v.ActorEmail,
				v.Action,
				v.EntityType,
				v.EntityID,
				deref(v.OldValues),
				deref(v.NewValues),
			})
		}
		if len(views) < f.Limit {
			break
		}
		f.Page++
		views, _, err = h.Service.List(r.Context(), f)
		if err != nil {
			// Headers are already out; all we can do is stop the stream.
			h.Logger.ErrorContext(r.Context(), "activity log export failed mid-stream", "error", err)
			break
		}
	}
	cw.Flush()
}

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	f := Filter{
		ActorID:    q.Get("userId"),
		Action:     q.Get("action"),
		EntityType: q.Get("entityType"),
		Page:       1,
		Limit:      50,
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		f.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		f.Limit = limit
	}
	if from, err := time.Parse(time.RFC3339, q.Get("from")); err == nil {
		f.From = &from
	}
	if to, err := time.Parse(time.RFC3339, q.Get("to")); err == nil {
		f.To = &to
	}
	return f
}

func toResponse(v LogView) logEntryResponse {
	return logEntryResponse{
		ID:         v.ID,
		ActorID:    v.ActorID,
		ActorName:  v.ActorName,
		ActorEmail: v.ActorEmail,
		Action:     v.Action,
		EntityType: v.EntityType,
		EntityID:   v.EntityID,
		OldValues:  v.OldValues,
		NewValues:  v.NewValues,
		CreatedAt:  v.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
