package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/gorm"
)

type mockAuditService struct {
	views      []LogView
	total      int64
	err        error
	lastFilter Filter
}

func (m *mockAuditService) Record(_ context.Context, _ *Entry) error { return nil }

func (m *mockAuditService) RecordIn(_ *gorm.DB, _ *Entry) error { return nil }

func (m *mockAuditService) List(_ context.Context, f Filter) ([]LogView, int64, error) {
	m.lastFilter = f
	if m.err != nil {
		return nil, 0, m.err
	}
	if f.Page > 1 {
		return nil, m.total, nil
	}
	return m.views, m.total, nil
}

var _ = ginkgo.Describe("AuditHandler", func() {
	var (
		handler *Handler
		svc     *mockAuditService
	)

	ginkgo.BeforeEach(func() {
		old := `{"status":"PENDING"}`
		updated := `{"status":"APPROVED"}`
		svc = &mockAuditService{
			views: []LogView{
				{
					Entry: Entry{
						ID:         "log-1",
						ActorID:    "user-1",
						Action:     ActionUpdateJoinRequest,
						EntityType: "JoinRequest",
						EntityID:   "jr-1",
						OldValues:  &old,
						NewValues:  &updated,
						CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
					},
					ActorName:  "Admin",
					ActorEmail: "admin@alhamla.org",
				},
			},
			total: 1,
		}
		handler = NewHandler(svc)
	})

	ginkgo.It("should serve a JSON page with totals", func() {
		req := httptest.NewRequest(http.MethodGet, "/activity-logs?page=2&limit=10", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(svc.lastFilter.Page).To(gomega.Equal(2))
		gomega.Expect(svc.lastFilter.Limit).To(gomega.Equal(10))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"total":1`))
	})

	ginkgo.It("should pass the query filters through", func() {
		req := httptest.NewRequest(http.MethodGet,
			"/activity-logs?userId=user-1&action=UPDATE_JOIN_REQUEST&entityType=JoinRequest&from=2025-01-01T00:00:00Z", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		gomega.Expect(svc.lastFilter.ActorID).To(gomega.Equal("user-1"))
		gomega.Expect(svc.lastFilter.Action).To(gomega.Equal(ActionUpdateJoinRequest))
		gomega.Expect(svc.lastFilter.EntityType).To(gomega.Equal("JoinRequest"))
		gomega.Expect(svc.lastFilter.From).ToNot(gomega.BeNil())
	})

	ginkgo.It("should export CSV with the snapshot columns", func() {
		req := httptest.NewRequest(http.MethodGet, "/activity-logs?export=csv", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Header().Get("Content-Type")).To(gomega.Equal("text/csv"))
		gomega.Expect(rec.Header().Get("Content-Disposition")).To(gomega.ContainSubstring("activity-logs-"))

		body := rec.Body.String()
		gomega.Expect(body).To(gomega.ContainSubstring("Timestamp,User,Email,Action,Entity Type,Entity ID,Old Values,New Values"))
		gomega.Expect(body).To(gomega.ContainSubstring("UPDATE_JOIN_REQUEST"))
		gomega.Expect(body).To(gomega.ContainSubstring(`""status"":""APPROVED""`))
	})

	ginkgo.It("should answer with an error response when the export query fails up front", func() {
		svc.err = errors.New("connection refused")
		req := httptest.NewRequest(http.MethodGet, "/activity-logs?export=csv", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		gomega.Expect(rec.Header().Get("Content-Type")).ToNot(gomega.Equal("text/csv"))
		gomega.Expect(rec.Header().Get("Content-Disposition")).To(gomega.BeEmpty())
		gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("Timestamp,User"))
	})
})
