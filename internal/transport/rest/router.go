package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/alhamla/campaign-office/internal/audit"
	"github.com/alhamla/campaign-office/internal/auth"
	"github.com/alhamla/campaign-office/internal/individual"
	"github.com/alhamla/campaign-office/internal/joinrequest"
	"github.com/alhamla/campaign-office/internal/message"
	"github.com/alhamla/campaign-office/internal/obs"
	"github.com/alhamla/campaign-office/internal/post"
	"github.com/alhamla/campaign-office/internal/role"
	"github.com/alhamla/campaign-office/internal/transport/middleware"
	"github.com/alhamla/campaign-office/internal/transport/swagger"
	"github.com/alhamla/campaign-office/internal/user"
)

type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Role        *role.Handler
	Post        *post.Handler
	JoinRequest *joinrequest.Handler
	Message     *message.Handler
	Individual  *individual.Handler
	Audit       *audit.Handler
}

// RegisterAllRoutes wires the route gate in front of every protected
// endpoint. Requirements are declared next to the routes they guard so a
// reviewer can read the whole authorization surface in one place.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, gate *auth.Gate, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.ClientMeta)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())
	router.Handle("/metrics", obs.MetricsHandler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/logout", h.Auth.Logout)
			sr.Get("/check", h.Auth.Check)
		})

		// Public volunteer application form.
		r.Post("/join-requests", h.JoinRequest.Submit)

		r.Group(func(pr chi.Router) {
			pr.Use(gate.Authenticate)

			pr.Get("/auth/me", h.Auth.Me)

			pr.Route("/users", func(ur chi.Router) {
				ur.With(gate.Require(auth.Permit("users.read"))).Get("/", h.User.List)
				ur.With(gate.Require(auth.Permit("users.read"))).Get("/{id}", h.User.Get)
				ur.With(gate.Require(auth.Permit("users.create"))).Post("/", h.User.Create)
				ur.With(gate.Require(auth.Permit("users.update"))).Put("/{id}", h.User.Update)
				ur.With(gate.Require(auth.Permit("users.delete"))).Delete("/{id}", h.User.Deactivate)
			})

			pr.Route("/roles", func(rr chi.Router) {
				rr.With(gate.Require(auth.Permit("roles.read"))).Get("/", h.Role.List)
				rr.With(gate.Require(auth.Permit("roles.read"))).Get("/{id}", h.Role.Get)
				rr.With(gate.Require(auth.Permit("roles.create"))).Post("/", h.Role.Create)
				rr.With(gate.Require(auth.Permit("roles.update"))).Put("/{id}", h.Role.Update)
				rr.With(gate.Require(auth.Permit("roles.delete"))).Delete("/{id}", h.Role.Delete)
			})

			pr.Route("/posts", func(cr chi.Router) {
				cr.With(gate.Require(auth.Permit("posts.read"))).Get("/", h.Post.List)
				cr.With(gate.Require(auth.Permit("posts.read"))).Get("/{id}", h.Post.Get)
				cr.With(gate.Require(auth.Permit("posts.create"))).Post("/", h.Post.Create)
				cr.With(gate.Require(auth.Permit("posts.update"))).Put("/{id}", h.Post.Update)
				cr.With(gate.Require(auth.Permit("posts.delete"))).Delete("/{id}", h.Post.Delete)
			})

			pr.Route("/join-requests", func(jr chi.Router) {
				jr.With(gate.Require(auth.Permit("join_requests.read"))).Get("/", h.JoinRequest.List)
				jr.With(gate.Require(auth.Permit("join_requests.update"))).Patch("/{id}", h.JoinRequest.Review)
			})

			pr.Route("/messages", func(mr chi.Router) {
				mr.With(gate.Require(auth.Permit("messages.read"))).Get("/", h.Message.Inbox)
				mr.With(gate.Require(auth.Permit("messages.send"))).Post("/", h.Message.Send)
				mr.With(gate.Require(auth.Permit("messages.read"))).Patch("/{id}/read", h.Message.MarkRead)
				mr.With(gate.Require(auth.Permit("messages.delete"))).Delete("/{id}", h.Message.Delete)
			})

			pr.Route("/individuals", func(ir chi.Router) {
				ir.With(gate.Require(auth.Permit("individuals.read"))).Get("/", h.Individual.List)
				ir.With(gate.Require(auth.Permit("individuals.create"))).Post("/", h.Individual.Create)
				ir.With(gate.Require(auth.Permit("individuals.update"))).Patch("/{id}", h.Individual.Update)
				ir.With(gate.Require(auth.Permit("individuals.delete"))).Delete("/{id}", h.Individual.Delete)
			})
			pr.With(gate.Require(auth.Permit("individuals.read"))).Get("/my-individuals", h.Individual.Summary)
			pr.With(gate.Require(auth.Permit("individuals.read"))).Get("/leaders-tree", h.Individual.Tree)

			pr.With(gate.Require(auth.Permit("activity_logs.read"))).Get("/activity-logs", h.Audit.List)
		})
	})
}
