package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/albaledger/portal/internal/auth"
	"github.com/albaledger/portal/internal/document"
	"github.com/albaledger/portal/internal/employee"
	"github.com/albaledger/portal/internal/notification"
	"github.com/albaledger/portal/internal/transport/middleware"
	"github.com/albaledger/portal/internal/transport/swagger"
	"github.com/albaledger/portal/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	documentHandler *document.Handler,
	employeeHandler *employee.Handler,
	notificationHandler *notification.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRBACAuthorization(logger)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)
		})

		// Public categories route (no auth required)
		r.Get("/categories", documentHandler.GetCategories)

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			// Current user and client directory
			pr.Get("/users/me", userHandler.GetCurrentUser)
			pr.Group(func(sr chi.Router) {
				sr.Use(rbac.RequireStaff())
				sr.Get("/clients", userHandler.ListClients)
			})

			// Document routes
			pr.Route("/documents", func(dr chi.Router) {
				dr.Post("/", documentHandler.SubmitDocuments)
				dr.Get("/", documentHandler.ListDocuments)
				dr.Get("/{id}", documentHandler.GetDocument)
				dr.Patch("/{id}/submit-approval", documentHandler.SubmitForApproval)

				dr.Group(func(sr chi.Router) {
					sr.Use(rbac.RequireStaff())
					sr.Patch("/{id}/register", documentHandler.RegisterDocument)
					sr.Patch("/{id}/approve", documentHandler.ApproveDocument)
					sr.Patch("/{id}/reject", documentHandler.RejectDocument)
				})

				dr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireAdmin())
					ar.Patch("/{id}/assign", documentHandler.AssignEmployee)
				})
			})

			// Employee roster routes
			pr.Route("/employees", func(er chi.Router) {
				er.Group(func(sr chi.Router) {
					sr.Use(rbac.RequireStaff())
					sr.Get("/", employeeHandler.ListEmployees)
					sr.Get("/{id}", employeeHandler.GetEmployee)
				})

				er.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireAdmin())
					ar.Post("/", employeeHandler.CreateEmployee)
					ar.Patch("/{id}", employeeHandler.UpdateEmployee)
					ar.Put("/{id}/clients", employeeHandler.AssignClients)
					ar.Delete("/{id}", employeeHandler.DeleteEmployee)
				})
			})

			// Notification routes
			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", notificationHandler.ListNotifications)
				nr.Get("/unread-count", notificationHandler.UnreadCount)
				nr.Patch("/{id}/read", notificationHandler.MarkRead)
				nr.Patch("/read-all", notificationHandler.MarkAllRead)
			})

			// Filing calendar
			pr.Get("/deadlines", notificationHandler.GetDeadlines)
		})
	})
}
