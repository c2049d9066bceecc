package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"member-grants-platform/internal/config"
	"member-grants-platform/internal/usecase"
)

type Server struct {
	cfg      *config.WebConfig
	payCfg   *config.PaymentConfig
	accounts usecase.AccountUseCase
	billing  usecase.BillingUseCase
	plans    usecase.PlanUseCase
	grants   usecase.GrantUseCase
	support  usecase.SupportUseCase
	stats    usecase.StatsUseCase
	auth     *AuthManager
	log      *zerolog.Logger
	srv      *http.Server
}

func NewServer(
	cfg *config.WebConfig,
	payCfg *config.PaymentConfig,
	accounts usecase.AccountUseCase,
	billing usecase.BillingUseCase,
	plans usecase.PlanUseCase,
	grants usecase.GrantUseCase,
	support usecase.SupportUseCase,
	stats usecase.StatsUseCase,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		cfg:      cfg,
		payCfg:   payCfg,
		accounts: accounts,
		billing:  billing,
		plans:    plans,
		grants:   grants,
		support:  support,
		stats:    stats,
		auth:     NewAuthManager(cfg.StaffSecret, cfg.SecureCookie, "", cfg.SessionTTL),
		log:      &l,
	}
}

// Router wires the public API, the gateway webhook, and the staff API.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Gateway callback; authenticated by HMAC signature, not by session.
	r.Post("/webhook/payment", s.handlePaymentWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", s.handleListPlans)
		r.Get("/grants", s.handleListGrants)
		r.Get("/grants/{grantID}", s.handleGetGrant)

		r.Post("/users", s.handleRegister)
		r.Get("/users/{userID}", s.handleGetUser)
		r.Put("/users/{userID}/profile", s.handleUpsertProfile)
		r.Get("/users/{userID}/subscriptions", s.handleListSubscriptions)
		r.Get("/users/{userID}/applications", s.handleListApplications)
		r.Get("/users/{userID}/tickets", s.handleListUserTickets)

		r.Post("/payments", s.handleInitiatePayment)
		r.Post("/subscriptions", s.handleCreateSubscription)
		r.Post("/subscriptions/{subscriptionID}/cancel", s.handleCancelSubscription)
		r.Post("/subscriptions/{subscriptionID}/renew", s.handleRenewSubscription)

		r.Post("/applications", s.handleCreateApplication)
		r.Put("/applications/{applicationID}/documents", s.handleSaveDocuments)
		r.Post("/applications/{applicationID}/submit", s.handleSubmitApplication)

		r.Post("/tickets", s.handleOpenTicket)
		r.Get("/tickets/{ticketID}", s.handleGetThread)
		r.Post("/tickets/{ticketID}/responses", s.handleUserResponse)
	})

	r.Route("/staff", func(r chi.Router) {
		r.Post("/login", s.handleStaffLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.requireStaff)
			r.Post("/logout", s.handleStaffLogout)
			r.Get("/stats", s.handleStats)

			r.Post("/plans", s.handleCreatePlan)
			r.Delete("/plans/{planID}", s.handleDeletePlan)
			r.Post("/payments/{paymentID}/refund", s.handleRefundPayment)

			r.Post("/grants", s.handleUpsertGrant)
			r.Get("/grants/{grantID}/applications", s.handleListGrantApplications)
			r.Post("/applications/{applicationID}/review", s.handleStartReview)
			r.Post("/applications/{applicationID}/decision", s.handleReviewDecision)

			r.Get("/tickets", s.handleListOpenTickets)
			r.Post("/tickets/{ticketID}/responses", s.handleStaffResponse)
			r.Put("/tickets/{ticketID}/status", s.handleUpdateTicketStatus)
		})
	})

	return r
}

// requireStaff rejects requests without a valid staff session and stores the
// claims on the request context.
func (s *Server) requireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(staffToContext(r.Context(), claims)))
	})
}

func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.log.Info().Int("port", s.cfg.Port).Msg("http server listening")
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
