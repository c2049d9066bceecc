package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/usecase"
)

type staffLoginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

func (s *Server) handleStaffLogin(w http.ResponseWriter, r *http.Request) {
	var req staffLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Secret == "" || req.Secret != s.cfg.StaffSecret {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}
	admin, err := s.accounts.GetAdminByEmail(r.Context(), req.Email)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	token, err := s.auth.Mint(w, admin)
	if err != nil {
		s.log.Error().Err(err).Msg("mint staff session")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Token string `json:"token"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}{Token: token, Email: admin.Email, Role: admin.Role})
}

func (s *Server) handleStaffLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	users, activeByPlan, appsByStatus, err := s.stats.Totals(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	week, month, year, err := s.stats.Revenue(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Users                int            `json:"users"`
		ActiveByPlan         map[string]int `json:"active_by_plan"`
		ApplicationsByStatus map[string]int `json:"applications_by_status"`
		RevenueWeekCents     int64          `json:"revenue_week_cents"`
		RevenueMonthCents    int64          `json:"revenue_month_cents"`
		RevenueYearCents     int64          `json:"revenue_year_cents"`
	}{users, activeByPlan, appsByStatus, week, month, year})
}

// ===== Catalogue administration =====

type createPlanRequest struct {
	Name       string   `json:"name"`
	PriceCents int64    `json:"price_cents"`
	Currency   string   `json:"currency"`
	Interval   string   `json:"interval"`
	Features   []string `json:"features"`
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	plan, err := s.plans.Create(r.Context(), req.Name, req.PriceCents, req.Currency, model.BillingInterval(req.Interval), req.Features)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.plans.Delete(r.Context(), chi.URLParam(r, "planID")); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefundPayment(w http.ResponseWriter, r *http.Request) {
	p, err := s.billing.RefundPayment(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ===== Grant administration =====

type upsertGrantRequest struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	AmountCents  int64     `json:"amount_cents"`
	Type         string    `json:"type"`
	Level        string    `json:"level"`
	Category     string    `json:"category"`
	Organization string    `json:"organization"`
	Deadline     time.Time `json:"application_deadline"`
	Requirements string    `json:"requirements"`
	Benefits     string    `json:"benefits"`
	Eligibility  string    `json:"eligibility"`
	Process      string    `json:"process"`
	Contact      string    `json:"contact"`
	Featured     bool      `json:"featured"`
}

func (s *Server) handleUpsertGrant(w http.ResponseWriter, r *http.Request) {
	var req upsertGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	g, err := model.NewGrant(req.ID, req.Title, req.AmountCents, req.Deadline)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	g.Type = req.Type
	g.Level = req.Level
	g.Category = req.Category
	g.Organization = req.Organization
	g.Requirements = req.Requirements
	g.Benefits = req.Benefits
	g.Eligibility = req.Eligibility
	g.Process = req.Process
	g.Contact = req.Contact
	g.Featured = req.Featured

	if err := s.grants.SaveGrant(r.Context(), g); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleListGrantApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.grants.ListByGrant(r.Context(), chi.URLParam(r, "grantID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.UserGrantApplication `json:"data"`
	}{Data: apps})
}

func (s *Server) handleStartReview(w http.ResponseWriter, r *http.Request) {
	claims, _ := StaffFromContext(r.Context())
	app, err := s.grants.StartReview(r.Context(), claims.Subject, chi.URLParam(r, "applicationID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

type reviewDecisionRequest struct {
	Decision string  `json:"decision"`
	Notes    *string `json:"notes"`
}

func (s *Server) handleReviewDecision(w http.ResponseWriter, r *http.Request) {
	var req reviewDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	claims, _ := StaffFromContext(r.Context())
	app, err := s.grants.ReviewApplication(r.Context(), claims.Subject, chi.URLParam(r, "applicationID"), usecase.ApplicationDecision(req.Decision), req.Notes)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// ===== Support administration =====

func (s *Server) handleListOpenTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.support.ListOpen(r.Context(), 100)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.SupportTicket `json:"data"`
	}{Data: tickets})
}

func (s *Server) handleStaffResponse(w http.ResponseWriter, r *http.Request) {
	var req responseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	claims, _ := StaffFromContext(r.Context())
	resp, err := s.support.AddResponse(r.Context(), chi.URLParam(r, "ticketID"), req.Content, &claims.Subject)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

type ticketStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	var req ticketStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	t, err := s.support.UpdateStatus(r.Context(), chi.URLParam(r, "ticketID"), model.TicketStatus(req.Status))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
