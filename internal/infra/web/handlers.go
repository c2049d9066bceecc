package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/domain/ports/adapter"
	"member-grants-platform/internal/infra/payment"
)

// ===== Catalogue =====

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.List(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.SubscriptionPlan `json:"data"`
	}{Data: plans})
}

func (s *Server) handleListGrants(w http.ResponseWriter, r *http.Request) {
	featured := r.URL.Query().Get("featured") == "true"
	grants, err := s.grants.ListGrants(r.Context(), featured)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.Grant `json:"data"`
	}{Data: grants})
}

func (s *Server) handleGetGrant(w http.ResponseWriter, r *http.Request) {
	g, err := s.grants.GetGrant(r.Context(), chi.URLParam(r, "grantID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// ===== Accounts =====

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if len(req.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "password must be at least 8 characters", Field: "password"})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	user, err := s.accounts.Register(r.Context(), req.Email, string(hash), req.Name)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	user.PasswordHash = ""
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.accounts.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	user.PasswordHash = ""
	writeJSON(w, http.StatusOK, user)
}

type profileRequest struct {
	Bio       string `json:"bio"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

func (s *Server) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	p, err := s.accounts.UpsertProfile(r.Context(), chi.URLParam(r, "userID"), req.Bio, req.Phone, req.AvatarURL)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ===== Billing =====

type initiatePaymentRequest struct {
	UserID *string `json:"user_id"`
	PlanID string  `json:"plan_id"`
	Method string  `json:"method"`
}

func (s *Server) handleInitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req initiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Method == "" {
		req.Method = "card"
	}

	p, payURL, err := s.billing.InitiatePayment(r.Context(), req.UserID, req.PlanID, req.Method, s.payCfg.CallbackURL)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Payment    *model.Payment `json:"payment"`
		PaymentURL string         `json:"payment_url"`
	}{Payment: p, PaymentURL: payURL})
}

type webhookRequest struct {
	TransactionRef string `json:"transaction_ref"`
	Status         string `json:"status"`
	AmountCents    int64  `json:"amount_cents"`
	Signature      string `json:"signature"`
}

func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if !payment.VerifyWebhookSignature(s.payCfg.WebhookSecret, req.TransactionRef, req.Status, req.AmountCents, req.Signature) {
		s.log.Warn().Str("ref", req.TransactionRef).Msg("webhook signature rejected")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid signature"})
		return
	}

	p, err := s.billing.HandleGatewayCallback(r.Context(), adapter.CallbackNotification{
		TransactionRef: req.TransactionRef,
		Status:         req.Status,
		AmountCents:    req.AmountCents,
		Signature:      req.Signature,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type createSubscriptionRequest struct {
	UserID    string `json:"user_id"`
	PlanID    string `json:"plan_id"`
	PaymentID string `json:"payment_id"`
	AutoRenew bool   `json:"auto_renew"`
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	sub, err := s.billing.CreateSubscription(r.Context(), req.UserID, req.PlanID, req.PaymentID, req.AutoRenew)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.billing.CancelSubscription(r.Context(), chi.URLParam(r, "subscriptionID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleRenewSubscription(w http.ResponseWriter, r *http.Request) {
	p, payURL, err := s.billing.RenewSubscription(r.Context(), chi.URLParam(r, "subscriptionID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Payment    *model.Payment `json:"payment"`
		PaymentURL string         `json:"payment_url"`
	}{Payment: p, PaymentURL: payURL})
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.billing.ListSubscriptions(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.Subscription `json:"data"`
	}{Data: subs})
}

// ===== Grant applications =====

type createApplicationRequest struct {
	UserID  string `json:"user_id"`
	GrantID string `json:"grant_id"`
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	app, err := s.grants.CreateApplication(r.Context(), req.UserID, req.GrantID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

type saveDocumentsRequest struct {
	Documents string  `json:"documents"`
	Notes     *string `json:"notes"`
}

func (s *Server) handleSaveDocuments(w http.ResponseWriter, r *http.Request) {
	var req saveDocumentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	app, err := s.grants.SaveDocuments(r.Context(), chi.URLParam(r, "applicationID"), req.Documents, req.Notes)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.grants.SubmitApplication(r.Context(), chi.URLParam(r, "applicationID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.grants.ListByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.UserGrantApplication `json:"data"`
	}{Data: apps})
}

// ===== Support =====

type openTicketRequest struct {
	UserID   *string `json:"user_id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Subject  string  `json:"subject"`
	Message  string  `json:"message"`
	Priority string  `json:"priority"`
	Category string  `json:"category"`
}

func (s *Server) handleOpenTicket(w http.ResponseWriter, r *http.Request) {
	var req openTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	t, err := s.support.OpenTicket(r.Context(), req.UserID, req.Name, req.Email, req.Subject, req.Message, model.TicketPriority(req.Priority), req.Category)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
	thread, err := s.support.GetThread(r.Context(), chi.URLParam(r, "ticketID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

type responseRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleUserResponse(w http.ResponseWriter, r *http.Request) {
	var req responseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	resp, err := s.support.AddResponse(r.Context(), chi.URLParam(r, "ticketID"), req.Content, nil)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListUserTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.support.ListByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.SupportTicket `json:"data"`
	}{Data: tickets})
}
