package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"member-grants-platform/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

// writeDomainErr maps domain errors onto HTTP statuses. Anything unmapped is
// a 500 with a generic body so storage details never leak.
func writeDomainErr(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Error(), Field: vErr.Field})
		return
	}
	var stErr *domain.StateTransitionError
	if errors.As(err, &stErr) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: stErr.Error(), From: stErr.From, To: stErr.To})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "already exists"})
	case errors.Is(err, domain.ErrDuplicateCallback):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "callback already processed"})
	case errors.Is(err, domain.ErrInvalidStateTransition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrPaymentNotSettled):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "payment is not completed"})
	case errors.Is(err, domain.ErrNotRenewable):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "subscription is not due for renewal"})
	case errors.Is(err, domain.ErrTicketClosed):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "ticket is closed"})
	case errors.Is(err, domain.ErrDeadlinePassed):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "application deadline has passed"})
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid argument"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
