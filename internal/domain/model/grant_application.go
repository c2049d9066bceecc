package model

import (
	"time"

	"member-grants-platform/internal/domain"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusDraft       ApplicationStatus = "draft"
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusDraft:       {ApplicationStatusSubmitted},
	ApplicationStatusSubmitted:   {ApplicationStatusUnderReview, ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusUnderReview: {ApplicationStatusApproved, ApplicationStatusRejected},
}

func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) IsTerminal() bool {
	return len(applicationTransitions[s]) == 0
}

// UserGrantApplication is one user's application to one grant. No uniqueness
// is enforced on (user, grant): a user may apply to the same grant repeatedly.
type UserGrantApplication struct {
	ID        string
	UserID    string
	GrantID   string
	Status    ApplicationStatus
	Documents string // serialized document list; must be non-empty at submission
	Notes     *string

	// SubmittedAt stays nil while the application is a draft, is stamped once
	// on submission and never cleared.
	SubmittedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewGrantApplication(userID, grantID string) (*UserGrantApplication, error) {
	if userID == "" || grantID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &UserGrantApplication{
		ID:        uuid.NewString(),
		UserID:    userID,
		GrantID:   grantID,
		Status:    ApplicationStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Submit performs draft -> submitted, enforcing the non-empty documents rule
// and the grant deadline.
func (a *UserGrantApplication) Submit(grant *Grant, now time.Time) error {
	if a.Status != ApplicationStatusDraft {
		return domain.NewStateTransitionError("application", string(a.Status), string(ApplicationStatusSubmitted))
	}
	if a.Documents == "" {
		return domain.NewValidationError("documents", "must not be empty at submission")
	}
	if !grant.AcceptingAt(now) {
		return domain.ErrDeadlinePassed
	}
	submitted := now
	a.Status = ApplicationStatusSubmitted
	a.SubmittedAt = &submitted
	a.UpdatedAt = now
	return nil
}

// Transition validates review-side changes (submitted/under_review onward).
func (a *UserGrantApplication) Transition(next ApplicationStatus) error {
	if !a.Status.CanTransition(next) {
		return domain.NewStateTransitionError("application", string(a.Status), string(next))
	}
	a.Status = next
	a.UpdatedAt = time.Now()
	return nil
}
