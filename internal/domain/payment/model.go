package payment

import (
	"errors"
	"strings"
	"time"
)

// Payment status constants
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Payment method constants
const (
	MethodCard  = "card"
	MethodBank  = "bank"
	MethodCash  = "cash"
	MethodGCash = "gcash"
)

// ValidMethods contains all accepted payment methods.
var ValidMethods = []string{MethodCard, MethodBank, MethodCash, MethodGCash}

// Domain errors
var (
	ErrEmptyMemberID    = errors.New("payment must have a member")
	ErrEmptyReference   = errors.New("reference number cannot be empty")
	ErrInvalidMethod    = errors.New("payment method must be one of: card, bank, cash, gcash")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrReceiptRequired  = errors.New("a receipt image is required for this payment method")
	ErrNotPending       = errors.New("only pending payments can be reviewed")
	ErrDuplicateReference = errors.New("reference number is already in use")
)

// Payment records a member's subscription payment submission. The
// Reference ties the submission to its verification record and must be
// unique across all payments.
type Payment struct {
	ID          string
	MemberID    string
	Reference   string
	Method      string
	Amount      int // cents
	Plan        string
	ReceiptPath string
	Status      string
	PaidAt      time.Time
	ReviewedBy  string
	CreatedAt   time.Time
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Payment) Validate() error {
	if p.MemberID == "" {
		return ErrEmptyMemberID
	}
	if strings.TrimSpace(p.Reference) == "" {
		return ErrEmptyReference
	}
	if !isValidMethod(p.Method) {
		return ErrInvalidMethod
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if p.RequiresReceipt() && p.ReceiptPath == "" {
		return ErrReceiptRequired
	}
	return nil
}

// RequiresReceipt reports whether this method needs a receipt upload.
// INVARIANT: Payment fields are not mutated
func (p *Payment) RequiresReceipt() bool {
	return p.Method == MethodBank || p.Method == MethodGCash
}

// Complete marks a pending payment as verified by the given reviewer.
// PRE: Status is pending
// POST: Status is completed, PaidAt and ReviewedBy set
func (p *Payment) Complete(reviewerID string, now time.Time) error {
	if p.Status != StatusPending {
		return ErrNotPending
	}
	p.Status = StatusCompleted
	p.ReviewedBy = reviewerID
	p.PaidAt = now
	return nil
}

// Fail marks a pending payment as rejected by the given reviewer.
// PRE: Status is pending
// POST: Status is failed, ReviewedBy set
func (p *Payment) Fail(reviewerID string) error {
	if p.Status != StatusPending {
		return ErrNotPending
	}
	p.Status = StatusFailed
	p.ReviewedBy = reviewerID
	return nil
}

func isValidMethod(m string) bool {
	for _, v := range ValidMethods {
		if v == m {
			return true
		}
	}
	return false
}
