package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/adapters/email"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/payment"
)

// PaymentStore defines the store interface for payment orchestrators.
type PaymentStore interface {
	GetByID(ctx context.Context, id string) (payment.Payment, error)
	GetByReference(ctx context.Context, reference string) (payment.Payment, error)
	Save(ctx context.Context, p payment.Payment) error
}

// SubmitPaymentInput carries input for the submission orchestrator.
// ReceiptPath is the stored upload path, empty when no file was sent.
type SubmitPaymentInput struct {
	MemberID    string
	Reference   string
	Method      string
	Plan        string
	Amount      int // cents; 0 means derive from plan
	ReceiptPath string
}

// SubmitPaymentDeps holds dependencies for payment orchestrators.
// Mailer is optional; when set, submission and review outcomes are
// mailed to the member.
type SubmitPaymentDeps struct {
	PaymentStore PaymentStore
	MemberStore  MemberStoreForBooking
	Mailer       email.Sender
	Now          func() time.Time
}

// ExecuteSubmitPayment records a member's payment submission as pending.
// A blank reference gets a generated one; a supplied reference must be
// unique across all payments.
// PRE: MemberID exists
// POST: Pending payment persisted exactly once per reference
func ExecuteSubmitPayment(ctx context.Context, input SubmitPaymentInput, deps SubmitPaymentDeps) (string, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return "", err
	}

	plan := input.Plan
	if plan == "" {
		plan = m.Plan
	}
	amount := input.Amount
	if amount == 0 {
		amount = member.PlanMonthlyFee[plan]
	}

	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		reference = generateReference(now())
	} else if _, err := deps.PaymentStore.GetByReference(ctx, reference); err == nil {
		return "", payment.ErrDuplicateReference
	}

	p := payment.Payment{
		ID:          uuid.New().String(),
		MemberID:    input.MemberID,
		Reference:   reference,
		Method:      input.Method,
		Amount:      amount,
		Plan:        plan,
		ReceiptPath: input.ReceiptPath,
		Status:      payment.StatusPending,
		CreatedAt:   now(),
	}
	if err := p.Validate(); err != nil {
		return "", err
	}

	// The unique column backs up the pre-check under concurrency.
	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return "", err
	}

	slog.Info("payment_submitted", "payment_id", p.ID, "member_id", p.MemberID, "method", p.Method, "amount", p.Amount)

	if deps.Mailer != nil && m.Email != "" {
		msg := email.Message{
			To:      m.Email,
			Subject: "Payment received — " + p.Reference,
			HTML: fmt.Sprintf("<p>Hi %s,</p><p>We received your %s payment of $%.2f (ref %s). It is pending review; you'll hear from us once it's confirmed.</p>",
				m.Name, p.Method, float64(p.Amount)/100, p.Reference),
		}
		if err := deps.Mailer.Send(ctx, msg); err != nil {
			// The payment is already recorded; delivery failure is not fatal.
			slog.Warn("payment_email_failed", "payment_id", p.ID, "error", err)
		}
	}

	return p.ID, nil
}

// generateReference builds a reference like PAY-20260829-3FA2C1.
func generateReference(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:6])
	return fmt.Sprintf("PAY-%s-%s", now.Format("20060102"), suffix)
}

// ReviewPaymentInput carries input for the review orchestrator.
type ReviewPaymentInput struct {
	PaymentID  string
	ReviewerID string
	Approve    bool
}

// ExecuteReviewPayment completes or fails a pending payment.
// PRE: Reviewer is an admin; payment is pending
// POST: Status is completed (with PaidAt) or failed; reviewer recorded
func ExecuteReviewPayment(ctx context.Context, input ReviewPaymentInput, deps SubmitPaymentDeps) error {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	p, err := deps.PaymentStore.GetByID(ctx, input.PaymentID)
	if err != nil {
		return err
	}

	if input.Approve {
		err = p.Complete(input.ReviewerID, now())
	} else {
		err = p.Fail(input.ReviewerID)
	}
	if err != nil {
		return err
	}

	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return err
	}

	slog.Info("payment_reviewed", "payment_id", p.ID, "status", p.Status, "reviewer", input.ReviewerID)

	if deps.Mailer != nil {
		m, err := deps.MemberStore.GetByID(ctx, p.MemberID)
		if err == nil && m.Email != "" {
			subject := "Payment confirmed — " + p.Reference
			body := fmt.Sprintf("<p>Hi %s,</p><p>Your payment %s has been confirmed. Thanks for keeping your %s plan current!</p>",
				m.Name, p.Reference, p.Plan)
			if !input.Approve {
				subject = "Payment rejected — " + p.Reference
				body = fmt.Sprintf("<p>Hi %s,</p><p>We could not verify your payment %s. Please check the reference and receipt, then submit again or contact the front desk.</p>",
					m.Name, p.Reference)
			}
			if err := deps.Mailer.Send(ctx, email.Message{To: m.Email, Subject: subject, HTML: body}); err != nil {
				// The review is already committed; delivery failure is not fatal.
				slog.Warn("payment_email_failed", "payment_id", p.ID, "error", err)
			}
		}
	}

	return nil
}
