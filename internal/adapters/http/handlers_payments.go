package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/listutil"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	accountDomain "gymdesk/internal/domain/account"
	"gymdesk/internal/domain/member"
	paymentDomain "gymdesk/internal/domain/payment"
)

// handlePaymentList handles GET /payments. Admins see every payment;
// members see only their own.
func handlePaymentList(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())

	scopeMemberID := ""
	if session.Role == accountDomain.RoleMember {
		m, err := stores.MemberStore.GetByAccountID(r.Context(), session.AccountID)
		if err != nil {
			http.Error(w, "Member profile not found", http.StatusNotFound)
			return
		}
		scopeMemberID = m.ID
	}

	query := listutil.Parse(r.URL.Query(), projections.PaymentSortColumns, []string{"status", "method"})
	result, err := projections.QueryGetPaymentList(r.Context(), scopeMemberID, query, projections.GetPaymentListDeps{
		PaymentStore: stores.PaymentStore,
		MemberStore:  stores.MemberStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "payment_list.html", map[string]any{
			"Payments":       result.Payments,
			"PageInfo":       result.PageInfo,
			"Sort":           query.Sort,
			"Dir":            query.Dir,
			"Search":         query.Search,
			"Status":         query.Filters["status"],
			"Method":         query.Filters["method"],
			"Methods":        paymentDomain.ValidMethods,
			"Plans":          member.ValidPlans,
			"PerPageOptions": listutil.PerPageOptions,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handlePaymentSubmit handles POST /payments/submit. The form is
// multipart when a receipt image accompanies the submission.
func handlePaymentSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())

	m, err := stores.MemberStore.GetByAccountID(r.Context(), session.AccountID)
	if err != nil {
		http.Error(w, "Member profile not found", http.StatusNotFound)
		return
	}

	receiptPath, err := saveReceiptUpload(r)
	if err != nil {
		if errors.Is(err, errBadReceipt) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}

	input := orchestrators.SubmitPaymentInput{
		MemberID:    m.ID,
		Reference:   r.FormValue("Reference"),
		Method:      r.FormValue("Method"),
		Plan:        r.FormValue("Plan"),
		Amount:      int(math.Round(formFloat(r, "Amount") * 100)),
		ReceiptPath: receiptPath,
	}
	deps := orchestrators.SubmitPaymentDeps{
		PaymentStore: stores.PaymentStore,
		MemberStore:  stores.MemberStore,
		Mailer:       emailSender,
	}
	if _, err := orchestrators.ExecuteSubmitPayment(r.Context(), input, deps); err != nil {
		switch {
		case errors.Is(err, paymentDomain.ErrDuplicateReference),
			errors.Is(err, paymentDomain.ErrReceiptRequired),
			errors.Is(err, paymentDomain.ErrInvalidMethod),
			errors.Is(err, paymentDomain.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/payments", http.StatusSeeOther)
}

// handlePaymentReview handles POST /payments/review
func handlePaymentReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())

	input := orchestrators.ReviewPaymentInput{
		PaymentID:  r.FormValue("PaymentID"),
		ReviewerID: session.AccountID,
		Approve:    r.FormValue("Decision") == "approve",
	}
	deps := orchestrators.SubmitPaymentDeps{
		PaymentStore: stores.PaymentStore,
		MemberStore:  stores.MemberStore,
		Mailer:       emailSender,
	}
	if err := orchestrators.ExecuteReviewPayment(r.Context(), input, deps); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			http.Redirect(w, r, "/payments", http.StatusSeeOther)
		case errors.Is(err, paymentDomain.ErrNotPending):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/payments", http.StatusSeeOther)
}
