package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/listutil"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	accountDomain "gymdesk/internal/domain/account"
	bookingDomain "gymdesk/internal/domain/booking"
	"gymdesk/internal/domain/gymclass"
)

// handleBookingList handles GET /bookings. Staff see every booking;
// members see only their own.
func handleBookingList(w http.ResponseWriter, r *http.Request) {
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

	query := listutil.Parse(r.URL.Query(), projections.BookingSortColumns, []string{"status", "class"})
	result, err := projections.QueryGetBookingList(r.Context(), scopeMemberID, query, projections.GetBookingListDeps{
		BookingStore: stores.BookingStore,
		MemberStore:  stores.MemberStore,
		ClassStore:   stores.ClassStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "booking_list.html", map[string]any{
			"Bookings":       result.Bookings,
			"PageInfo":       result.PageInfo,
			"Sort":           query.Sort,
			"Dir":            query.Dir,
			"Search":         query.Search,
			"Status":         query.Filters["status"],
			"PerPageOptions": listutil.PerPageOptions,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleBookingCreate handles POST /bookings/create
func handleBookingCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())

	m, err := stores.MemberStore.GetByAccountID(r.Context(), session.AccountID)
	if err != nil {
		http.Error(w, "Member profile not found", http.StatusNotFound)
		return
	}

	input := orchestrators.BookClassInput{
		MemberID: m.ID,
		ClassID:  r.FormValue("ClassID"),
	}
	deps := orchestrators.BookClassDeps{
		ClassStore:   stores.ClassStore,
		BookingStore: stores.BookingStore,
		MemberStore:  stores.MemberStore,
	}
	if _, err := orchestrators.ExecuteBookClass(r.Context(), input, deps); err != nil {
		switch {
		case errors.Is(err, gymclass.ErrClassFull),
			errors.Is(err, gymclass.ErrClassNotOpen),
			errors.Is(err, orchestrators.ErrAlreadyBooked),
			errors.Is(err, orchestrators.ErrMemberInactive):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			internalError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/bookings", http.StatusSeeOther)
}

// handleBookingCancel handles POST /api/bookings/cancel. Members may
// cancel only their own bookings; admins may cancel any.
func handleBookingCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, _ := middleware.GetSessionFromContext(r.Context())

	var input struct {
		BookingID string `json:"booking_id"`
	}
	if err := strictDecode(r, &input); err != nil || input.BookingID == "" {
		jsonResult(w, http.StatusBadRequest, false, "booking_id is required")
		return
	}

	actingMemberID := ""
	if session.Role == accountDomain.RoleMember {
		m, err := stores.MemberStore.GetByAccountID(r.Context(), session.AccountID)
		if err != nil {
			jsonResult(w, http.StatusNotFound, false, "Member profile not found")
			return
		}
		actingMemberID = m.ID
	}

	deps := orchestrators.BookClassDeps{
		ClassStore:   stores.ClassStore,
		BookingStore: stores.BookingStore,
		MemberStore:  stores.MemberStore,
	}
	err := orchestrators.ExecuteCancelBooking(r.Context(), orchestrators.CancelBookingInput{
		BookingID:      input.BookingID,
		ActingMemberID: actingMemberID,
	}, deps)
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrNotYourBooking):
			jsonResult(w, http.StatusForbidden, false, err.Error())
		case errors.Is(err, bookingDomain.ErrAlreadyCancelled):
			jsonResult(w, http.StatusBadRequest, false, err.Error())
		default:
			jsonResult(w, http.StatusInternalServerError, false, "could not cancel booking")
		}
		return
	}

	jsonResult(w, http.StatusOK, true, "Booking cancelled")
}
