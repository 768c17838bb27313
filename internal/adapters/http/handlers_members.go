package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/listutil"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	accountDomain "gymdesk/internal/domain/account"
	"gymdesk/internal/domain/member"
)

// handleMemberList handles GET /members
func handleMemberList(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := listutil.Parse(r.URL.Query(), projections.MemberSortColumns, []string{"plan", "status"})
	result, err := projections.QueryGetMemberList(r.Context(), query, projections.GetMemberListDeps{
		MemberStore: stores.MemberStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "member_list.html", map[string]any{
			"Members":        result.Members,
			"PageInfo":       result.PageInfo,
			"Sort":           query.Sort,
			"Dir":            query.Dir,
			"Search":         query.Search,
			"Plan":           query.Filters["plan"],
			"Status":         query.Filters["status"],
			"PerPageOptions": listutil.PerPageOptions,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleMemberCreate handles POST /members/create, the admin's add-member
// form. It reuses the registration orchestrator so the account and the
// member row land in one transaction.
func handleMemberCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.RegisterMemberInput{
		Username: r.FormValue("Username"),
		Email:    r.FormValue("Email"),
		Password: r.FormValue("Password"),
		Name:     r.FormValue("Name"),
		Age:      formInt(r, "Age"),
		Plan:     r.FormValue("Plan"),
		Contact:  r.FormValue("Contact"),
	}
	deps := orchestrators.RegisterMemberDeps{
		MemberStore:  stores.MemberStore,
		AccountStore: stores.AccountStore,
		Mailer:       emailSender,
	}
	if _, err := orchestrators.ExecuteRegisterMember(r.Context(), input, deps); err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrEmailTaken),
			errors.Is(err, orchestrators.ErrUsernameTaken),
			member.IsValidationError(err),
			accountDomain.IsValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

// handleMemberExport handles GET /members/export, streaming the filtered
// member list as a CSV attachment. Filters and sort mirror the list page;
// pagination is ignored.
func handleMemberExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := listutil.Parse(r.URL.Query(), projections.MemberSortColumns, []string{"plan", "status"})
	table, filename, err := projections.QueryExportMembers(r.Context(), query, timeNow(), projections.GetMemberListDeps{
		MemberStore: stores.MemberStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	data, err := table.RenderCSV()
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}

// handleProfile handles GET (view) and POST (contact update) for the
// member's own /profile page.
func handleProfile(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	m, err := stores.MemberStore.GetByAccountID(r.Context(), session.AccountID)
	if err != nil {
		http.Error(w, "Member profile not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		renderTemplate(w, r, "profile.html", map[string]any{
			"Member":     m,
			"MonthlyFee": m.MonthlyFee(),
		})
	case "POST":
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input := orchestrators.UpdateContactInput{
			AccountID: session.AccountID,
			Contact:   r.FormValue("Contact"),
		}
		deps := orchestrators.UpdateContactDeps{MemberStore: stores.MemberStore}
		if err := orchestrators.ExecuteUpdateContact(r.Context(), input, deps); err != nil {
			renderTemplate(w, r, "profile.html", map[string]any{
				"Member":     m,
				"MonthlyFee": m.MonthlyFee(),
				"Error":      err.Error(),
			})
			return
		}
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleMemberDetail handles GET /members/view?id=<member-id>
func handleMemberDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	memberID := r.URL.Query().Get("id")
	if memberID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	detail, err := projections.QueryGetMemberDetail(r.Context(), memberID, projections.GetMemberListDeps{
		MemberStore: stores.MemberStore,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Redirect(w, r, "/members", http.StatusSeeOther)
			return
		}
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "member_detail.html", detail)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// handleMemberUpdate handles POST /members/update
func handleMemberUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.UpdateMemberInput{
		MemberID: r.FormValue("MemberID"),
		Name:     r.FormValue("Name"),
		Age:      formInt(r, "Age"),
		Plan:     r.FormValue("Plan"),
		Contact:  r.FormValue("Contact"),
		Status:   r.FormValue("Status"),
	}
	deps := orchestrators.UpdateMemberDeps{MemberStore: stores.MemberStore}
	if err := orchestrators.ExecuteUpdateMember(r.Context(), input, deps); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			http.Redirect(w, r, "/members", http.StatusSeeOther)
		case member.IsValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/members/view?id="+input.MemberID, http.StatusSeeOther)
}

// handleMemberDeactivate handles POST /members/deactivate
func handleMemberDeactivate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	memberID := r.FormValue("MemberID")
	deps := orchestrators.UpdateMemberDeps{MemberStore: stores.MemberStore}
	if err := orchestrators.ExecuteDeactivateMember(r.Context(), memberID, deps); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Redirect(w, r, "/members", http.StatusSeeOther)
			return
		}
		internalError(w, err)
		return
	}

	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

// handleMemberNote handles POST /members/notes
func handleMemberNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	session, _ := middleware.GetSessionFromContext(r.Context())
	input := orchestrators.AddMemberNoteInput{
		MemberID: r.FormValue("MemberID"),
		AuthorID: session.AccountID,
		Content:  r.FormValue("Content"),
	}
	deps := orchestrators.UpdateMemberDeps{MemberStore: stores.MemberStore}
	if _, err := orchestrators.ExecuteAddMemberNote(r.Context(), input, deps); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			http.Redirect(w, r, "/members", http.StatusSeeOther)
		case member.IsValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/members/view?id="+input.MemberID, http.StatusSeeOther)
}
