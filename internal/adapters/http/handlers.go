package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	accountDomain "gymdesk/internal/domain/account"
	memberDomain "gymdesk/internal/domain/member"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// jsonResult writes the {success, message} envelope the page scripts expect.
func jsonResult(w http.ResponseWriter, status int, success bool, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": success, "message": message})
}

// formInt parses an integer form field, returning 0 when absent or malformed.
func formInt(r *http.Request, field string) int {
	n, _ := strconv.Atoi(r.FormValue(field))
	return n
}

// formFloat parses a float form field, returning 0 when absent or malformed.
func formFloat(r *http.Request, field string) float64 {
	f, _ := strconv.ParseFloat(r.FormValue(field), 64)
	return f
}

// templatesDir is relative to the server working directory. Tests
// override it because they run from the package directory.
var templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	name := ""
	if ok {
		role = sess.Role
		name = sess.FullName
		if name == "" {
			name = sess.Username
		}
	}

	funcMap := template.FuncMap{
		"currentRole": func() string { return role },
		"currentName": func() string { return name },
		"isLoggedIn":  func() bool { return role != "" },
		"isAdmin":     func() bool { return role == accountDomain.RoleAdmin },
		"isStaff": func() bool {
			return role == accountDomain.RoleAdmin || role == accountDomain.RoleTrainer
		},
		"csrfToken": func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"money": func(cents int) string {
			return fmt.Sprintf("$%.2f", float64(cents)/100)
		},
		"fmtDate": func(t time.Time) string {
			if t.IsZero() {
				return "—"
			}
			return t.Format("2006-01-02")
		},
		"fmtTime": func(t time.Time) string {
			if t.IsZero() {
				return "—"
			}
			return t.Format("Mon 2 Jan 15:04")
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"sortHeaderArgs": func(col, label, activeSort, activeDir string) map[string]string {
			nextDir := "asc"
			if col == activeSort && activeDir == "asc" {
				nextDir = "desc"
			}
			return map[string]string{
				"Col": col, "Label": label,
				"ActiveSort": activeSort, "ActiveDir": activeDir, "NextDir": nextDir,
			}
		},
		"paginationQuery": func(page int, sort, dir, search string, perPage int) template.URL {
			q := fmt.Sprintf("page=%d", page)
			if sort != "" {
				q += "&sort=" + sort
			}
			if dir != "" {
				q += "&dir=" + dir
			}
			if search != "" {
				q += "&q=" + search
			}
			if perPage > 0 {
				q += fmt.Sprintf("&per_page=%d", perPage)
			}
			return template.URL(q)
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		internalError(w, err)
		return
	}
}

// handleIndex redirects to the dashboard or the login form.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"CSRFToken":  csrf.Token(r),
			"Identifier": "",
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.LoginInput{
			Identifier: r.FormValue("Identifier"),
			Password:   r.FormValue("Password"),
		}
		deps := orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			renderTemplate(w, r, "login.html", map[string]any{
				"CSRFToken":  csrf.Token(r),
				"Identifier": input.Identifier,
				"Error":      err.Error(),
			})
			return
		}

		token, err := sessions.Create(middleware.Session{
			AccountID: result.AccountID,
			Username:  result.Username,
			Email:     result.Email,
			FullName:  result.FullName,
			Role:      result.Role,
		})
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}
		middleware.SetSessionCookie(w, token)

		if r.FormValue("Remember") == "on" {
			raw, err := orchestrators.ExecuteIssueRememberToken(r.Context(), result.AccountID, orchestrators.RememberDeps{
				AccountStore: stores.AccountStore,
			})
			if err == nil {
				middleware.SetRememberCookie(w, raw, orchestrators.RememberTokenTTL)
			}
		}

		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie("gymdesk_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		// Revoke remember tokens so the cookie cannot resurrect the login.
		_ = orchestrators.ExecuteForgetAccount(r.Context(), sess.AccountID, orchestrators.RememberDeps{
			AccountStore: stores.AccountStore,
		})
	}

	middleware.ClearSessionCookie(w)
	middleware.ClearRememberCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleRegister handles GET (form) and POST (create account) for /register
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "register.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
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

		if r.FormValue("Password") != r.FormValue("ConfirmPassword") {
			renderTemplate(w, r, "register.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     "Passwords do not match",
				"Form":      r.Form,
			})
			return
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
				accountDomain.IsValidationError(err),
				memberDomain.IsValidationError(err):
				renderTemplate(w, r, "register.html", map[string]any{
					"CSRFToken": csrf.Token(r),
					"Error":     err.Error(),
					"Form":      r.Form,
				})
			default:
				internalError(w, err)
			}
			return
		}

		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleChangePassword handles GET (form) and POST (update) for /change-password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if r.Method == "GET" {
		renderTemplate(w, r, "change_password.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Form error", http.StatusBadRequest)
			return
		}

		if r.FormValue("NewPassword") != r.FormValue("ConfirmPassword") {
			renderTemplate(w, r, "change_password.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     "New passwords do not match",
			})
			return
		}

		input := orchestrators.ChangePasswordInput{
			AccountID:       session.AccountID,
			CurrentPassword: r.FormValue("CurrentPassword"),
			NewPassword:     r.FormValue("NewPassword"),
		}
		deps := orchestrators.ChangePasswordDeps{
			AccountStore: stores.AccountStore,
		}
		if err := orchestrators.ExecuteChangePassword(r.Context(), input, deps); err != nil {
			switch {
			case errors.Is(err, orchestrators.ErrSamePassword),
				errors.Is(err, accountDomain.ErrWrongPassword),
				accountDomain.IsValidationError(err):
				renderTemplate(w, r, "change_password.html", map[string]any{
					"CSRFToken": csrf.Token(r),
					"Error":     err.Error(),
				})
			default:
				internalError(w, err)
			}
			return
		}

		// Other devices lose their sessions along with the remember tokens.
		sessions.DeleteForAccount(session.AccountID)
		middleware.ClearSessionCookie(w)
		middleware.ClearRememberCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleDashboard handles GET /dashboard, rendering the role-appropriate view.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	ctx := r.Context()

	if session.Role == accountDomain.RoleMember {
		result, err := projections.QueryGetMemberDashboard(ctx, session.AccountID, projections.GetMemberDashboardDeps{
			MemberStore:  stores.MemberStore,
			BookingStore: stores.BookingStore,
			ClassStore:   stores.ClassStore,
			PaymentStore: stores.PaymentStore,
		})
		if err != nil {
			internalError(w, err)
			return
		}
		if isHTMLRequest(r) {
			renderTemplate(w, r, "member_dashboard.html", result)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
		return
	}

	result, err := projections.QueryGetAdminDashboard(ctx, projections.GetDashboardDeps{
		MemberStore:    stores.MemberStore,
		TrainerStore:   stores.TrainerStore,
		ClassStore:     stores.ClassStore,
		BookingStore:   stores.BookingStore,
		PaymentStore:   stores.PaymentStore,
		EquipmentStore: stores.EquipmentStore,
		AccountStore:   stores.AccountStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	if isHTMLRequest(r) {
		renderTemplate(w, r, "admin_dashboard.html", result)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// registerRoutes attaches every route to the mux. Role gates live here so
// the access map is readable in one place.
func registerRoutes(mux *http.ServeMux) {
	admin := middleware.RequireRole(accountDomain.RoleAdmin)
	staff := middleware.RequireRole(accountDomain.RoleAdmin, accountDomain.RoleTrainer)
	member := middleware.RequireRole(accountDomain.RoleMember)

	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/register", handleRegister)
	mux.HandleFunc("/change-password", handleChangePassword)
	mux.Handle("/dashboard", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("/profile", member(http.HandlerFunc(handleProfile)))

	// Members (admin)
	mux.Handle("/members", admin(http.HandlerFunc(handleMemberList)))
	mux.Handle("/members/create", admin(http.HandlerFunc(handleMemberCreate)))
	mux.Handle("/members/export", admin(http.HandlerFunc(handleMemberExport)))
	mux.Handle("/members/view", admin(http.HandlerFunc(handleMemberDetail)))
	mux.Handle("/members/update", admin(http.HandlerFunc(handleMemberUpdate)))
	mux.Handle("/members/deactivate", admin(http.HandlerFunc(handleMemberDeactivate)))
	mux.Handle("/members/notes", admin(http.HandlerFunc(handleMemberNote)))

	// Trainers (list for staff, mutations for admin)
	mux.Handle("/trainers", middleware.RequireAuth(http.HandlerFunc(handleTrainerList)))
	mux.Handle("/trainers/save", admin(http.HandlerFunc(handleTrainerSave)))
	mux.Handle("/trainers/delete", admin(http.HandlerFunc(handleTrainerDelete)))

	// Classes
	mux.Handle("/classes", middleware.RequireAuth(http.HandlerFunc(handleClassList)))
	mux.Handle("/classes/save", admin(http.HandlerFunc(handleClassSave)))
	mux.Handle("/api/classes/cancel", admin(http.HandlerFunc(handleClassCancel)))

	// Bookings
	mux.Handle("/bookings", middleware.RequireAuth(http.HandlerFunc(handleBookingList)))
	mux.Handle("/bookings/create", member(http.HandlerFunc(handleBookingCreate)))
	mux.Handle("/api/bookings/cancel", middleware.RequireAuth(http.HandlerFunc(handleBookingCancel)))

	// Payments
	mux.Handle("/payments", middleware.RequireAuth(http.HandlerFunc(handlePaymentList)))
	mux.Handle("/payments/submit", member(http.HandlerFunc(handlePaymentSubmit)))
	mux.Handle("/payments/review", admin(http.HandlerFunc(handlePaymentReview)))

	// Equipment (staff view, admin mutations)
	mux.Handle("/equipment", staff(http.HandlerFunc(handleEquipmentList)))
	mux.Handle("/equipment/save", admin(http.HandlerFunc(handleEquipmentSave)))
	mux.Handle("/equipment/maintenance", admin(http.HandlerFunc(handleEquipmentMaintenance)))
	mux.Handle("/equipment/retire", admin(http.HandlerFunc(handleEquipmentRetire)))

	// Reports (admin)
	mux.Handle("/reports", admin(http.HandlerFunc(handleReportPage)))
	mux.Handle("/reports/csv", admin(http.HandlerFunc(handleReportCSV)))

	// Receipt uploads are admin-only: they may contain personal data.
	mux.Handle("/uploads/", admin(http.StripPrefix("/uploads/", http.FileServer(http.Dir(UploadsDir)))))
}
