package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gymdesk/internal/application/listutil"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/gymclass"
)

// scheduleLayout matches the datetime-local input format.
const scheduleLayout = "2006-01-02T15:04"

// handleClassList handles GET /classes
func handleClassList(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := listutil.Parse(r.URL.Query(), projections.ClassSortColumns,
		[]string{"status", "type", "difficulty", "trainer"})
	result, err := projections.QueryGetClassList(r.Context(), query, projections.GetClassListDeps{
		ClassStore:   stores.ClassStore,
		TrainerStore: stores.TrainerStore,
		AccountStore: stores.AccountStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "class_list.html", map[string]any{
			"Classes":        result.Classes,
			"PageInfo":       result.PageInfo,
			"Sort":           query.Sort,
			"Dir":            query.Dir,
			"Search":         query.Search,
			"Status":         query.Filters["status"],
			"ClassType":      query.Filters["type"],
			"Difficulty":     query.Filters["difficulty"],
			"Difficulties":   gymclass.ValidDifficulties,
			"PerPageOptions": listutil.PerPageOptions,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleClassSave handles POST /classes/save
func handleClassSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	schedule, err := time.ParseInLocation(scheduleLayout, r.FormValue("Schedule"), time.Local)
	if err != nil {
		http.Error(w, "Invalid schedule date", http.StatusBadRequest)
		return
	}

	input := orchestrators.SaveClassInput{
		ClassID: r.FormValue("ClassID"),
		Class: gymclass.Class{
			Name:            r.FormValue("Name"),
			TrainerID:       r.FormValue("TrainerID"),
			Schedule:        schedule,
			DurationMinutes: formInt(r, "DurationMinutes"),
			MaxCapacity:     formInt(r, "MaxCapacity"),
			Location:        r.FormValue("Location"),
			ClassType:       r.FormValue("ClassType"),
			Difficulty:      r.FormValue("Difficulty"),
			Description:     r.FormValue("Description"),
			Status:          r.FormValue("Status"),
		},
	}
	deps := orchestrators.SaveClassDeps{ClassStore: stores.ClassStore}
	if _, err := orchestrators.ExecuteSaveClass(r.Context(), input, deps); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			http.Redirect(w, r, "/classes", http.StatusSeeOther)
		case gymclass.IsValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/classes", http.StatusSeeOther)
}

// handleClassCancel handles POST /api/classes/cancel. This is a JSON
// endpoint called from the class list page; it cancels the class and
// cascades to its live bookings.
func handleClassCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		ClassID string `json:"class_id"`
	}
	if err := strictDecode(r, &input); err != nil || input.ClassID == "" {
		jsonResult(w, http.StatusBadRequest, false, "class_id is required")
		return
	}

	deps := orchestrators.SaveClassDeps{ClassStore: stores.ClassStore}
	if err := orchestrators.ExecuteCancelClass(r.Context(), input.ClassID, deps); err != nil {
		if errors.Is(err, gymclass.ErrAlreadyCancelled) {
			jsonResult(w, http.StatusBadRequest, false, err.Error())
			return
		}
		jsonResult(w, http.StatusInternalServerError, false, "could not cancel class")
		return
	}

	jsonResult(w, http.StatusOK, true, "Class cancelled")
}
