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
	equipmentDomain "gymdesk/internal/domain/equipment"
)

// dateLayout matches the date input format.
const dateLayout = "2006-01-02"

// handleEquipmentList handles GET /equipment
func handleEquipmentList(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := listutil.Parse(r.URL.Query(), projections.EquipmentSortColumns, []string{"status"})
	result, err := projections.QueryGetEquipmentList(r.Context(), query, projections.GetEquipmentListDeps{
		EquipmentStore: stores.EquipmentStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "equipment_list.html", map[string]any{
			"Equipment":      result.Equipment,
			"DueCount":       result.DueCount,
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

// handleEquipmentSave handles POST /equipment/save
func handleEquipmentSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.SaveEquipmentInput{
		EquipmentID: r.FormValue("EquipmentID"),
		Equipment: equipmentDomain.Equipment{
			Name:            r.FormValue("Name"),
			Brand:           r.FormValue("Brand"),
			PurchaseDate:    formDate(r, "PurchaseDate"),
			NextMaintenance: formDate(r, "NextMaintenance"),
			Status:          r.FormValue("Status"),
			Location:        r.FormValue("Location"),
		},
	}
	deps := orchestrators.SaveEquipmentDeps{EquipmentStore: stores.EquipmentStore}
	if _, err := orchestrators.ExecuteSaveEquipment(r.Context(), input, deps); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			http.Redirect(w, r, "/equipment", http.StatusSeeOther)
		case equipmentDomain.IsValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/equipment", http.StatusSeeOther)
}

// handleEquipmentMaintenance handles POST /equipment/maintenance
func handleEquipmentMaintenance(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	deps := orchestrators.SaveEquipmentDeps{EquipmentStore: stores.EquipmentStore}
	if err := orchestrators.ExecuteRecordMaintenance(r.Context(), r.FormValue("EquipmentID"), deps); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			http.Redirect(w, r, "/equipment", http.StatusSeeOther)
		case errors.Is(err, equipmentDomain.ErrRetired):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/equipment", http.StatusSeeOther)
}

// handleEquipmentRetire handles POST /equipment/retire
func handleEquipmentRetire(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	deps := orchestrators.SaveEquipmentDeps{EquipmentStore: stores.EquipmentStore}
	if err := orchestrators.ExecuteRetireEquipment(r.Context(), r.FormValue("EquipmentID"), deps); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Redirect(w, r, "/equipment", http.StatusSeeOther)
			return
		}
		internalError(w, err)
		return
	}

	http.Redirect(w, r, "/equipment", http.StatusSeeOther)
}

// formDate parses a date form field, returning the zero time when blank.
func formDate(r *http.Request, field string) time.Time {
	v := r.FormValue(field)
	if v == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(dateLayout, v, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
