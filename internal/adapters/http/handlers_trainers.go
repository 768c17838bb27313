package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"gymdesk/internal/application/listutil"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	accountDomain "gymdesk/internal/domain/account"
	"gymdesk/internal/domain/trainer"
)

// handleTrainerList handles GET /trainers
func handleTrainerList(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := listutil.Parse(r.URL.Query(), projections.TrainerSortColumns, []string{"specialty"})
	result, err := projections.QueryGetTrainerList(r.Context(), query, projections.GetTrainerListDeps{
		TrainerStore: stores.TrainerStore,
		AccountStore: stores.AccountStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "trainer_list.html", map[string]any{
			"Trainers":       result.Trainers,
			"PageInfo":       result.PageInfo,
			"Sort":           query.Sort,
			"Dir":            query.Dir,
			"Search":         query.Search,
			"Specialty":      query.Filters["specialty"],
			"PerPageOptions": listutil.PerPageOptions,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleTrainerSave handles POST /trainers/save. A blank TrainerID
// creates a trainer with its login account; otherwise the profile is
// updated in place.
func handleTrainerSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	deps := orchestrators.CreateTrainerDeps{
		TrainerStore: stores.TrainerStore,
		AccountStore: stores.AccountStore,
	}

	if trainerID := r.FormValue("TrainerID"); trainerID != "" {
		input := orchestrators.UpdateTrainerInput{
			TrainerID:     trainerID,
			Specialty:     r.FormValue("Specialty"),
			Certification: r.FormValue("Certification"),
			YearsExp:      formInt(r, "YearsExp"),
			Rating:        formFloat(r, "Rating"),
			Bio:           r.FormValue("Bio"),
		}
		if err := orchestrators.ExecuteUpdateTrainer(r.Context(), input, deps); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				http.Redirect(w, r, "/trainers", http.StatusSeeOther)
			case trainer.IsValidationError(err):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				internalError(w, err)
			}
			return
		}
		http.Redirect(w, r, "/trainers", http.StatusSeeOther)
		return
	}

	input := orchestrators.CreateTrainerInput{
		Username:      r.FormValue("Username"),
		Email:         r.FormValue("Email"),
		Password:      r.FormValue("Password"),
		FullName:      r.FormValue("FullName"),
		Specialty:     r.FormValue("Specialty"),
		Certification: r.FormValue("Certification"),
		YearsExp:      formInt(r, "YearsExp"),
		Rating:        formFloat(r, "Rating"),
		Bio:           r.FormValue("Bio"),
	}
	if _, err := orchestrators.ExecuteCreateTrainer(r.Context(), input, deps); err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrEmailTaken),
			errors.Is(err, orchestrators.ErrUsernameTaken),
			trainer.IsValidationError(err),
			accountDomain.IsValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/trainers", http.StatusSeeOther)
}

// handleTrainerDelete handles POST /trainers/delete
func handleTrainerDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	deps := orchestrators.CreateTrainerDeps{
		TrainerStore: stores.TrainerStore,
		AccountStore: stores.AccountStore,
	}
	if err := orchestrators.ExecuteDeleteTrainer(r.Context(), r.FormValue("TrainerID"), deps); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Redirect(w, r, "/trainers", http.StatusSeeOther)
			return
		}
		internalError(w, err)
		return
	}

	http.Redirect(w, r, "/trainers", http.StatusSeeOther)
}
