package web

import (
	"encoding/json"
	"net/http"
	"time"

	"gymdesk/internal/application/projections"
	reportDomain "gymdesk/internal/domain/report"
)

// formDateValue parses a yyyy-mm-dd string, returning the zero time when
// blank or malformed.
func formDateValue(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(dateLayout, v, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// reportParamsFromQuery builds report parameters from the query string.
func reportParamsFromQuery(r *http.Request) reportDomain.Params {
	q := r.URL.Query()
	return reportDomain.Params{
		Type: q.Get("type"),
		From: formDateValue(q.Get("from")),
		To:   formDateValue(q.Get("to")),
	}
}

// handleReportPage handles GET /reports. Without a type it renders the
// selection form; with one it renders the built table.
func handleReportPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	params := reportParamsFromQuery(r)
	if params.Type == "" {
		renderTemplate(w, r, "reports.html", map[string]any{
			"Types":    reportDomain.ValidTypes,
			"Selected": "",
			"From":     time.Time{},
			"To":       time.Time{},
		})
		return
	}

	result, err := projections.QueryGetReport(r.Context(), params, projections.GetReportDeps{
		ReportStore: stores.ReportStore,
	})
	if err != nil {
		if reportDomain.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "reports.html", map[string]any{
			"Types":    reportDomain.ValidTypes,
			"Selected": params.Type,
			"From":     params.From,
			"To":       params.To,
			"Table":    result.Table,
			"Summary":  result.Table.Summary,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleReportCSV handles GET /reports/csv, streaming the report as a
// CSV attachment.
func handleReportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	params := reportParamsFromQuery(r)
	result, err := projections.QueryGetReport(r.Context(), params, projections.GetReportDeps{
		ReportStore: stores.ReportStore,
		Now:         timeNow,
	})
	if err != nil {
		if reportDomain.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}

	data, err := result.Table.RenderCSV()
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.Write(data)
}
