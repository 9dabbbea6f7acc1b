package api

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"matchdata-scraper/internal/browser"
	"matchdata-scraper/internal/extract"
	"matchdata-scraper/internal/provider/fotmob"
	"matchdata-scraper/internal/workflow"
)

const (
	apiVersion  = "1.0"
	errorDomain = "matchdata-scraper"
)

// ErrInvalidInput marks request parameters that failed validation.
var ErrInvalidInput = errors.New("invalid input")

type responseEnvelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, responseEnvelope{APIVersion: apiVersion, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	mapped := mapError(err)
	message := err.Error()
	if mapped.HTTPStatus == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeJSON(w, mapped.HTTPStatus, responseEnvelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors: []errorItem{{
				Domain:  errorDomain,
				Reason:  mapped.Reason,
				Message: message,
			}},
		},
	})
}

// mapError orders the search timeout before team-not-found since it carries both marks.
func mapError(err error) mappedError {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, workflow.ErrSameTeam),
		errors.Is(err, workflow.ErrUnknownTeam):
		return mappedError{http.StatusBadRequest, "invalid-input", "INVALID_ARGUMENT"}
	case errors.Is(err, fotmob.ErrSearchTimeout):
		return mappedError{http.StatusGatewayTimeout, "search-timeout", "DEADLINE_EXCEEDED"}
	case errors.Is(err, fotmob.ErrTeamNotFound):
		return mappedError{http.StatusNotFound, "team-not-found", "NOT_FOUND"}
	case errors.Is(err, fotmob.ErrNoCompletedFixtures):
		return mappedError{http.StatusNotFound, "no-completed-fixtures", "NOT_FOUND"}
	case errors.Is(err, workflow.ErrMissingTeams):
		return mappedError{http.StatusUnprocessableEntity, "missing-teams", "FAILED_PRECONDITION"}
	case errors.Is(err, extract.ErrExtraction):
		return mappedError{http.StatusBadGateway, extract.Reason(err), "UNAVAILABLE"}
	case errors.Is(err, browser.ErrSession):
		return mappedError{http.StatusServiceUnavailable, "browser-unavailable", "UNAVAILABLE"}
	default:
		return mappedError{http.StatusInternalServerError, "internal-error", "INTERNAL"}
	}
}
