package controllers

import (
	"clanwatch/internal/providers"
	"clanwatch/internal/upstream"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

// writeUpstreamError answers with the status mapped from the error kind.
func writeUpstreamError(w http.ResponseWriter, logger providers.Logger, r *http.Request, err error) {
	status := upstream.HTTPStatus(err)
	resp := errorResponse{Error: err.Error()}
	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		resp.Error = upErr.Kind.Error()
		resp.Reason = upErr.Reason
	}
	if status >= http.StatusInternalServerError {
		logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
	} else {
		logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, resp)
}
