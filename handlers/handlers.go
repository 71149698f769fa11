// Package handlers adapts the services to HTTP. Every handler returns an
// error; Handle turns it into the {error} JSON body.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/middleware"
)

type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Handle writes the status and message that belong to the error kind h
// returned. Causes of 5xx responses are logged, never sent.
func Handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		status := errs.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.WithFields(log.Fields{
				"request_id": middleware.RequestID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
			}).WithError(err).Error("Handler error")
		}
		writeJSON(w, status, errorResponse{Error: errs.Message(err)})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || err == io.EOF {
		return nil
	}
	return errs.Validation("Invalid request body")
}

func intParam(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errs.Validation("Invalid " + name)
	}
	return n, nil
}

func boolParam(r *http.Request, name string) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return ok
}

// NotFound answers requests no route matched.
func NotFound() http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		return errs.NotFound("Route not found")
	})
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
