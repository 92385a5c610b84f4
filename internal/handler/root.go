// Package handler contains the HTTP handlers. Handlers parse requests, call
// a service, and write the response; they hold no business rules.
package handler

import "net/http"

// RootHandler serves the API entry point so clients can discover the
// collections without hard-coding paths.
type RootHandler struct {
	links map[string]string
}

func NewRootHandler(authEnabled bool) *RootHandler {
	links := map[string]string{
		"snippets":  "/api/snippets",
		"users":     "/api/users",
		"languages": "/api/languages",
		"styles":    "/api/styles",
	}
	if authEnabled {
		links["me"] = "/api/me"
		links["login"] = "/auth/login"
		links["register"] = "/auth/register"
	}
	return &RootHandler{links: links}
}

// HTTP: GET /api
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.links)
}
