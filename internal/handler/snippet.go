package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/snippets/internal/auth"
	"github.com/sakif/snippets/internal/model"
	"github.com/sakif/snippets/internal/service"
)

// SnippetHandler serves the snippet collection, single snippets, their
// highlighted HTML, and the language/style choice tables.
type SnippetHandler struct {
	service *service.SnippetService
	logger  *slog.Logger
}

func NewSnippetHandler(svc *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{service: svc, logger: logger}
}

// snippetResponse adds a link to the rendered document. The HTML itself is
// only served by HandleHighlight.
type snippetResponse struct {
	model.Snippet
	Highlight string `json:"highlight"`
}

func toResponse(s *model.Snippet) snippetResponse {
	return snippetResponse{Snippet: *s, Highlight: "/api/snippets/" + s.ID + "/highlight"}
}

// HandleList returns a page of snippets, oldest first.
//
// HTTP: GET /api/snippets?limit=20&offset=0
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pagination(r)
	if err != nil {
		writeError(w, err)
		return
	}

	snippets, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]snippetResponse, len(snippets))
	for i := range snippets {
		out[i] = toResponse(&snippets[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetByID returns one snippet.
//
// HTTP: GET /api/snippets/{id}
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(snippet))
}

// HandleHighlight serves the stored standalone HTML document.
//
// HTTP: GET /api/snippets/{id}/highlight
func (h *SnippetHandler) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(snippet.Highlighted)); err != nil {
		h.logger.Warn("failed to write highlighted snippet",
			slog.String("id", snippet.ID),
			slog.String("error", err.Error()),
		)
	}
}

// HandleCreate stores a new snippet owned by the authenticated user.
//
// HTTP: POST /api/snippets
// Body: {"title": "...", "code": "...", "linenos": false, "language": "python", "style": "friendly"}
//
// Any "owner" field in the body is ignored.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.SnippetInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	snippet, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/snippets/"+snippet.ID)
	writeJSON(w, http.StatusCreated, toResponse(snippet))
}

// HandleUpdate replaces a snippet. Fields left out of the body go back to
// their defaults.
//
// HTTP: PUT /api/snippets/{id}
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.SnippetInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	snippet, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(snippet))
}

// HandleDelete removes a snippet.
//
// HTTP: DELETE /api/snippets/{id}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLanguages returns the language choice table.
//
// HTTP: GET /api/languages
func (h *SnippetHandler) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Languages())
}

// HandleStyles returns the style choice table.
//
// HTTP: GET /api/styles
func (h *SnippetHandler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Styles())
}
