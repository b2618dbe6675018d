package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/techurbanist/duread/internal/client/models"
	"github.com/techurbanist/duread/internal/client/services"
	"github.com/techurbanist/duread/internal/common"
	"github.com/techurbanist/duread/internal/logging"
)

const maxBodyBytes = 1 << 20

type handler struct {
	creds  services.CredentialService
	docs   services.DocumentService
	logger logging.Logger
}

// fail writes err as a JSON error. Server-side failures are logged and their
// detail is not sent to the client.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}
	jsonError(w, msg, status)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

type documentSummary struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Direction models.Direction `json:"direction"`
	Loaded    int              `json:"loaded"`
	Total     int              `json:"total"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func summarize(d models.Document) documentSummary {
	loaded, total := d.Progress()
	return documentSummary{
		ID: d.ID, Title: d.Title, Direction: d.Direction,
		Loaded: loaded, Total: total,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type statusResponse struct {
	Credential services.CredentialStatus `json:"credential"`
	Direction  models.Direction          `json:"direction"`
	Current    *documentSummary          `json:"current"`
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	cs, err := h.creds.Status(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := statusResponse{Credential: cs, Direction: h.docs.Direction()}
	if doc, ok := h.docs.Current(); ok {
		s := summarize(doc)
		resp.Current = &s
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) saveCredential(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey     string `json:"apiKey"`
		Passphrase string `json:"passphrase"`
	}
	if !decode(w, r, &req) {
		return
	}
	pass := []byte(req.Passphrase)
	defer common.WipeByteArray(pass)

	if err := h.creds.Save(r.Context(), req.APIKey, pass); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) unlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if !decode(w, r, &req) {
		return
	}
	pass := []byte(req.Passphrase)
	defer common.WipeByteArray(pass)

	if err := h.creds.Unlock(r.Context(), pass); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) forget(w http.ResponseWriter, r *http.Request) {
	if err := h.creds.Forget(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]documentSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, summarize(d))
	}
	writeJSON(w, http.StatusOK, out)
}

// submit starts a new document. A plain text is read as is; a title or url
// is handled like content shared from another application.
func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text  string `json:"text"`
		Title string `json:"title"`
		URL   string `json:"url"`
	}
	if !decode(w, r, &req) {
		return
	}

	var (
		doc models.Document
		err error
	)
	if req.Title == "" && req.URL == "" {
		doc, err = h.docs.Submit(r.Context(), req.Text)
	} else {
		doc, err = h.docs.SubmitShared(r.Context(), services.SharedContent{Title: req.Title, Text: req.Text, URL: req.URL})
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *handler) current(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.docs.Current()
	if !ok {
		jsonError(w, "no document open", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *handler) newDocument(w http.ResponseWriter, r *http.Request) {
	h.docs.New()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) load(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.docs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) setDirection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction models.Direction `json:"direction"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.docs.SetDirection(r.Context(), req.Direction); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.Direction{"direction": h.docs.Direction()})
}

// visible takes the sentence ids the front-end currently shows.
func (h *handler) visible(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.docs.MarkVisible(req.IDs...)
	w.WriteHeader(http.StatusAccepted)
}
