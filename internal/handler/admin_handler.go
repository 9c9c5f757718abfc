package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roshil-6/TONIO-SENORA/internal/models"
	"github.com/roshil-6/TONIO-SENORA/internal/service"
)

type AdminHandler struct {
	svc      *service.AdminService
	contacts *service.ContactService
}

func NewAdminHandler(svc *service.AdminService, contacts *service.ContactService) *AdminHandler {
	return &AdminHandler{svc: svc, contacts: contacts}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *AdminHandler) Clients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	clients, err := h.svc.Clients(r.Context(), service.ClientFilter{
		Search:  q.Get("search"),
		Status:  q.Get("status"),
		Country: q.Get("country"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *AdminHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reviews, err := h.svc.Reviews(r.Context(), service.ReviewFilter{
		Status: models.ReviewStatus(q.Get("status")),
		Client: q.Get("client"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

type decisionRequest struct {
	Note string `json:"note"`
}

// readDecision reads an optional {"note": "..."} body.
func readDecision(r *http.Request) decisionRequest {
	var req decisionRequest
	if r.ContentLength != 0 {
		readJSON(r, &req)
	}
	return req
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	rev, err := h.svc.Approve(r.Context(), chi.URLParam(r, "reviewId"), readDecision(r).Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	rev, err := h.svc.Reject(r.Context(), chi.URLParam(r, "reviewId"), readDecision(r).Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

func (h *AdminHandler) Applications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.Applications(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *AdminHandler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	app, err := h.svc.UpdateApplication(r.Context(), chi.URLParam(r, "appId"), req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *AdminHandler) Communications(w http.ResponseWriter, r *http.Request) {
	comms, err := h.svc.Communications(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if comms == nil {
		comms = []models.Communication{}
	}
	writeJSON(w, http.StatusOK, comms)
}

func (h *AdminHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	m, err := h.svc.Reply(r.Context(), chi.URLParam(r, "clientId"), req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.svc.Reports(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *AdminHandler) Activity(w http.ResponseWriter, r *http.Request) {
	acts, err := h.svc.Activity(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acts)
}

func (h *AdminHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	list, err := h.contacts.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if list == nil {
		list = []models.ContactMessage{}
	}
	writeJSON(w, http.StatusOK, list)
}
