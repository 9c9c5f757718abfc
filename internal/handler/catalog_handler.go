package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roshil-6/TONIO-SENORA/internal/catalog"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
	"github.com/roshil-6/TONIO-SENORA/internal/service"
)

// CatalogHandler serves the requirement catalog without client state.
type CatalogHandler struct {
	catalog   *catalog.Catalog
	checklist *service.ChecklistService
}

func NewCatalogHandler(d service.Deps) *CatalogHandler {
	return &CatalogHandler{catalog: d.Catalog, checklist: service.NewChecklistService(d, models.User{})}
}

func (h *CatalogHandler) Countries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.checklist.Countries())
}

func (h *CatalogHandler) Country(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.checklist.Country(chi.URLParam(r, "country")))
}

func (h *CatalogHandler) VisaType(w http.ResponseWriter, r *http.Request) {
	vt, ok := h.catalog.Requirements(chi.URLParam(r, "country"), chi.URLParam(r, "visaType"))
	if !ok {
		writeError(w, http.StatusNotFound, "visa type not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"visaType":       vt,
		"totalDocuments": vt.TotalDocumentCount(),
		"requiredCount":  vt.RequiredCount(),
		"optionalCount":  vt.OptionalCount(),
	})
}
