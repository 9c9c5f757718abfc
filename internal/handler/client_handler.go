package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roshil-6/TONIO-SENORA/internal/auth"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
	"github.com/roshil-6/TONIO-SENORA/internal/service"
)

const (
	multipartMemory = 32 << 20
	dropZoneBody    = 110 << 20
)

// ClientHandler serves the client dashboard. Services are built per
// request for the user the session gate authorized.
type ClientHandler struct {
	deps service.Deps
}

func NewClientHandler(d service.Deps) *ClientHandler {
	return &ClientHandler{deps: d}
}

func client(r *http.Request) models.User {
	return auth.GetSession(r.Context()).User
}

func (h *ClientHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := service.NewDashboardService(h.deps, client(r)).Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *ClientHandler) Activity(w http.ResponseWriter, r *http.Request) {
	acts, err := service.NewDashboardService(h.deps, client(r)).Activity(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acts)
}

func (h *ClientHandler) StartApplication(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Country  string `json:"country"`
		VisaType string `json:"visaType"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	app, err := service.NewDashboardService(h.deps, client(r)).StartApplication(r.Context(), req.Country, req.VisaType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *ClientHandler) Country(w http.ResponseWriter, r *http.Request) {
	svc := service.NewChecklistService(h.deps, client(r))
	writeJSON(w, http.StatusOK, svc.Country(chi.URLParam(r, "country")))
}

func (h *ClientHandler) Checklist(w http.ResponseWriter, r *http.Request) {
	svc := service.NewChecklistService(h.deps, client(r))
	view, err := svc.VisaType(r.Context(), chi.URLParam(r, "country"), chi.URLParam(r, "visaType"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if view == nil {
		writeError(w, http.StatusNotFound, "visa type not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ClientHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item string `json:"item"`
		Done bool   `json:"done"`
	}
	if err := readJSON(r, &req); err != nil || req.Item == "" {
		writeError(w, http.StatusBadRequest, "item is required")
		return
	}
	country := chi.URLParam(r, "country")
	svc := service.NewChecklistService(h.deps, client(r))
	if err := svc.ToggleItem(r.Context(), country, req.Item, req.Done); err != nil {
		writeServiceError(w, err)
		return
	}
	p, err := svc.ItemProgress(r.Context(), country)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ClientHandler) Documents(w http.ResponseWriter, r *http.Request) {
	t := service.NewTracker(h.deps, client(r))
	records, err := t.Records(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	overall, err := t.OverallProgress(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if records == nil {
		records = map[string]models.UploadRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": records, "overallProgress": overall})
}

func (h *ClientHandler) Document(w http.ResponseWriter, r *http.Request) {
	rec, err := service.NewTracker(h.deps, client(r)).Record(r.Context(), chi.URLParam(r, "docId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Upload stores the "file" part as the upload of a checklist document.
func (h *ClientHandler) Upload(w http.ResponseWriter, r *http.Request) {
	files, ok := parseFiles(w, r, service.PathChecklist.MaxSize()*2+1<<20)
	if !ok {
		return
	}
	if len(files) != 1 {
		writeError(w, http.StatusBadRequest, "exactly one file is required")
		return
	}
	rec, err := service.NewTracker(h.deps, client(r)).RecordUpload(r.Context(), chi.URLParam(r, "docId"), files[0])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *ClientHandler) Download(w http.ResponseWriter, r *http.Request) {
	data, ct, rec, err := service.NewTracker(h.deps, client(r)).Open(r.Context(), chi.URLParam(r, "docId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if ct == "" {
		ct = rec.Type
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": rec.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "docId")
	removed, err := service.NewTracker(h.deps, client(r)).Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !removed {
		writeServiceError(w, service.ErrDocumentNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (h *ClientHandler) Files(w http.ResponseWriter, r *http.Request) {
	files, err := service.NewTracker(h.deps, client(r)).Files(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if files == nil {
		files = []models.LegacyFile{}
	}
	writeJSON(w, http.StatusOK, files)
}

// DropZone stores every "files" part under the general category.
func (h *ClientHandler) DropZone(w http.ResponseWriter, r *http.Request) {
	h.uploadFiles(w, r, service.PathDropZone, models.GeneralCategory, dropZoneBody, false)
}

// CategoryUpload stores the parts under a category. ?replace=true swaps out
// the category's previous files.
func (h *ClientHandler) CategoryUpload(w http.ResponseWriter, r *http.Request) {
	replace, _ := strconv.ParseBool(r.URL.Query().Get("replace"))
	h.uploadFiles(w, r, service.PathCategory, chi.URLParam(r, "category"), service.PathCategory.MaxSize()*2+1<<20, replace)
}

func (h *ClientHandler) uploadFiles(w http.ResponseWriter, r *http.Request, path service.UploadPath, category string, maxBody int64, replace bool) {
	files, ok := parseFiles(w, r, maxBody)
	if !ok {
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files selected")
		return
	}
	res, err := service.NewTracker(h.deps, client(r)).UploadFiles(r.Context(), path, category, files, replace)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusCreated
	if len(res.Uploaded) == 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}

func (h *ClientHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := service.NewMessageService(h.deps, client(r)).Thread(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ClientHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	m, err := service.NewMessageService(h.deps, client(r)).Send(r.Context(), req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// parseFiles reads the "file" and "files" parts of a multipart body. It
// writes the error response itself and reports false on failure.
func parseFiles(w http.ResponseWriter, r *http.Request, maxBody int64) ([]*service.FileMeta, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
		}
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	lastModified, _ := strconv.ParseInt(r.FormValue("lastModified"), 10, 64)
	var out []*service.FileMeta
	for _, field := range []string{"file", "files"} {
		for _, fh := range r.MultipartForm.File[field] {
			meta, err := fileMeta(fh, lastModified)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("read %s: %v", fh.Filename, err))
				return nil, false
			}
			out = append(out, meta)
		}
	}
	return out, true
}

func fileMeta(fh *multipart.FileHeader, lastModified int64) (*service.FileMeta, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.FileMeta{
		Name:         uploadedName(fh),
		Size:         fh.Size,
		Type:         fh.Header.Get("Content-Type"),
		LastModified: lastModified,
		Data:         data,
	}, nil
}

// uploadedName is the file name exactly as the client sent it.
// FileHeader.Filename is already cut down to its last path element.
func uploadedName(fh *multipart.FileHeader) string {
	_, params, err := mime.ParseMediaType(fh.Header.Get("Content-Disposition"))
	if err == nil && params["filename"] != "" {
		return params["filename"]
	}
	return fh.Filename
}
