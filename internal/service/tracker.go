package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"

	"github.com/roshil-6/TONIO-SENORA/internal/blob"
	"github.com/roshil-6/TONIO-SENORA/internal/catalog"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
	"github.com/roshil-6/TONIO-SENORA/internal/repository"
)

// Progress is a completed/total pair with a rounded percentage.
type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

func newProgress(completed, total int) Progress {
	p := Progress{Completed: completed, Total: total}
	if total > 0 {
		p.Percentage = int(math.Round(float64(completed) * 100 / float64(total)))
	}
	return p
}

// Tracker is one client's set of upload records, keyed by catalog document
// id, plus the legacy per-category file list.
type Tracker struct {
	client   models.User
	deps     Deps
	uploads  *repository.UploadRepo
	files    *repository.FileRepo
	activity *repository.ActivityRepo
	reviews  *repository.ReviewRepo
}

// NewTracker builds the tracker of client.
func NewTracker(d Deps, client models.User) *Tracker {
	cs := repository.ClientStore(d.Root, client.ID)
	return &Tracker{
		client:   client,
		deps:     d,
		uploads:  repository.NewUploadRepo(cs),
		files:    repository.NewFileRepo(cs),
		activity: repository.NewClientActivityRepo(cs),
		reviews:  repository.NewReviewRepo(d.Root),
	}
}

// RecordUpload validates f and stores it as the current upload of
// documentID, replacing any previous one. The new record has status
// uploaded. The activity entry and the review request are separate writes;
// their failures are logged, not returned.
func (t *Tracker) RecordUpload(ctx context.Context, documentID string, f *FileMeta) (*models.UploadRecord, error) {
	desc, ok := t.deps.Catalog.Lookup(documentID)
	if !ok {
		return nil, ErrUnknownDocument
	}
	if err := t.validate(f, PathChecklist); err != nil {
		return nil, err
	}

	blobKey, err := t.putBlob(ctx, f)
	if err != nil {
		return nil, err
	}

	ts := now()
	rec := models.UploadRecord{
		ID:           documentID,
		Name:         f.Name,
		Size:         f.Size,
		Type:         f.Type,
		UploadDate:   ts,
		LastModified: f.LastModified,
		Status:       models.StatusUploaded,
		ClientID:     t.client.ID,
		LastUpdated:  ts,
		BlobKey:      blobKey,
	}
	prev, err := t.uploads.Put(ctx, rec)
	if err != nil {
		t.dropBlob(ctx, blobKey)
		return nil, err
	}
	if prev != nil {
		t.dropBlob(ctx, prev.BlobKey)
	}
	t.deps.Metrics.Upload(string(PathChecklist))

	t.logActivity(ctx, models.ActivityUpload, "Document uploaded: "+f.Name)
	err = t.reviews.Enqueue(ctx, models.Review{
		ID:          uuid.New().String(),
		ClientID:    t.client.ID,
		Client:      t.client.Name,
		DocumentID:  documentID,
		Title:       desc.Name,
		FileName:    f.Name,
		Status:      models.ReviewPending,
		SubmittedAt: ts,
	})
	if err != nil {
		log.Printf("Warning: tracker: enqueue review for %s/%s: %v", t.client.ID, documentID, err)
	}
	return &rec, nil
}

// SetStatus changes the status of an existing record. A missing record is
// left alone and reported as false.
func (t *Tracker) SetStatus(ctx context.Context, documentID string, status models.Status) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	return t.uploads.SetStatus(ctx, documentID, status, now())
}

// Status returns not-uploaded for documents without a record.
func (t *Tracker) Status(ctx context.Context, documentID string) (models.Status, error) {
	rec, err := t.uploads.Get(ctx, documentID)
	if err != nil {
		return models.StatusNotUploaded, err
	}
	if rec == nil || !rec.Status.Valid() {
		return models.StatusNotUploaded, nil
	}
	return rec.Status, nil
}

// Delete removes the record of documentID and its stored bytes. It reports
// false when there is no record.
func (t *Tracker) Delete(ctx context.Context, documentID string) (bool, error) {
	removed, err := t.uploads.Delete(ctx, documentID)
	if err != nil || removed == nil {
		return false, err
	}
	t.dropBlob(ctx, removed.BlobKey)
	if err := t.reviews.DropDocument(ctx, t.client.ID, documentID); err != nil {
		log.Printf("Warning: tracker: drop reviews for %s/%s: %v", t.client.ID, documentID, err)
	}
	return true, nil
}

func (t *Tracker) Record(ctx context.Context, documentID string) (*models.UploadRecord, error) {
	rec, err := t.uploads.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrDocumentNotFound
	}
	return rec, nil
}

func (t *Tracker) Records(ctx context.Context) (map[string]models.UploadRecord, error) {
	return t.uploads.All(ctx)
}

// Open returns the stored bytes of an upload with their content type.
func (t *Tracker) Open(ctx context.Context, documentID string) ([]byte, string, *models.UploadRecord, error) {
	rec, err := t.Record(ctx, documentID)
	if err != nil {
		return nil, "", nil, err
	}
	if rec.BlobKey == "" || t.deps.Blobs == nil {
		return nil, "", nil, ErrDocumentNotFound
	}
	data, ct, err := t.deps.Blobs.Get(ctx, rec.BlobKey)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, "", nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, "", nil, fmt.Errorf("download blob: %w", err)
	}
	return data, ct, rec, nil
}

// CategoryProgress counts the documents of g whose status is uploaded.
// Approved documents do not count here; OverallProgress counts those.
func (t *Tracker) CategoryProgress(ctx context.Context, g catalog.Group) (Progress, error) {
	records, err := t.uploads.All(ctx)
	if err != nil {
		return Progress{}, err
	}
	return categoryProgress(records, g), nil
}

func categoryProgress(records map[string]models.UploadRecord, g catalog.Group) Progress {
	completed := 0
	for _, d := range g.Documents {
		if rec, ok := records[d.ID]; ok && rec.Status == models.StatusUploaded {
			completed++
		}
	}
	return newProgress(completed, len(g.Documents))
}

// OverallProgress is approved records over all records, as a rounded
// percentage; 0 without records.
func (t *Tracker) OverallProgress(ctx context.Context) (int, error) {
	records, err := t.uploads.All(ctx)
	if err != nil {
		return 0, err
	}
	return overallProgress(records), nil
}

func overallProgress(records map[string]models.UploadRecord) int {
	approved := 0
	for _, rec := range records {
		if rec.Status == models.StatusApproved {
			approved++
		}
	}
	return newProgress(approved, len(records)).Percentage
}

// FileFailure is one rejected file of a batch.
type FileFailure struct {
	Name  string         `json:"name"`
	Kind  ValidationKind `json:"kind"`
	Error string         `json:"error"`
}

type BatchResult struct {
	Uploaded []models.LegacyFile `json:"uploaded"`
	Failed   []FileFailure       `json:"failed"`
}

// UploadFiles adds files to the legacy file list under category. Each file
// is validated on its own; rejected files are reported, the rest stored.
// With replace set, the category's previous files are removed first.
func (t *Tracker) UploadFiles(ctx context.Context, path UploadPath, category string, files []*FileMeta, replace bool) (*BatchResult, error) {
	if category == "" {
		category = models.GeneralCategory
	}
	res := &BatchResult{Uploaded: []models.LegacyFile{}, Failed: []FileFailure{}}
	var keys []string
	for _, f := range files {
		if err := t.validate(f, path); err != nil {
			var ve *ValidationError
			errors.As(err, &ve)
			name := ""
			if f != nil {
				name = f.Name
			}
			res.Failed = append(res.Failed, FileFailure{Name: name, Kind: ve.Kind, Error: ve.Msg})
			continue
		}
		key, err := t.putBlob(ctx, f)
		if err != nil {
			t.dropBlobs(ctx, keys)
			return nil, err
		}
		keys = append(keys, key)
		res.Uploaded = append(res.Uploaded, models.LegacyFile{
			ID:           uuid.New().String(),
			Name:         f.Name,
			Size:         f.Size,
			Type:         f.Type,
			UploadedAt:   now(),
			Status:       models.StatusUploaded,
			Category:     category,
			ClientID:     t.client.ID,
			LastModified: f.LastModified,
			BlobKey:      key,
		})
	}

	replaceCategory := ""
	if replace {
		replaceCategory = category
	}
	removed, err := t.files.Append(ctx, res.Uploaded, replaceCategory)
	if err != nil {
		t.dropBlobs(ctx, keys)
		return nil, err
	}
	for _, f := range removed {
		t.dropBlob(ctx, f.BlobKey)
	}

	if n := len(res.Uploaded); n > 0 {
		for range res.Uploaded {
			t.deps.Metrics.Upload(string(path))
		}
		switch {
		case path == PathDropZone:
			t.logActivity(ctx, models.ActivityUpload, fmt.Sprintf("%d file(s) uploaded", n))
		case replace:
			t.logActivity(ctx, models.ActivityUpload, "Document replaced: "+category)
		default:
			t.logActivity(ctx, models.ActivityUpload, "Document uploaded: "+category)
		}
	}
	return res, nil
}

// Files lists the legacy file entries.
func (t *Tracker) Files(ctx context.Context) ([]models.LegacyFile, error) {
	return t.files.List(ctx)
}

func (t *Tracker) validate(f *FileMeta, path UploadPath) error {
	if err := ValidateFile(f, path); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			t.deps.Metrics.Rejection(string(path), string(ve.Kind))
		}
		return err
	}
	return nil
}

func (t *Tracker) putBlob(ctx context.Context, f *FileMeta) (string, error) {
	if f.Data == nil || t.deps.Blobs == nil {
		return "", nil
	}
	ct := f.Type
	if ct == "" {
		ct = blob.DetectContentType(f.Name)
	}
	key := blob.NewKey(f.Name)
	if err := t.deps.Blobs.Put(ctx, key, f.Data, ct); err != nil {
		return "", fmt.Errorf("upload blob: %w", err)
	}
	return key, nil
}

func (t *Tracker) dropBlob(ctx context.Context, key string) {
	if key == "" || t.deps.Blobs == nil {
		return
	}
	if err := t.deps.Blobs.Delete(ctx, key); err != nil {
		log.Printf("Warning: tracker: delete blob %s: %v", key, err)
	}
}

func (t *Tracker) dropBlobs(ctx context.Context, keys []string) {
	for _, k := range keys {
		t.dropBlob(ctx, k)
	}
}

func (t *Tracker) logActivity(ctx context.Context, typ models.ActivityType, msg string) {
	if err := t.activity.Add(ctx, models.Activity{Type: typ, Message: msg}); err != nil {
		log.Printf("Warning: tracker: record activity for %s: %v", t.client.ID, err)
	}
}
