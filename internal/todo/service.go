package todo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tmvuong/todofile/internal/apperr"
	"github.com/tmvuong/todofile/internal/models"
	"github.com/tmvuong/todofile/internal/store"
	"github.com/tmvuong/todofile/internal/uuid"
)

// Service orchestrates todo operations over a persistence store. Every
// operation runs against a fully loaded snapshot of the collection;
// mutations follow a load/compute/save cycle and are serialized with a
// mutex so whole-collection writes never interleave within the process.
type Service struct {
	store     store.Store
	validator *Validator

	mu  sync.Mutex
	now func() time.Time
}

// NewService creates a Service over the given store.
func NewService(st store.Store) *Service {
	return &Service{
		store:     st,
		validator: NewValidator(),
		now:       time.Now,
	}
}

// ListOptions are the parameters of a list request.
type ListOptions struct {
	Criteria
	SortBy string
	Page   int
	Limit  int
}

// ListResult is one page of a filtered, sorted collection.
type ListResult struct {
	Todos      []models.Todo     `json:"todos"`
	Pagination models.Pagination `json:"pagination"`
}

// ImportResult summarizes a reconciled import batch.
type ImportResult struct {
	Processed  int                `json:"processed"`
	Imported   int                `json:"imported"`
	Duplicated int                `json:"duplicated"`
	Rejected   int                `json:"rejected"`
	Duplicates []DuplicateSummary `json:"duplicates"`
	Todos      []models.Todo      `json:"todos"`
}

// DeleteResult is a deleted record together with the attachment
// descriptors orphaned by the delete. Releasing the files is the upload
// collaborator's job; the service only reports them.
type DeleteResult struct {
	Todo     models.Todo
	Orphaned []models.Attachment
}

// List returns one page of the collection after applying filters and the
// requested sort order. A zero Page or Limit means the caller supplied
// nothing and takes the default; anything else out of range is rejected.
func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if opts.Page == 0 {
		opts.Page = 1
	}
	if opts.Limit == 0 {
		opts.Limit = DefaultPageSize
	}
	if msgs := ValidatePagination(opts.Page, opts.Limit); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	todos, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := ApplyFilters(todos, opts.Criteria)
	sorted := Sort(filtered, opts.SortBy)
	page, pagination := Paginate(sorted, opts.Page, opts.Limit)

	return &ListResult{Todos: page, Pagination: pagination}, nil
}

// Get returns the record with the given id.
func (s *Service) Get(ctx context.Context, id string) (*models.Todo, error) {
	todos, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	if i := indexOf(todos, id); i >= 0 {
		return &todos[i], nil
	}
	return nil, apperr.New(apperr.ErrNotFound, "todo not found")
}

// Create validates the request, builds the record and persists it.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Todo, error) {
	if msgs := s.validator.ValidateCreate(req); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	created := models.Todo{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Completed:   false,
		Priority:    NormalizePriority(req.Priority),
		DueDate:     cleanDueDate(req.DueDate),
		CreatedAt:   now,
		UpdatedAt:   now,
		Attachments: []models.Attachment{},
		EditHistory: []models.EditEntry{},
	}

	todos = append(todos, created)
	if err := s.store.SaveAll(ctx, todos); err != nil {
		return nil, err
	}

	return &created, nil
}

// Update validates the delta, appends the record's prior state to its
// edit history and applies the delta.
func (s *Service) Update(ctx context.Context, id string, changes models.TodoChanges) (*models.Todo, error) {
	if changes.IsEmpty() {
		return nil, apperr.Validation([]string{"no fields to update"})
	}
	if msgs := s.validator.ValidateUpdate(changes); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(todos, id)
	if i < 0 {
		return nil, apperr.New(apperr.ErrNotFound, "todo not found")
	}

	t := &todos[i]
	now := s.now()

	// Record the prior state before the delta touches anything.
	t.EditHistory = append(t.EditHistory, models.EditEntry{
		EditedAt: now,
		Changes:  changes,
		Previous: t.Snapshot(),
	})

	if changes.Title != nil {
		t.Title = strings.TrimSpace(*changes.Title)
	}
	if changes.Description != nil {
		t.Description = strings.TrimSpace(*changes.Description)
	}
	if changes.Priority != nil {
		t.Priority = NormalizePriority(*changes.Priority)
	}
	if changes.DueDate != nil {
		t.DueDate = cleanDueDate(changes.DueDate)
	}
	if changes.Completed != nil {
		t.Completed = *changes.Completed
	}
	t.Touch(now)

	if err := s.store.SaveAll(ctx, todos); err != nil {
		return nil, err
	}

	return t, nil
}

// Toggle flips the record's completion status.
func (s *Service) Toggle(ctx context.Context, id string) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(todos, id)
	if i < 0 {
		return nil, apperr.New(apperr.ErrNotFound, "todo not found")
	}

	todos[i].Completed = !todos[i].Completed
	todos[i].Touch(s.now())

	if err := s.store.SaveAll(ctx, todos); err != nil {
		return nil, err
	}

	return &todos[i], nil
}

// Delete removes the record and reports its attachments as orphaned.
func (s *Service) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(todos, id)
	if i < 0 {
		return nil, apperr.New(apperr.ErrNotFound, "todo not found")
	}

	deleted := todos[i]
	todos = append(todos[:i], todos[i+1:]...)

	if err := s.store.SaveAll(ctx, todos); err != nil {
		return nil, err
	}

	return &DeleteResult{Todo: deleted, Orphaned: deleted.Attachments}, nil
}

// Import decodes the payload, reconciles it against the stored baseline
// and persists the accepted records. Nothing is written when decoding or
// reconciliation fails.
func (s *Service) Import(ctx context.Context, payload []byte) (*ImportResult, error) {
	incoming, err := DecodeImportPayload(payload)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	result, err := Reconcile(incoming, existing)
	if err != nil {
		return nil, err
	}

	if len(result.Accepted) > 0 {
		if err := s.store.SaveAll(ctx, append(existing, result.Accepted...)); err != nil {
			return nil, err
		}
	}

	return &ImportResult{
		Processed:  result.Processed,
		Imported:   len(result.Accepted),
		Duplicated: len(result.Duplicates),
		Rejected:   result.Rejected,
		Duplicates: result.Duplicates,
		Todos:      result.Accepted,
	}, nil
}

// Export returns the full collection.
func (s *Service) Export(ctx context.Context) ([]models.Todo, error) {
	return s.store.LoadAll(ctx)
}

// Stats aggregates the full collection.
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	todos, err := s.store.LoadAll(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return CalculateStats(todos), nil
}

// AddAttachment appends an attachment descriptor to the record, assigning
// it an id and upload timestamp. The descriptor's file is owned by the
// upload collaborator; the service never touches raw bytes.
func (s *Service) AddAttachment(ctx context.Context, id string, att models.Attachment) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(todos, id)
	if i < 0 {
		return nil, apperr.New(apperr.ErrNotFound, "todo not found")
	}

	att.ID = uuid.New()
	att.UploadedAt = s.now()

	todos[i].Attachments = append(todos[i].Attachments, att)
	todos[i].Touch(s.now())

	if err := s.store.SaveAll(ctx, todos); err != nil {
		return nil, err
	}

	return &todos[i], nil
}

// RemoveAttachment removes an attachment descriptor from the record and
// returns it so the caller can release the stored file.
func (s *Service) RemoveAttachment(ctx context.Context, id, attachmentID string) (*models.Todo, *models.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	i := indexOf(todos, id)
	if i < 0 {
		return nil, nil, apperr.New(apperr.ErrNotFound, "todo not found")
	}

	t := &todos[i]
	for j := range t.Attachments {
		if t.Attachments[j].ID != attachmentID {
			continue
		}

		removed := t.Attachments[j]
		t.Attachments = append(t.Attachments[:j], t.Attachments[j+1:]...)
		t.Touch(s.now())

		if err := s.store.SaveAll(ctx, todos); err != nil {
			return nil, nil, err
		}
		return t, &removed, nil
	}

	return nil, nil, apperr.New(apperr.ErrNotFound, "attachment not found")
}

// indexOf returns the position of the record with the given id, or -1.
func indexOf(todos []models.Todo, id string) int {
	for i := range todos {
		if todos[i].ID == id {
			return i
		}
	}
	return -1
}

// cleanDueDate maps an absent or blank due date to null.
func cleanDueDate(due *string) *string {
	if due == nil || strings.TrimSpace(*due) == "" {
		return nil
	}
	v := strings.TrimSpace(*due)
	return &v
}
