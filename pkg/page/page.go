package page

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	ErrSubmitInProgress   = errors.New("a submit is already in progress")
	ErrDeleteNotConfirmed = errors.New("deletion was not confirmed")
	ErrEditorClosed       = errors.New("editor is not open")
)

const DefaultPageSize = 10

// Form is the typed editor state of a record.
type Form[R any] interface {
	Validate() error
	// Record builds the record the form describes.
	Record() (R, error)
}

// Resource is the remote collection a page manages.
type Resource[R any] interface {
	List(ctx context.Context) ([]R, error)
	Create(ctx context.Context, record R) (R, error)
	Update(ctx context.Context, record R) (R, error)
	Delete(ctx context.Context, id int) error
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

type Editor[F any] struct {
	Form F
	// Editing is true when the form edits an existing record, false when it creates one.
	Editing bool
}

// Page is a list of records with an editor, delete confirmation and client side pagination.
// All methods are safe for concurrent use.
type Page[R any, F Form[R]] struct {
	name     string
	resource Resource[R]
	formOf   func(R) F
	defaults func() F

	mu         sync.Mutex
	records    []R
	editor     *Editor[F]
	err        error
	loading    bool
	submitting bool
	page       int
	pageSize   int
}

// New creates a page. formOf fills the editor from an existing record, defaults from nothing.
func New[R any, F Form[R]](name string, resource Resource[R], formOf func(R) F, defaults func() F) *Page[R, F] {
	return &Page[R, F]{
		name:     name,
		resource: resource,
		formOf:   formOf,
		defaults: defaults,
		records:  []R{},
		pageSize: DefaultPageSize,
	}
}

// List fetches all records and replaces the stored ones.
func (p *Page[R, F]) List(ctx context.Context) error {
	p.mu.Lock()
	p.loading = true
	p.mu.Unlock()

	records, err := p.resource.List(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		p.err = fmt.Errorf("failed to load %s: %w", p.name, err)
		log.Debug(p.err)
		return p.err
	}
	if records == nil {
		records = []R{}
	}
	p.records = records
	p.err = nil
	return nil
}

func (p *Page[R, F]) Records() []R {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]R(nil), p.records...)
}

func (p *Page[R, F]) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// OpenEditor opens the editor for record, or for a new record when record is nil.
func (p *Page[R, F]) OpenEditor(record *R) Editor[F] {
	p.mu.Lock()
	defer p.mu.Unlock()
	if record != nil {
		p.editor = &Editor[F]{Form: p.formOf(*record), Editing: true}
	} else {
		p.editor = &Editor[F]{Form: p.defaults()}
	}
	return *p.editor
}

// Editor returns the open editor, if any.
func (p *Page[R, F]) Editor() (Editor[F], bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.editor == nil {
		return Editor[F]{}, false
	}
	return *p.editor, true
}

func (p *Page[R, F]) CloseEditor() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.editor = nil
}

// Submit validates form and creates or updates the record of the open editor. On success the
// editor is closed and the list refetched. On failure the editor stays open and the error is kept
// until dismissed.
func (p *Page[R, F]) Submit(ctx context.Context, form F) error {
	p.mu.Lock()
	if p.submitting {
		p.mu.Unlock()
		return ErrSubmitInProgress
	}
	if p.editor == nil {
		p.mu.Unlock()
		return ErrEditorClosed
	}
	editing := p.editor.Editing
	p.editor.Form = form
	p.submitting = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.submitting = false
		p.mu.Unlock()
	}()

	if err := form.Validate(); err != nil {
		return p.fail(err)
	}
	record, err := form.Record()
	if err != nil {
		return p.fail(err)
	}
	if editing {
		_, err = p.resource.Update(ctx, record)
	} else {
		_, err = p.resource.Create(ctx, record)
	}
	if err != nil {
		return p.fail(fmt.Errorf("failed to save %s: %w", p.name, err))
	}

	p.mu.Lock()
	p.editor = nil
	p.err = nil
	p.mu.Unlock()
	return p.List(ctx)
}

// Delete removes the record once confirmer agrees. Without confirmation nothing is sent.
func (p *Page[R, F]) Delete(ctx context.Context, id int, confirmer Confirmer) error {
	confirmed, err := confirmer.Confirm(ctx, fmt.Sprintf("Are you sure you want to delete this %s?", p.name))
	if err != nil {
		return p.fail(err)
	}
	if !confirmed {
		return ErrDeleteNotConfirmed
	}
	if err := p.resource.Delete(ctx, id); err != nil {
		return p.fail(fmt.Errorf("failed to delete %s: %w", p.name, err))
	}
	return p.List(ctx)
}

// Err is the last failure, until dismissed or a later success clears it.
func (p *Page[R, F]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Page[R, F]) DismissError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = nil
}

func (p *Page[R, F]) fail(err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	return err
}

func (p *Page[R, F]) SetPage(page int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = max(page, 0)
}

// SetPageSize changes the number of records per page and goes back to the first page.
func (p *Page[R, F]) SetPageSize(size int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if size <= 0 {
		size = DefaultPageSize
	}
	p.pageSize = size
	p.page = 0
}

func (p *Page[R, F]) CurrentPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func (p *Page[R, F]) PageSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageSize
}

func (p *Page[R, F]) PageCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return (len(p.records) + p.pageSize - 1) / p.pageSize
}

// Visible returns the records of the current page.
func (p *Page[R, F]) Visible() []R {
	p.mu.Lock()
	defer p.mu.Unlock()
	start := p.page * p.pageSize
	if start >= len(p.records) {
		return []R{}
	}
	end := min(start+p.pageSize, len(p.records))
	return append([]R(nil), p.records[start:end]...)
}
