// Package resolver loads the content record behind a composite key into an
// editable form and saves it back under an explicit status.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/campusgrid/cms-core/internal/modules/banner"
	"github.com/campusgrid/cms-core/internal/modules/notify"
	"github.com/campusgrid/cms-core/internal/pkg/adminapi"
	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
	"go.uber.org/zap"
)

var (
	ErrSaveInProgress = errors.New("a save is already in progress")
	ErrNotLoaded      = errors.New("nothing loaded, call Load first")
	ErrValidation     = errors.New("invalid form")
	ErrUnknownField   = errors.New("unknown form field")
)

const saveFailedMessage = "Failed to save content"

const (
	FieldTitle           = "title"
	FieldBody            = "body"
	FieldAuthor          = "author_id"
	FieldMetaTitle       = "meta_title"
	FieldMetaDescription = "meta_description"
)

// API is the content part of the REST collaborator.
type API interface {
	GetContent(ctx context.Context, key contentkey.Key) (*adminapi.Record, error)
	CreateContent(ctx context.Context, key contentkey.Key, req adminapi.SaveRequest) (*adminapi.Record, error)
	UpdateContent(ctx context.Context, key contentkey.Key, req adminapi.SaveRequest) (*adminapi.Record, error)
}

// Session is the acting operator.
type Session struct {
	UserID      string
	AuthorID    string
	DisplayName string
}

// Form is the editable state. Every field is a plain value; absent record
// fields load as "" and an absent banner list as an empty slice.
type Form struct {
	Title           string
	Body            string
	AuthorID        string
	MetaTitle       string
	MetaDescription string
	Banners         []adminapi.Banner
}

func (f Form) clone() Form {
	f.Banners = append([]adminapi.Banner{}, f.Banners...)
	return f
}

// LoadResult is Found, NotFound or Invalid.
type LoadResult interface{ loadResult() }

type Found struct{ Record adminapi.Record }

type NotFound struct{}

// Invalid is returned for a key that cannot address a record. Nothing is
// fetched and the loaded state is left as it was.
type Invalid struct{ Err error }

func (Found) loadResult()    {}
func (Invalid) loadResult()  {}
func (NotFound) loadResult() {}

type Resolver struct {
	api      API
	variant  Variant
	session  Session
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
	banners  *banner.Editor

	mu          sync.Mutex
	key         contentkey.Key
	result      LoadResult
	form        Form
	status      adminapi.Status
	lastSaved   time.Time
	lastSavedBy string
	saving      bool
}

type Option func(*Resolver)

func WithSession(s Session) Option {
	return func(r *Resolver) { r.session = s }
}

func WithNotifier(n notify.Notifier) Option {
	return func(r *Resolver) { r.notifier = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// New builds a resolver for one editor panel. up backs the banner editor.
func New(api API, up banner.Uploader, variant Variant, opts ...Option) *Resolver {
	r := &Resolver{
		api:      api,
		variant:  variant,
		notifier: notify.Discard,
		log:      zap.NewNop(),
		now:      time.Now,
		status:   adminapi.StatusDraft,
		form:     Form{Banners: []adminapi.Banner{}},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.banners = banner.New(up, banner.WithNotifier(r.notifier), banner.WithOnChange(r.setBanners))
	return r
}

// Load fetches the record under key. Any failure to fetch, including a
// transport error, is NotFound and seeds the variant defaults. An incomplete
// key is Invalid.
func (r *Resolver) Load(ctx context.Context, key contentkey.Key) LoadResult {
	if err := key.Validate(); err != nil {
		r.log.Warn("refusing to load incomplete key", zap.String("key", key.String()), zap.Error(err))
		return Invalid{Err: err}
	}
	rec, err := r.api.GetContent(ctx, key)
	if err != nil {
		r.log.Debug("content fetch failed, starting from defaults", zap.String("key", key.String()), zap.Error(err))
	}

	r.mu.Lock()
	r.key = key
	if err != nil || rec == nil {
		r.result = NotFound{}
		r.form = Form{Title: r.variant.DefaultTitle(), Banners: []adminapi.Banner{}}
		r.status = adminapi.StatusDraft
		r.lastSaved = time.Time{}
		r.lastSavedBy = ""
	} else {
		r.result = Found{Record: *rec}
		r.form = formFromRecord(rec)
		r.status = rec.Status
		if r.status == "" {
			r.status = adminapi.StatusDraft
		}
		r.lastSaved = rec.UpdatedAt
		r.lastSavedBy = rec.AuthorName
	}
	result := r.result
	banners := r.form.Banners
	r.mu.Unlock()

	r.banners.Reset(banners)
	return result
}

func formFromRecord(rec *adminapi.Record) Form {
	f := Form{
		Title:           rec.Title,
		Body:            rec.Content,
		MetaTitle:       rec.MetaTitle,
		MetaDescription: rec.MetaDescription,
		Banners:         append([]adminapi.Banner{}, rec.Banners...),
	}
	if rec.AuthorID != nil {
		f.AuthorID = *rec.AuthorID
	}
	return f
}

// UpdateField changes one text field of the form. Banners go through Banners().
func (r *Resolver) UpdateField(field, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch field {
	case FieldTitle:
		r.form.Title = value
	case FieldBody:
		r.form.Body = value
	case FieldAuthor:
		r.form.AuthorID = value
	case FieldMetaTitle:
		r.form.MetaTitle = value
	case FieldMetaDescription:
		r.form.MetaDescription = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// BodyOnChange is the onChange callback to hand to the rich text editor.
func (r *Resolver) BodyOnChange() func(string) {
	return func(html string) { _ = r.UpdateField(FieldBody, html) }
}

func (r *Resolver) setBanners(items []adminapi.Banner) {
	r.mu.Lock()
	r.form.Banners = items
	r.mu.Unlock()
}

// Banners is the banner sub-editor bound to this form.
func (r *Resolver) Banners() *banner.Editor { return r.banners }

// Save validates the form and writes it under status. Found records are
// updated, NotFound ones created. On failure the form is left untouched.
func (r *Resolver) Save(ctx context.Context, status adminapi.Status) error {
	r.mu.Lock()
	if r.saving {
		r.mu.Unlock()
		return ErrSaveInProgress
	}
	if r.result == nil {
		r.mu.Unlock()
		return ErrNotLoaded
	}
	if err := r.variant.Validate(r.form); err != nil {
		r.mu.Unlock()
		r.notifier.Error(validationMessage(err))
		return err
	}
	form := r.form.clone()
	if form.AuthorID == "" && r.session.AuthorID != "" {
		form.AuthorID = r.session.AuthorID
	}
	key := r.key
	_, exists := r.result.(Found)
	req := saveRequest(form, status)
	r.saving = true
	r.mu.Unlock()

	rec, err := r.persist(ctx, key, exists, req)

	r.mu.Lock()
	r.saving = false
	if err != nil {
		r.mu.Unlock()
		msg := adminapi.MessageOf(err)
		if msg == "" {
			msg = saveFailedMessage
		}
		r.log.Warn("content save failed", zap.String("key", key.String()), zap.Error(err))
		r.notifier.Error(msg)
		return err
	}
	if rec != nil {
		r.result = Found{Record: *rec}
	} else {
		r.result = Found{Record: adminapi.Record{Title: req.Title, Content: req.Content, Status: status}}
	}
	if r.form.AuthorID == "" {
		r.form.AuthorID = form.AuthorID
	}
	r.status = status
	r.lastSaved = r.now()
	r.lastSavedBy = r.session.DisplayName
	if rec != nil && rec.AuthorName != "" {
		r.lastSavedBy = rec.AuthorName
	}
	r.mu.Unlock()

	if status == adminapi.StatusPublished {
		r.notifier.Success("Published")
	} else {
		r.notifier.Success("Draft saved")
	}
	return nil
}

// persist branches on the loaded flag. A create that loses a race to
// another session is retried as an update.
func (r *Resolver) persist(ctx context.Context, key contentkey.Key, exists bool, req adminapi.SaveRequest) (*adminapi.Record, error) {
	if exists {
		return r.api.UpdateContent(ctx, key, req)
	}
	rec, err := r.api.CreateContent(ctx, key, req)
	var apiErr *adminapi.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		r.log.Info("content created elsewhere meanwhile, updating instead", zap.String("key", key.String()))
		return r.api.UpdateContent(ctx, key, req)
	}
	return rec, err
}

func saveRequest(f Form, status adminapi.Status) adminapi.SaveRequest {
	req := adminapi.SaveRequest{
		Title:           f.Title,
		Content:         f.Body,
		MetaTitle:       f.MetaTitle,
		MetaDescription: f.MetaDescription,
		Banners:         append([]adminapi.Banner{}, f.Banners...),
		Status:          status,
	}
	if f.AuthorID != "" {
		id := f.AuthorID
		req.AuthorID = &id
	}
	return req
}

func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}

// Form returns a copy of the current form.
func (r *Resolver) Form() Form {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.form.clone()
}

// Result is the tag of the last Load or successful Save, nil before Load.
func (r *Resolver) Result() LoadResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

func (r *Resolver) Key() contentkey.Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.key
}

// StatusBadge is "Published" or "Draft".
func (r *Resolver) StatusBadge() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == adminapi.StatusPublished {
		return "Published"
	}
	return "Draft"
}

// LastSaved reports when and by whom the record was last written.
func (r *Resolver) LastSaved() (time.Time, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSaved, r.lastSavedBy
}

func (r *Resolver) Saving() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saving
}

// CanSave mirrors the enabled state of the Save Draft and Publish controls.
func (r *Resolver) CanSave() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result != nil && !r.saving && r.variant.Validate(r.form) == nil
}

// Reset clears the form and forgets the loaded record.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.key = contentkey.Key{}
	r.result = nil
	r.form = Form{Banners: []adminapi.Banner{}}
	r.status = adminapi.StatusDraft
	r.lastSaved = time.Time{}
	r.lastSavedBy = ""
	r.mu.Unlock()
	r.banners.Reset(nil)
}

// SetVariant swaps the defaults used by the next NotFound load.
func (r *Resolver) SetVariant(v Variant) {
	r.mu.Lock()
	r.variant = v
	r.mu.Unlock()
}
