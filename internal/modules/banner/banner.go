// Package banner manages the ordered, capped banner list of a content form.
package banner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/campusgrid/cms-core/internal/modules/notify"
	"github.com/campusgrid/cms-core/internal/pkg/adminapi"
)

const MaxItems = 3

var (
	ErrBannerLimit  = fmt.Errorf("at most %d banners are allowed", MaxItems)
	ErrUnknownID    = errors.New("no banner with that id")
	ErrUnknownField = errors.New("banner field must be alt or href")
	ErrUploading    = errors.New("an upload is already in progress")
)

const (
	FieldAlt  = "alt"
	FieldHref = "href"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	UploadBanner(ctx context.Context, filename string, r io.Reader) (string, error)
}

type Editor struct {
	mu        sync.Mutex
	items     []adminapi.Banner
	up        Uploader
	notifier  notify.Notifier
	onChange  func([]adminapi.Banner)
	now       func() time.Time
	lastID    int64
	uploading bool
}

type Option func(*Editor)

func WithNotifier(n notify.Notifier) Option {
	return func(e *Editor) { e.notifier = n }
}

// WithOnChange is called with a copy of the list after every mutation.
func WithOnChange(fn func([]adminapi.Banner)) Option {
	return func(e *Editor) { e.onChange = fn }
}

func New(up Uploader, opts ...Option) *Editor {
	e := &Editor{up: up, notifier: notify.Discard, now: time.Now, items: []adminapi.Banner{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset replaces the list without firing onChange, e.g. after a load.
// Anything past the cap is dropped.
func (e *Editor) Reset(items []adminapi.Banner) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	e.items = append([]adminapi.Banner{}, items...)
	for _, it := range e.items {
		if n, err := strconv.ParseInt(it.ID, 10, 64); err == nil && n > e.lastID {
			e.lastID = n
		}
	}
}

func (e *Editor) Items() []adminapi.Banner {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]adminapi.Banner{}, e.items...)
}

// CanAdd is false once the list is full or while an upload runs.
func (e *Editor) CanAdd() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items) < MaxItems && !e.uploading
}

// Add uploads the image and appends a banner with empty alt and href.
// A full list is refused before anything is uploaded.
func (e *Editor) Add(ctx context.Context, filename string, r io.Reader) (adminapi.Banner, error) {
	e.mu.Lock()
	if len(e.items) >= MaxItems {
		e.mu.Unlock()
		return adminapi.Banner{}, ErrBannerLimit
	}
	if e.uploading {
		e.mu.Unlock()
		return adminapi.Banner{}, ErrUploading
	}
	e.uploading = true
	e.mu.Unlock()

	url, err := e.up.UploadBanner(ctx, filename, r)

	e.mu.Lock()
	e.uploading = false
	if err != nil {
		e.mu.Unlock()
		msg := adminapi.MessageOf(err)
		if msg == "" {
			msg = "Failed to upload image"
		}
		e.notifier.Error(msg)
		return adminapi.Banner{}, fmt.Errorf("upload banner: %w", err)
	}
	item := adminapi.Banner{ID: e.nextID(), Image: url}
	e.items = append(e.items, item)
	e.mu.Unlock()

	e.notifier.Success("Banner uploaded")
	e.emit()
	return item, nil
}

// Update sets alt or href of the banner with id.
func (e *Editor) Update(id, field, value string) error {
	e.mu.Lock()
	i := e.index(id)
	if i < 0 {
		e.mu.Unlock()
		return ErrUnknownID
	}
	switch field {
	case FieldAlt:
		e.items[i].Alt = value
	case FieldHref:
		e.items[i].Href = value
	default:
		e.mu.Unlock()
		return ErrUnknownField
	}
	e.mu.Unlock()
	e.emit()
	return nil
}

// Remove drops the banner with id. Other ids are left as they are.
func (e *Editor) Remove(id string) error {
	e.mu.Lock()
	i := e.index(id)
	if i < 0 {
		e.mu.Unlock()
		return ErrUnknownID
	}
	e.items = append(e.items[:i], e.items[i+1:]...)
	e.mu.Unlock()
	e.emit()
	return nil
}

func (e *Editor) index(id string) int {
	for i := range e.items {
		if e.items[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID is the current unix millisecond, bumped past the last id handed
// out so two adds in the same millisecond stay distinct. Caller holds mu.
func (e *Editor) nextID() string {
	id := e.now().UnixMilli()
	if id <= e.lastID {
		id = e.lastID + 1
	}
	e.lastID = id
	return strconv.FormatInt(id, 10)
}

func (e *Editor) emit() {
	if e.onChange != nil {
		e.onChange(e.Items())
	}
}
