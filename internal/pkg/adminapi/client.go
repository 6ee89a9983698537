// Package adminapi is the typed HTTP client of the content API.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/campusgrid/cms-core/internal/pkg/contentkey"
	"go.uber.org/zap"
)

const DefaultTimeout = 15 * time.Second

// APIError is a failed call. Message is the backend's own message when it
// sent one, and empty otherwise.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// MessageOf returns the backend message carried by err, if any.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	token   string
	hc      *http.Client
	log     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a client for baseURL (e.g. http://host/api/v1) authenticating
// with a bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		hc:      &http.Client{Timeout: DefaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentPath is the API path of the record addressed by key.
func ContentPath(key contentkey.Key) string {
	esc := url.PathEscape
	switch key.Scope {
	case contentkey.ScopeCollege:
		return path.Join("/colleges", esc(key.CollegeID), "content", esc(key.Section))
	case contentkey.ScopeCourse:
		return path.Join("/course-types", esc(key.CourseType), "content")
	case contentkey.ScopeLocation:
		return path.Join("/course-types", esc(key.CourseType), "locations", esc(key.LocationType), esc(key.LocationSlug), "content")
	}
	return ""
}

// GetContent returns the record under key, or nil when there is none.
func (c *Client) GetContent(ctx context.Context, key contentkey.Key) (*Record, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	var out struct {
		Content *Record `json:"content"`
	}
	if err := c.do(ctx, http.MethodGet, ContentPath(key), nil, &out); err != nil {
		return nil, err
	}
	return out.Content, nil
}

// CreateContent stores a new record; the API answers 409 when key is taken.
func (c *Client) CreateContent(ctx context.Context, key contentkey.Key, req SaveRequest) (*Record, error) {
	return c.save(ctx, http.MethodPost, key, req)
}

// UpdateContent upserts the record under key.
func (c *Client) UpdateContent(ctx context.Context, key contentkey.Key, req SaveRequest) (*Record, error) {
	return c.save(ctx, http.MethodPut, key, req)
}

func (c *Client) save(ctx context.Context, method string, key contentkey.Key, req SaveRequest) (*Record, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if req.Banners == nil {
		req.Banners = []Banner{}
	}
	var out struct {
		Content *Record `json:"content"`
	}
	if err := c.do(ctx, method, ContentPath(key), req, &out); err != nil {
		return nil, err
	}
	return out.Content, nil
}

func (c *Client) Authors(ctx context.Context) ([]Author, error) {
	list, err := getList[Author](ctx, c, "/authors")
	return list.Items, err
}

// CourseTypes lists course types; an empty status lists all.
func (c *Client) CourseTypes(ctx context.Context, status string) ([]CourseType, error) {
	q := url.Values{"size": {"200"}}
	if status != "" {
		q.Set("status", status)
	}
	list, err := getList[CourseType](ctx, c, "/course-types?"+q.Encode())
	return list.Items, err
}

func (c *Client) AvailableLocations(ctx context.Context, courseType string) (*Locations, error) {
	var out Locations
	if err := c.do(ctx, http.MethodGet, "/course-types/"+url.PathEscape(courseType)+"/available-locations", nil, &out); err != nil {
		return nil, err
	}
	if out.Cities == nil {
		out.Cities = []LocationSummary{}
	}
	if out.States == nil {
		out.States = []LocationSummary{}
	}
	return &out, nil
}

func (c *Client) College(ctx context.Context, id string) (*College, error) {
	var out College
	if err := c.do(ctx, http.MethodGet, "/colleges/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadBanner posts an image as multipart field "file" and returns its URL.
func (c *Client) UploadBanner(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload/banner", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out struct {
		URL string `json:"url"`
	}
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", &APIError{Status: http.StatusOK, Message: "upload returned no url"}
	}
	return out.URL, nil
}

func getList[T any](ctx context.Context, c *Client, p string) (List[T], error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, p, nil, &raw); err != nil {
		return List[T]{Items: []T{}}, err
	}
	return DecodeList[T](raw)
}

func (c *Client) do(ctx context.Context, method, p string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, p, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, p string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+p, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out interface{}) error {
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.log.Debug("api call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return err
	}
	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || (decodeErr == nil && !env.Success) {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if rm, ok := out.(*json.RawMessage); ok {
		*rm = env.Data
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
