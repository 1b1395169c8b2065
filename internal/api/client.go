// Package api wraps the plant-observation HTTP API. Every call resolves its
// URL against the configured base and folds failures into a user-facing
// message instead of returning Go errors.
package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/astra-bc/kansatsu/internal/core/logging"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "kansatsu/0.1"
	uploadPath       = "/upload/image"
	uploadField      = "file"
)

// Client talks to the observation API. It is safe for concurrent use.
type Client struct {
	base      string
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout. Zero disables it. The
// *http.Client is copied, so one passed to WithHTTPClient keeps its own.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// New builds a Client for base. The base is normalized once here.
func New(base string, opts ...Option) *Client {
	c := &Client{
		base:      NormalizeBase(base),
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		log:       logging.Component("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the normalized base URL.
func (c *Client) Base() string { return c.base }

// URL resolves path against the client's base.
func (c *Client) URL(path string) string { return ResolveURL(c.base, path) }

// Options describes a single request. Headers override the JSON content
// type default. A Body that is not an io.Reader, []byte or string is
// encoded as JSON.
type Options struct {
	Method  string
	Headers map[string]string
	Body    any
	Query   url.Values
}

// Result is the outcome of a call: Data on success, Error otherwise.
// Status is the HTTP status, or zero when no response arrived.
type Result struct {
	Data   json.RawMessage
	Error  string
	Status int
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Error == "" }

// Err returns nil on success and a *CallError otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &CallError{Message: r.Error, Status: r.Status}
}

// Decode unmarshals Data into v.
func (r Result) Decode(v any) error {
	if !r.OK() {
		return r.Err()
	}
	return json.Unmarshal(r.Data, v)
}

// Call sends a request to path and returns its result. It never returns an
// error; failures are classified with HandleError.
func (c *Client) Call(ctx context.Context, path string, opts Options) Result {
	ctx = logging.WithRequestID(ctx, uuid.NewString())

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	body, err := encodeBody(opts.Body)
	if err != nil {
		return c.fail(ctx, method, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, withQuery(c.URL(path), opts.Query), body)
	if err != nil {
		return c.fail(ctx, method, path, fmt.Errorf("%w: create request: %v", ErrUnexpected, err))
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	return c.send(ctx, req)
}

// UploadImage posts r as the multipart field "file" to /upload/image. The
// part content type comes from the file extension, falling back to content
// sniffing.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) Result {
	ctx = logging.WithRequestID(ctx, uuid.NewString())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	br := bufio.NewReaderSize(r, 512)
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		head, _ := br.Peek(512)
		contentType = http.DetectContentType(head)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", multipart.FileContentDisposition(uploadField, filepath.Base(filename)))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return c.fail(ctx, http.MethodPost, uploadPath, fmt.Errorf("%w: create part: %v", ErrUnexpected, err))
	}
	if _, err := io.Copy(part, br); err != nil {
		return c.fail(ctx, http.MethodPost, uploadPath, fmt.Errorf("%w: read %s: %v", ErrUnexpected, filename, err))
	}
	if err := mw.Close(); err != nil {
		return c.fail(ctx, http.MethodPost, uploadPath, fmt.Errorf("%w: close form: %v", ErrUnexpected, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(uploadPath), &buf)
	if err != nil {
		return c.fail(ctx, http.MethodPost, uploadPath, fmt.Errorf("%w: create request: %v", ErrUnexpected, err))
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(ctx, req)
}

func (c *Client) send(ctx context.Context, req *http.Request) Result {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", logging.GetRequestID(ctx))

	path := req.URL.Path
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(ctx, req.Method, path, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(ctx, req.Method, path, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(ctx, req.Method, path, newHTTPError(resp.StatusCode, payload))
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		payload = []byte("null")
	}
	if !json.Valid(payload) {
		res := c.fail(ctx, req.Method, path, fmt.Errorf("%w: response is not valid JSON", ErrUnexpected))
		res.Status = resp.StatusCode
		return res
	}

	c.log.Debug().Ctx(ctx).
		Str("method", req.Method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	return Result{Data: payload, Status: resp.StatusCode}
}

// fail classifies err and logs the details that the user message hides.
func (c *Client) fail(ctx context.Context, method, path string, err error) Result {
	msg := HandleError(err)

	var status int
	evt := c.log.Error().Ctx(ctx).Err(err).Str("method", method).Str("path", path)
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.StatusCode
		evt = evt.Int("status", status).Bytes("payload", httpErr.Payload)
	}
	evt.Str("user_message", msg).Msg("api call failed")

	return Result{Error: msg, Status: status}
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case io.Reader:
		return b, nil
	case []byte:
		return bytes.NewReader(b), nil
	case string:
		return strings.NewReader(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("%w: encode body: %v", ErrUnexpected, err)
		}
		return bytes.NewReader(data), nil
	}
}

func withQuery(u string, q url.Values) string {
	if len(q) == 0 {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + q.Encode()
}
