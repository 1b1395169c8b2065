package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/astra-bc/kansatsu/internal/core/record"
)

// Plants lists the observed plants in display order.
func (c *Client) Plants(ctx context.Context) ([]record.Plant, error) {
	return call[[]record.Plant](ctx, c, "/plants", Options{})
}

// Records lists every saved record, newest first.
func (c *Client) Records(ctx context.Context) ([]record.Record, error) {
	return call[[]record.Record](ctx, c, "/records", Options{})
}

// TodayRecord reports whether a record exists for today. forceDate
// (YYYY-MM-DD) overrides the server's notion of today when set.
func (c *Client) TodayRecord(ctx context.Context, forceDate string) (record.Today, error) {
	opts := Options{}
	if forceDate != "" {
		opts.Query = url.Values{"force_date": {forceDate}}
	}
	return call[record.Today](ctx, c, "/records/today", opts)
}

// Record fetches a single record.
func (c *Client) Record(ctx context.Context, id int64) (record.Record, error) {
	return call[record.Record](ctx, c, "/records/"+record.FormatID(id), Options{})
}

// CreateRecord saves a new record.
func (c *Client) CreateRecord(ctx context.Context, in record.Input) (record.Saved, error) {
	return call[record.Saved](ctx, c, "/records", Options{Method: http.MethodPost, Body: in})
}

// UpdateRecord replaces an existing record.
func (c *Client) UpdateRecord(ctx context.Context, id int64, in record.Input) (record.Saved, error) {
	return call[record.Saved](ctx, c, "/records/"+record.FormatID(id), Options{Method: http.MethodPut, Body: in})
}

// DeleteRecord removes a record.
func (c *Client) DeleteRecord(ctx context.Context, id int64) (record.Saved, error) {
	return call[record.Saved](ctx, c, "/records/"+record.FormatID(id), Options{Method: http.MethodDelete})
}

// Upload sends the image at path and returns the stored filename.
func (c *Client) Upload(ctx context.Context, path string) (record.Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return record.Upload{}, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	res := c.UploadImage(ctx, filepath.Base(path), f)
	return decode[record.Upload](res)
}

// ImageURL returns the URL an uploaded image is served from.
func (c *Client) ImageURL(filename string) string {
	return c.URL("/images/" + url.PathEscape(filename))
}

func call[T any](ctx context.Context, c *Client, path string, opts Options) (T, error) {
	return decode[T](c.Call(ctx, path, opts))
}

func decode[T any](res Result) (T, error) {
	var v T
	if !res.OK() {
		return v, res.Err()
	}
	if err := res.Decode(&v); err != nil {
		return v, &CallError{Message: MsgUnexpected, Status: res.Status, Err: err}
	}
	return v, nil
}
