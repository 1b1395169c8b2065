package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astra-bc/kansatsu/internal/core/record"
)

func newTestServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, New(srv.URL+"/api/", WithTimeout(5*time.Second))
}

func TestClient_Call_success(t *testing.T) {
	var got *http.Request
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`[{"id":1,"name":"向日葵（ひまわり）","display_order":1}]`))
	})

	res := client.Call(context.Background(), "/api/api/plants", Options{})

	require.True(t, res.OK(), res.Error)
	assert.JSONEq(t, `[{"id":1,"name":"向日葵（ひまわり）","display_order":1}]`, string(res.Data))
	assert.Equal(t, http.StatusOK, res.Status)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/plants", got.URL.Path)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))
}

func TestClient_Call_options(t *testing.T) {
	var (
		method, contentType, custom, query string
		body                               []byte
	)
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		custom = r.Header.Get("X-Custom")
		query = r.URL.Query().Get("force_date")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	})

	res := client.Call(context.Background(), "records", Options{
		Method:  http.MethodPost,
		Headers: map[string]string{"Content-Type": "application/merge-patch+json", "X-Custom": "yes"},
		Body:    map[string]any{"weather": "sunny"},
		Query:   map[string][]string{"force_date": {"2024-05-01"}},
	})

	require.True(t, res.OK(), res.Error)
	assert.Equal(t, json.RawMessage("null"), res.Data)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/merge-patch+json", contentType)
	assert.Equal(t, "yes", custom)
	assert.Equal(t, "2024-05-01", query)
	assert.JSONEq(t, `{"weather":"sunny"}`, string(body))
}

func TestClient_Call_errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail", http.StatusNotFound, `{"detail":"記録が見つかりません"}`, "記録が見つかりません"},
		{"object detail", http.StatusBadRequest, `{"detail":{"message":"既に記録があります"}}`, `{"message":"既に記録があります"}`},
		{"not found", http.StatusNotFound, ``, MsgNotFound},
		{"bad request", http.StatusBadRequest, `{}`, MsgBadRequest},
		{"server", http.StatusInternalServerError, `Internal Server Error`, MsgServerError},
		{"unclassified", http.StatusServiceUnavailable, ``, MsgUnexpected},
		{"invalid json", http.StatusOK, `<html>`, MsgUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			res := client.Call(context.Background(), "/records/9", Options{})

			assert.False(t, res.OK())
			assert.Nil(t, res.Data)
			assert.Equal(t, tt.want, res.Error)
			assert.Equal(t, tt.status, res.Status)
		})
	}
}

func TestClient_Call_network_error(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := New(srv.URL + "/api")
	srv.Close()

	res := client.Call(context.Background(), "/plants", Options{})

	assert.Equal(t, MsgNetwork, res.Error)
	assert.Nil(t, res.Data)
	assert.Equal(t, 0, res.Status)
}

func TestClient_Call_unencodable_body(t *testing.T) {
	client := New("http://127.0.0.1:1/api")

	res := client.Call(context.Background(), "/records", Options{Method: http.MethodPost, Body: func() {}})

	assert.Equal(t, MsgUnexpected, res.Error)
}

func TestClient_UploadImage(t *testing.T) {
	var (
		path, partType, filename, content, reqType string
	)
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		reqType = r.Header.Get("Content-Type")

		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)

		filename = hdr.Filename
		partType = hdr.Header.Get("Content-Type")
		content = string(data)
		_, _ = w.Write([]byte(`{"filename":"abc.png","url":"/api/images/abc.png"}`))
	})

	res := client.UploadImage(context.Background(), "leaf.png", strings.NewReader("png-bytes"))

	require.True(t, res.OK(), res.Error)
	assert.Equal(t, "/api/upload/image", path)
	assert.True(t, strings.HasPrefix(reqType, "multipart/form-data"), reqType)
	assert.Equal(t, "leaf.png", filename)
	assert.Equal(t, "image/png", partType)
	assert.Equal(t, "png-bytes", content)

	var up record.Upload
	require.NoError(t, res.Decode(&up))
	assert.Equal(t, "abc.png", up.Filename)
}

func TestClient_UploadImage_sniffs_type(t *testing.T) {
	var partType string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, hdr, err := r.FormFile("file")
		if err == nil {
			partType = hdr.Header.Get("Content-Type")
		}
		_, _ = w.Write([]byte(`{}`))
	})

	gif := "GIF89a\x01\x00\x01\x00"
	res := client.UploadImage(context.Background(), "noext", strings.NewReader(gif))

	require.True(t, res.OK(), res.Error)
	assert.Equal(t, "image/gif", partType)
}

func TestClient_typed_endpoints(t *testing.T) {
	var (
		lastMethod, lastPath, lastQuery string
		lastBody                        []byte
	)
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		lastMethod, lastPath, lastQuery = r.Method, r.URL.Path, r.URL.RawQuery
		lastBody, _ = io.ReadAll(r.Body)

		switch {
		case r.URL.Path == "/api/plants":
			_, _ = w.Write([]byte(`[{"id":1,"name":"向日葵（ひまわり）","display_order":1},{"id":2,"name":"秋桜（コスモス）","display_order":2}]`))
		case r.URL.Path == "/api/records/today":
			_, _ = w.Write([]byte(`{"exists":false}`))
		case r.URL.Path == "/api/records" && r.Method == http.MethodPost:
			_, _ = w.Write([]byte(`{"message":"記録を保存しました","id":12}`))
		case r.URL.Path == "/api/records/12" && r.Method == http.MethodDelete:
			_, _ = w.Write([]byte(`{"message":"記録を削除しました"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"記録が見つかりません"}`))
		}
	})
	ctx := context.Background()

	plants, err := client.Plants(ctx)
	require.NoError(t, err)
	require.Len(t, plants, 2)
	assert.Equal(t, "秋桜（コスモス）", plants[1].Name)

	today, err := client.TodayRecord(ctx, "2024-05-01")
	require.NoError(t, err)
	assert.False(t, today.Exists)
	assert.Equal(t, "force_date=2024-05-01", lastQuery)

	saved, err := client.CreateRecord(ctx, record.Input{
		Weather:      record.WeatherSunny,
		Temperature:  22.5,
		PlantRecords: map[string]record.PlantInput{"1": {Height: "10"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), saved.ID)
	assert.Equal(t, http.MethodPost, lastMethod)
	assert.JSONEq(t, `{"weather":"sunny","temperature":22.5,"plantRecords":{"1":{"height":"10"}}}`, string(lastBody))

	deleted, err := client.DeleteRecord(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, "記録を削除しました", deleted.Message)

	_, err = client.Record(ctx, 99)
	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "記録が見つかりません", callErr.Message)
	assert.Equal(t, http.StatusNotFound, callErr.Status)
	assert.Equal(t, "/api/records/99", lastPath)
}

func TestClient_typed_endpoint_decode_error(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	})

	_, err := client.Records(context.Background())

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, MsgUnexpected, callErr.Message)
	assert.Error(t, errors.Unwrap(callErr))
}

func TestClient_Upload_file(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"filename":"stored.jpg","url":"/api/images/stored.jpg"}`))
	})

	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xd8, 0xff}, 0o644))

	up, err := client.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "stored.jpg", up.Filename)

	_, err = client.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}

func TestClient_ImageURL(t *testing.T) {
	client := New("http://host/api/api")
	assert.Equal(t, "http://host/api/images/a%20b.png", client.ImageURL("a b.png"))
	assert.Equal(t, "http://host/api", client.Base())
}

func TestWithTimeout_keeps_shared_client(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	client := New("http://host/api", WithHTTPClient(shared), WithTimeout(time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, time.Second, client.http.Timeout)
	assert.NotSame(t, shared, client.http)
}
