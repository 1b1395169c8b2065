package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"detail wins over 404", newHTTPError(404, []byte(`{"detail":"植物が見つかりません"}`)), "植物が見つかりません"},
		{"detail wins over 500", newHTTPError(500, []byte(`{"detail":"DB locked"}`)), "DB locked"},
		{"object detail", newHTTPError(400, []byte(`{"detail":{"message":"既に記録があります","existing_record_id":3}}`)), `{"message":"既に記録があります","existing_record_id":3}`},
		{"empty detail falls through", newHTTPError(404, []byte(`{"detail":""}`)), MsgNotFound},
		{"null detail falls through", newHTTPError(400, []byte(`{"detail":null}`)), MsgBadRequest},
		{"not found", newHTTPError(404, nil), MsgNotFound},
		{"bad request", newHTTPError(400, []byte("oops")), MsgBadRequest},
		{"server error", newHTTPError(500, []byte("<html>")), MsgServerError},
		{"other status", newHTTPError(418, nil), MsgUnexpected},
		{"bad gateway", newHTTPError(502, nil), MsgUnexpected},
		{"transport", errors.New("dial tcp: connection refused"), MsgNetwork},
		{"wrapped http error", fmt.Errorf("call: %w", newHTTPError(404, nil)), MsgNotFound},
		{"unexpected", fmt.Errorf("%w: response is not valid JSON", ErrUnexpected), MsgUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HandleError(tt.err))
		})
	}
}

func TestDetail(t *testing.T) {
	tests := []struct {
		payload string
		want    string
		ok      bool
	}{
		{`{"detail":"x"}`, "x", true},
		{`{"detail":["a","b"]}`, `["a","b"]`, true},
		{`{"detail":42}`, "42", true},
		{`{"detail":0}`, "", false},
		{`{"detail":false}`, "", false},
		{`{"other":"x"}`, "", false},
		{`not json`, "", false},
		{``, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got, ok := Detail([]byte(tt.payload))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsStatus(t *testing.T) {
	err := fmt.Errorf("wrap: %w", newHTTPError(404, nil))
	assert.True(t, IsStatus(err, 404))
	assert.False(t, IsStatus(err, 500))
	assert.False(t, IsStatus(errors.New("plain"), 404))
}
