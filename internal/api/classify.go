package api

import (
	"errors"
	"net/http"

	"github.com/tidwall/gjson"
)

// Messages returned by HandleError.
const (
	MsgNotFound    = "データが見つかりません"
	MsgBadRequest  = "入力データに問題があります"
	MsgServerError = "サーバーエラーが発生しました"
	MsgNetwork     = "ネットワークエラーが発生しました"
	MsgUnexpected  = "予期しないエラーが発生しました"
)

// HandleError turns a failed call into a message for the user. The first
// matching rule wins: a non-empty "detail" in the error payload, then the
// 404, 400 and 500 statuses, then transport failures with no response.
// Anything else is unexpected. A nil error yields "".
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var (
		status  int
		payload []byte
	)
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.StatusCode
		payload = httpErr.Payload
	}

	if detail, ok := Detail(payload); ok {
		return detail
	}

	switch {
	case status == http.StatusNotFound:
		return MsgNotFound
	case status == http.StatusBadRequest:
		return MsgBadRequest
	case status == http.StatusInternalServerError:
		return MsgServerError
	case status == 0 && !errors.Is(err, ErrUnexpected):
		return MsgNetwork
	default:
		return MsgUnexpected
	}
}

// Detail extracts the "detail" field of a JSON error payload. Strings are
// returned verbatim, other values as their raw JSON. Missing, null, false,
// zero and empty values count as absent.
func Detail(payload []byte) (string, bool) {
	if len(payload) == 0 || !gjson.ValidBytes(payload) {
		return "", false
	}

	r := gjson.GetBytes(payload, "detail")
	switch r.Type {
	case gjson.String:
		return r.Str, r.Str != ""
	case gjson.Number:
		return r.Raw, r.Num != 0
	case gjson.True, gjson.JSON:
		return r.Raw, true
	default:
		return "", false
	}
}
