package iojson

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalError(t *testing.T) {
	out := MarshalError("bad input", map[string]any{"field": "weather"})

	var e Error
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, "bad input", e.Message)
	assert.Equal(t, "weather", e.Data["field"])
}

func TestMarshalError_unmarshalable(t *testing.T) {
	out := MarshalError("oops", map[string]any{"fn": func() {}})
	assert.Contains(t, out, `"json_error"`)
	assert.True(t, json.Valid([]byte(out)))
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]int{"id": 3}))
	assert.JSONEq(t, `{"id":3}`, out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteLine(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, WriteLine(&out, map[string]int{"a": 1}))
	require.NoError(t, WriteLine(&out, map[string]int{"a": 2}))
	assert.Equal(t, "{\"a\":1}\n{\"a\":2}\n", out.String())
}

func TestFileReader_Read(t *testing.T) {
	type form struct {
		Weather string `json:"weather"`
	}

	path := filepath.Join(t.TempDir(), "form.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"weather":"晴れ"}`), 0o644))

	fr := &FileReader[form]{fileFlagValue: path}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "晴れ", got.Weather)

	fr = &FileReader[form]{fileFlagValue: filepath.Join(t.TempDir(), "missing.json")}
	_, err = fr.Read()
	assert.Error(t, err)
}
