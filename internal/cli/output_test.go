package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Success(map[string]string{"result": "success"}, func(io.Writer) {
		t.Error("text output used in json mode")
	})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Failure(CodeScenarioFailed, "scenario x failed", map[string]int{"ticks": 3}, func(io.Writer) {})
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeScenarioFailed, resp.Error.Code)
	assert.Equal(t, "scenario x failed", resp.Error.Message)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(nil, func(w io.Writer) { fmt.Fprint(w, "all good") }))
	assert.Equal(t, "all good", buf.String())

	buf.Reset()
	err := formatter.Failure(CodeTestFailed, "1 scenario(s) failed", nil, func(w io.Writer) { fmt.Fprint(w, "bad") })
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "bad", buf.String())
}

func TestExitError(t *testing.T) {
	cause := errors.New("disk on fire")

	err := WrapExitError(ExitCommandError, "failed to open database", cause)
	assert.Equal(t, "failed to open database: disk on fire", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	wrapped := fmt.Errorf("outer: %w", NewExitError(ExitFailure, "failed"))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))

	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}
