package handlers_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

// envelope decodes both success and error bodies
type envelope struct {
	Success          bool                `json:"success"`
	Message          string              `json:"message"`
	Data             jsoniter.RawMessage `json:"data"`
	Error            string              `json:"error"`
	ErrorCode        string              `json:"error_code"`
	Path             string              `json:"path"`
	ValidationErrors map[string]string   `json:"validation_errors"`
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, jsoniter.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	require.NoError(t, jsoniter.Unmarshal(env.Data, out))
}

