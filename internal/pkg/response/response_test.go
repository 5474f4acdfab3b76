package response_test

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/core/domain"
	"library-api/internal/pkg/response"
)

func Test_HandleError(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantFields bool
	}{
		{"not found", domain.ErrLoanNotFound, fiber.StatusNotFound, response.CodeNotFound, false},
		{"conflict", domain.ErrBookUnavailable, fiber.StatusBadRequest, response.CodeConflict, false},
		{"wrapped conflict", fmt.Errorf("borrow: %w", domain.ErrLoanOverdue), fiber.StatusBadRequest, response.CodeConflict, false},
		{"quota", domain.ErrQuotaExceeded, fiber.StatusBadRequest, response.CodeQuotaExceeded, false},
		{"validation", domain.NewFieldError("title", "This field is required"), fiber.StatusBadRequest, response.CodeValidation, true},
		{"unclassified", errors.New("connection reset"), fiber.StatusInternalServerError, response.CodeInternal, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/api/v1/thing", func(c *fiber.Ctx) error {
				return response.HandleError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/thing", nil))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			var decoded response.ErrorResponse
			require.NoError(t, jsoniter.Unmarshal(body, &decoded))

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.False(t, decoded.Success)
			assert.Equal(t, tc.wantCode, decoded.ErrorCode)
			assert.Equal(t, "/api/v1/thing", decoded.Path)
			assert.False(t, decoded.Timestamp.IsZero())
			assert.Equal(t, tc.wantFields, decoded.ValidationErrors != nil)
			if tc.wantStatus == fiber.StatusInternalServerError {
				assert.NotContains(t, decoded.Error, "connection reset")
			}
		})
	}
}

func Test_Created(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		return response.Created(c, "Created", fiber.Map{"id": 1})
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}
