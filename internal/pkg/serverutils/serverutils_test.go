package serverutils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Question string `json:"question" validate:"required,max=10"`
}

func TestValidateRequest(t *testing.T) {
	require.NoError(t, ValidateRequest(sampleRequest{Question: "ok"}))

	err := ValidateRequest(sampleRequest{})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Equal(t, "question is required", fe.Message)

	err = ValidateRequest(sampleRequest{Question: strings.Repeat("a", 11)})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "question must be at most 10 characters", fe.Message)
}

func decode(t *testing.T, body io.Reader) Response[any] {
	t.Helper()
	var out Response[any]
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func newApp(token string) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/boom", func(*fiber.Ctx) error { return io.ErrUnexpectedEOF })
	app.Get("/teapot", func(*fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Post("/admin", AdminTokenMiddleware(token), func(c *fiber.Ctx) error {
		return c.JSON(SuccessResponse("ok", true))
	})
	return app
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := newApp("")

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp.Body)
	assert.False(t, body.Success)
	assert.Equal(t, "Internal server error", body.Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "short and stout", decode(t, resp.Body).Message)
}

func TestAdminTokenMiddleware(t *testing.T) {
	open := newApp("")
	resp, err := open.Test(httptest.NewRequest("POST", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	guarded := newApp("s3cret")

	resp, err = guarded.Test(httptest.NewRequest("POST", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("POST", "/admin", nil)
	req.Header.Set(AdminTokenHeader, "wrong")
	resp, err = guarded.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("POST", "/admin", nil)
	req.Header.Set(AdminTokenHeader, "s3cret")
	resp, err = guarded.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("POST", "/admin", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	resp, err = guarded.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
