package validation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/formrequest/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profilePayload struct {
	Input
	ID   string `param:"id"`
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age"`
}

func (p *profilePayload) FillableKeys() []string { return []string{"name", "age"} }

func newContext(method, target, contentType, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

// ---------------------------------------------------------------------------
// Input keys
// ---------------------------------------------------------------------------

func TestJSONObjectKeys(t *testing.T) {
	t.Run("document order", func(t *testing.T) {
		keys, err := jsonObjectKeys([]byte(`{"zeta":1,"alpha":{"nested":true},"mid":[1,2]}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)
	})

	t.Run("not an object", func(t *testing.T) {
		keys, err := jsonObjectKeys([]byte(`[1,2,3]`))
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := jsonObjectKeys([]byte(`{"a":`))
		assert.Error(t, err)
	})
}

func TestBind_RecordsBodyThenQueryKeys(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/?b=1&a=2&name=dup", echo.MIMEApplicationJSON, `{"name":"Ada","age":36}`)

	payload := &profilePayload{}
	require.NoError(t, Bind(c, payload))

	assert.Equal(t, "Ada", payload.Name)
	assert.Equal(t, 36, payload.Age)
	assert.Equal(t, []string{"name", "age", "a", "b"}, payload.InputKeys())
	assert.JSONEq(t, `{"name":"Ada","age":36}`, string(payload.RawInput()))
}

func TestBind_PathParamsAreNotInput(t *testing.T) {
	c, _ := newContext(http.MethodPut, "/profiles/42", echo.MIMEApplicationJSON, `{"name":"Ada"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")

	payload := &profilePayload{}
	require.NoError(t, Bind(c, payload))

	assert.Equal(t, "42", payload.ID)
	assert.Equal(t, []string{"name"}, payload.InputKeys())
}

func TestBind_FormKeysAreSorted(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/", echo.MIMEApplicationForm, "name=Ada&age=36")

	payload := &profilePayload{}
	require.NoError(t, Bind(c, payload))

	assert.Equal(t, []string{"age", "name"}, payload.InputKeys())
}

func TestBind_MalformedJSONIsBadRequest(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/", echo.MIMEApplicationJSON, `{"name":`)

	err := Bind(c, &profilePayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestBind_UnsupportedMediaTypeIsKept(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/", "application/x-unknown", `whatever`)

	err := Bind(c, &profilePayload{})

	var echoErr *echo.HTTPError
	require.ErrorAs(t, err, &echoErr)
	assert.Equal(t, http.StatusUnsupportedMediaType, echoErr.Code)
}

func TestBind_OversizedStreamedBodyIsTooLarge(t *testing.T) {
	e := echo.New()
	e.Use(middleware.BodyLimit("10B"))
	e.POST("/profiles", func(c echo.Context) error {
		if err := BindAndValidate(c, NewHook(NewStructEngine()), &profilePayload{}); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})

	body := `{"name":"` + strings.Repeat("a", 100) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	// Unknown length, as with chunked transfer encoding.
	req.ContentLength = -1
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

// ---------------------------------------------------------------------------
// BindAndValidate
// ---------------------------------------------------------------------------

func TestBindAndValidate(t *testing.T) {
	hook := NewHook(NewStructEngine())

	t.Run("passes", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/", echo.MIMEApplicationJSON, `{"name":"Ada","age":36}`)
		require.NoError(t, BindAndValidate(c, hook, &profilePayload{}))
	})

	t.Run("extra body key", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/", echo.MIMEApplicationJSON, `{"name":"Ada","admin":true}`)

		err := BindAndValidate(c, hook, &profilePayload{})

		var fillErr *UnprocessableInputError
		require.ErrorAs(t, err, &fillErr)
		assert.Equal(t, "admin", fillErr.Key)
	})

	t.Run("extra query key", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/?debug=1", echo.MIMEApplicationJSON, `{"name":"Ada"}`)

		err := BindAndValidate(c, hook, &profilePayload{})

		var fillErr *UnprocessableInputError
		require.ErrorAs(t, err, &fillErr)
		assert.Equal(t, "debug", fillErr.Key)
	})

	t.Run("rule failure", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/", echo.MIMEApplicationJSON, `{"age":36}`)

		err := BindAndValidate(c, hook, &profilePayload{})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, []string{"is required"}, validationErr.Messages()["name"])
	})

	t.Run("uses request context", func(t *testing.T) {
		type ctxKey struct{}
		var seen any
		hook := NewHook(NewStructEngine(), WithPrepare(func(ctx context.Context, _ Target) {
			seen = ctx.Value(ctxKey{})
		}))

		c, _ := newContext(http.MethodPost, "/", echo.MIMEApplicationJSON, `{"name":"Ada"}`)
		c.SetRequest(c.Request().WithContext(context.WithValue(c.Request().Context(), ctxKey{}, "here")))

		require.NoError(t, BindAndValidate(c, hook, &profilePayload{}))
		assert.Equal(t, "here", seen)
	})
}
