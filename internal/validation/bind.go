package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/deppfellow/formrequest/internal/errs"
	"github.com/labstack/echo/v4"
)

// Bind decodes the request into target with echo's binder and, when target
// implements InputRecorder, records the input keys and raw body.
//
// Input keys are the top-level JSON object keys in document order (or form
// keys, sorted), followed by query-string keys, sorted. A key appears once.
// Route params are not input.
//
// NOTE: target must be a pointer to a struct, as echo's Bind requires.
func Bind(c echo.Context, target Target) error {
	req := c.Request()

	var raw []byte
	if req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			// BodyLimit reports oversized streamed bodies as a read error.
			var echoErr *echo.HTTPError
			if errors.As(err, &echoErr) {
				return echoErr
			}
			return errs.NewBadRequestError("Request body could not be read", false, nil, nil, nil)
		}
		_ = req.Body.Close()

		raw = body
		// Put the body back so echo's binder can consume it.
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	if err := c.Bind(target); err != nil {
		return bindError(err)
	}

	recorder, ok := target.(InputRecorder)
	if !ok {
		return nil
	}

	keys, err := inputKeys(c, raw)
	if err != nil {
		return errs.NewBadRequestError("Request body could not be parsed", false, nil, nil, nil)
	}

	recorder.RecordInput(keys, raw)

	return nil
}

// BindAndValidate binds the request into target and runs hook on it with the
// request's context.
//
// Flow:
//  1. Bind populates target and records its input keys.
//  2. hook.ValidateResolved runs prepare, authorize, fillable, engine, passed.
//
// Bind failures come back as *errs.HTTPError (400). Validation failures come
// back as the typed errors of this package; see ToHTTPError.
func BindAndValidate(c echo.Context, hook *Hook, target Target) error {
	if err := Bind(c, target); err != nil {
		return err
	}

	return hook.ValidateResolved(c.Request().Context(), target)
}

func bindError(err error) error {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		// Keep 415 and friends as they are; only malformed input is a 400.
		if echoErr.Code != http.StatusBadRequest {
			return echoErr
		}

		if message, ok := echoErr.Message.(string); ok && message != "" {
			return errs.NewBadRequestError(message, false, nil, nil, nil)
		}
	}

	return errs.NewBadRequestError("Request body could not be bound", false, nil, nil, nil)
}

func inputKeys(c echo.Context, raw []byte) ([]string, error) {
	var keys []string
	seen := make(map[string]struct{})

	add := func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	contentType := c.Request().Header.Get(echo.HeaderContentType)

	switch {
	case len(raw) > 0 && strings.HasPrefix(contentType, echo.MIMEApplicationJSON):
		bodyKeys, err := jsonObjectKeys(raw)
		if err != nil {
			return nil, err
		}
		for _, key := range bodyKeys {
			add(key)
		}

	case strings.HasPrefix(contentType, echo.MIMEApplicationForm),
		strings.HasPrefix(contentType, echo.MIMEMultipartForm):
		form, err := c.FormParams()
		if err != nil {
			return nil, err
		}
		for _, key := range sortedKeys(form) {
			add(key)
		}
	}

	for _, key := range sortedKeys(c.QueryParams()) {
		add(key)
	}

	return keys, nil
}

// jsonObjectKeys returns the top-level keys of a JSON object in the order
// they appear. A body that is not an object has no keys.
func jsonObjectKeys(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading json body: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading json key: %w", err)
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected json token %v", tok)
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fmt.Errorf("reading json value for %q: %w", key, err)
		}
	}

	return keys, nil
}

func sortedKeys(values map[string][]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
