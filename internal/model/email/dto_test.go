package email

import (
	"context"
	"testing"

	"github.com/deppfellow/formrequest/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewEmailPayload(t *testing.T) {
	hook := validation.NewHook(validation.NewStructEngine())

	t.Run("known template", func(t *testing.T) {
		assert.NoError(t, hook.ValidateResolved(context.Background(), &PreviewEmailPayload{Template: "welcome"}))
	})

	t.Run("unknown template", func(t *testing.T) {
		err := hook.ValidateResolved(context.Background(), &PreviewEmailPayload{Template: "invoice"})

		var validationErr *validation.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, map[string][]string{"template": {"must name a known email template"}}, validationErr.Messages())
	})
}
