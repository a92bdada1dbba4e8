package email

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "email_1"}, nil
}

func newTestClient(sender Sender) *Client {
	logger := zerolog.Nop()
	return New(sender, "Formrequest <test@example.com>", &logger)
}

func TestRender(t *testing.T) {
	client := newTestClient(&fakeSender{})

	t.Run("every template renders its preview data", func(t *testing.T) {
		for _, name := range Templates {
			html, err := client.Render(name, PreviewData[name])
			require.NoError(t, err, name)
			assert.NotEmpty(t, html)
		}
	})

	t.Run("escapes values", func(t *testing.T) {
		html, err := client.Render(TemplateWelcome, map[string]string{"ContactName": "<b>Ada</b>"})
		require.NoError(t, err)
		assert.Contains(t, html, "&lt;b&gt;Ada&lt;/b&gt;")
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := client.Render("missing", nil)
		assert.Error(t, err)
	})
}

func TestSendWelcomeEmail(t *testing.T) {
	sender := &fakeSender{}
	client := newTestClient(sender)

	require.NoError(t, client.SendWelcomeEmail(context.Background(), "ada@example.com", "Ada"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"ada@example.com"}, sender.sent[0].To)
	assert.Equal(t, "Formrequest <test@example.com>", sender.sent[0].From)
	assert.Contains(t, sender.sent[0].Html, "Hi Ada,")
}

func TestSendEmail_SenderError(t *testing.T) {
	client := newTestClient(&fakeSender{err: errors.New("rate limited")})

	err := client.SendWelcomeEmail(context.Background(), "ada@example.com", "Ada")

	assert.ErrorContains(t, err, "rate limited")
}

func TestTemplateValid(t *testing.T) {
	assert.True(t, TemplateWelcome.Valid())
	assert.False(t, Template("invoice").Valid())
}
