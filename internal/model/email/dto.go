// Package email holds the payloads of the email preview routes.
package email

import (
	"github.com/deppfellow/formrequest/internal/lib/email"
	"github.com/deppfellow/formrequest/internal/validation"
)

// PreviewEmailPayload is the path of GET /emails/:template/preview.
type PreviewEmailPayload struct {
	validation.Input
	Template string `param:"template" validate:"required,max=64"`
}

func (p *PreviewEmailPayload) Validate() error {
	if !email.Template(p.Template).Valid() {
		return validation.CustomValidationErrors{
			{Field: "template", Message: "must name a known email template"},
		}
	}

	return nil
}
