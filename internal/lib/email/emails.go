package email

import "context"

// SendWelcomeEmail greets a contact that was just added to an address book.
func (c *Client) SendWelcomeEmail(ctx context.Context, to, contactName string) error {
	data := map[string]string{
		"ContactName": contactName,
	}

	return c.SendEmail(ctx, to, "You were added on Formrequest", TemplateWelcome, data)
}
