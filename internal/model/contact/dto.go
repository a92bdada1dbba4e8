// Package contact holds the contact entity and the payloads of the contact
// endpoints.
//
// Payloads embed validation.Input so the binder can record which keys the
// client sent, and they opt into the validation lifecycle by implementing
// the optional capabilities (Authorize, PrepareForValidation, Validate,
// JSONSchema).
package contact

import (
	"context"
	"strings"

	"github.com/deppfellow/formrequest/internal/lib/requestctx"
	"github.com/deppfellow/formrequest/internal/validation"
	"github.com/google/uuid"
)

// ------------------------------------------------------------

// CreateContactPayload is the body of POST /api/v1/contacts.
type CreateContactPayload struct {
	validation.Input
	Name  string   `json:"name" validate:"required,min=2,max=100"`
	Email string   `json:"email" validate:"required,email,max=255"`
	Phone *string  `json:"phone" validate:"omitempty,e164"`
	Age   *int     `json:"age" validate:"omitempty,gte=0,lte=150"`
	Tags  []string `json:"tags" validate:"max=10,dive,required,max=32"`
}

// FillableKeys lists the keys a client may send. Anything else, such as an
// owner id, is rejected before the struct rules run.
func (p *CreateContactPayload) FillableKeys() []string {
	return []string{"name", "email", "phone", "age", "tags"}
}

// Authorize requires an authenticated user.
func (p *CreateContactPayload) Authorize(ctx context.Context) bool {
	_, ok := requestctx.UserID(ctx)
	return ok
}

// PrepareForValidation normalizes the input before the rules see it.
func (p *CreateContactPayload) PrepareForValidation(context.Context) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))

	if p.Phone != nil {
		phone := strings.ReplaceAll(strings.TrimSpace(*p.Phone), " ", "")
		p.Phone = &phone
	}

	for i, tag := range p.Tags {
		p.Tags[i] = strings.ToLower(strings.TrimSpace(tag))
	}
}

// Validate checks the rules the struct tags cannot express.
func (p *CreateContactPayload) Validate() error {
	seen := make(map[string]struct{}, len(p.Tags))
	for _, tag := range p.Tags {
		if _, ok := seen[tag]; ok {
			return validation.CustomValidationErrors{
				{Field: "tags", Message: "must not contain duplicates"},
			}
		}
		seen[tag] = struct{}{}
	}

	return nil
}

// ToContact builds the entity owned by ownerID.
func (p *CreateContactPayload) ToContact(ownerID string) *Contact {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return &Contact{
		OwnerID: ownerID,
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Age:     p.Age,
		Tags:    tags,
	}
}

// ------------------------------------------------------------

// GetContactPayload is the path of GET /api/v1/contacts/:id.
type GetContactPayload struct {
	validation.Input
	ID string `param:"id" validate:"required,uuid"`
}

func (p *GetContactPayload) Authorize(ctx context.Context) bool {
	_, ok := requestctx.UserID(ctx)
	return ok
}

// ContactID returns the parsed id. Only call it after validation passed.
func (p *GetContactPayload) ContactID() uuid.UUID {
	return uuid.MustParse(p.ID)
}

// ------------------------------------------------------------

// DefaultListLimit is used when a list request sets no limit.
const DefaultListLimit = 20

// ListContactsPayload is the query string of GET /api/v1/contacts. Unknown
// query keys are rejected so typos in filters do not silently match
// everything.
//
// IDs is a comma-separated list that restricts the result to those
// contacts. Limit is never zero once prepared.
type ListContactsPayload struct {
	validation.Input
	Tag    string `query:"tag" validate:"omitempty,max=32"`
	IDs    string `query:"ids" validate:"omitempty,uuidList"`
	Limit  uint64 `query:"limit" validate:"lte=100"`
	Offset uint64 `query:"offset"`
}

func (p *ListContactsPayload) FillableKeys() []string {
	return []string{"tag", "ids", "limit", "offset"}
}

func (p *ListContactsPayload) Authorize(ctx context.Context) bool {
	_, ok := requestctx.UserID(ctx)
	return ok
}

func (p *ListContactsPayload) PrepareForValidation(context.Context) {
	p.Tag = strings.ToLower(strings.TrimSpace(p.Tag))
	p.IDs = strings.TrimSpace(p.IDs)
	if p.Limit == 0 {
		p.Limit = DefaultListLimit
	}
}

// ContactIDs returns the parsed ids filter, or nil when none was sent. Only
// call it after validation passed.
func (p *ListContactsPayload) ContactIDs() []uuid.UUID {
	if p.IDs == "" {
		return nil
	}

	parts := strings.Split(p.IDs, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		ids = append(ids, uuid.MustParse(strings.TrimSpace(part)))
	}

	return ids
}

// ------------------------------------------------------------

// ImportContactsPayload is the body of POST /api/v1/contacts/import. Its
// shape is described by a JSON Schema instead of struct tags.
type ImportContactsPayload struct {
	validation.Input
	Contacts []ImportContact `json:"contacts"`
}

// ImportContact is one entry of an import batch.
type ImportContact struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Phone *string  `json:"phone,omitempty"`
	Age   *int     `json:"age,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

const importContactsSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["contacts"],
	"properties": {
		"contacts": {
			"type": "array",
			"minItems": 1,
			"maxItems": 100,
			"items": {
				"type": "object",
				"required": ["name", "email"],
				"additionalProperties": false,
				"properties": {
					"name": {"type": "string", "minLength": 2, "maxLength": 100},
					"email": {"type": "string", "format": "email", "maxLength": 255},
					"phone": {"type": "string", "pattern": "^\\+[1-9][0-9]{1,14}$"},
					"age": {"type": "integer", "minimum": 0, "maximum": 150},
					"tags": {
						"type": "array",
						"maxItems": 10,
						"uniqueItems": true,
						"items": {"type": "string", "minLength": 1, "maxLength": 32}
					}
				}
			}
		}
	}
}`

func (p *ImportContactsPayload) FillableKeys() []string {
	return []string{"contacts"}
}

func (p *ImportContactsPayload) Authorize(ctx context.Context) bool {
	_, ok := requestctx.UserID(ctx)
	return ok
}

// JSONSchema describes the accepted body.
func (p *ImportContactsPayload) JSONSchema() string {
	return importContactsSchema
}

// PrepareForValidation lower-cases emails so duplicates across a batch
// compare equal.
func (p *ImportContactsPayload) PrepareForValidation(context.Context) {
	for i := range p.Contacts {
		p.Contacts[i].Email = strings.ToLower(strings.TrimSpace(p.Contacts[i].Email))
	}
}

// Validate rejects batches that repeat an email address.
func (p *ImportContactsPayload) Validate() error {
	seen := make(map[string]struct{}, len(p.Contacts))
	for _, c := range p.Contacts {
		// Missing emails are reported by the schema.
		if c.Email == "" {
			continue
		}
		if _, ok := seen[c.Email]; ok {
			return validation.CustomValidationErrors{
				{Field: "contacts", Message: "must not repeat an email address"},
			}
		}
		seen[c.Email] = struct{}{}
	}

	return nil
}

// ToContacts builds the entities owned by ownerID.
func (p *ImportContactsPayload) ToContacts(ownerID string) []*Contact {
	contacts := make([]*Contact, 0, len(p.Contacts))
	for _, c := range p.Contacts {
		tags := c.Tags
		if tags == nil {
			tags = []string{}
		}

		contacts = append(contacts, &Contact{
			OwnerID: ownerID,
			Name:    c.Name,
			Email:   c.Email,
			Phone:   c.Phone,
			Age:     c.Age,
			Tags:    tags,
		})
	}

	return contacts
}
