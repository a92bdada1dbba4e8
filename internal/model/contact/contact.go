package contact

import (
	"github.com/deppfellow/formrequest/internal/model"
)

// Contact is a person in a user's address book.
type Contact struct {
	model.Base
	OwnerID string   `json:"ownerId" db:"owner_id"`
	Name    string   `json:"name" db:"name"`
	Email   string   `json:"email" db:"email"`
	Phone   *string  `json:"phone" db:"phone"`
	Age     *int     `json:"age" db:"age"`
	Tags    []string `json:"tags" db:"tags"`
}

// ImportResult reports how many contacts an import created.
type ImportResult struct {
	Imported int        `json:"imported"`
	Contacts []*Contact `json:"contacts"`
}
