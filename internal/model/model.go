// Package model holds the domain entities and the request payloads that
// resolve into them. Each entity lives in its own subpackage.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the columns every table has.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
