package models

import "time"

// Document is one row of the document store. Fields is the client's payload
// and always carries the owner id the server assigned.
type Document struct {
	ID         string
	Collection string
	OwnerID    string
	Fields     map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
