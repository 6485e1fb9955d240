package models

import (
	"math/rand/v2"
	"time"
)

// DefaultColor is used for a subject that cannot be resolved.
const DefaultColor = "#6c757d"

// Palette is the set of colors assigned to subjects created without one.
var Palette = []string{"#1e40af", "#dc2626", "#059669", "#7c3aed", "#ea580c", "#0891b2"}

// RandomColor picks a palette entry.
func RandomColor() string {
	return Palette[rand.IntN(len(Palette))]
}

// Subject is a discipline taught in the lab.
type Subject struct {
	ID         string    `json:"id"`
	Name       string    `json:"nome" validate:"required,max=120"`
	Instructor string    `json:"professor" validate:"required,max=120"`
	Color      string    `json:"cor" validate:"omitempty,hexcolor"`
	Notes      string    `json:"observacoes,omitempty" validate:"max=1000"`
	OwnerID    string    `json:"ownerId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Fields returns the user-editable attributes in document form.
func (s Subject) Fields() Fields {
	return Fields{
		"nome":        s.Name,
		"professor":   s.Instructor,
		"cor":         s.Color,
		"observacoes": s.Notes,
	}
}

// MissingSubject stands in for a session whose subject no longer exists.
func MissingSubject(id string) Subject {
	return Subject{ID: id, Name: "Disciplina não encontrada", Color: DefaultColor}
}
