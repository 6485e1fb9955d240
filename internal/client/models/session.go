package models

import (
	"time"

	"github.com/dmitrijs2005/labagenda/internal/datex"
)

// StatusScheduled is the only status written by the client. Completion is
// derived from the date, never stored.
const StatusScheduled = "agendada"

// Session is one class occurrence on a date and time slot.
type Session struct {
	ID        string    `json:"id"`
	Date      string    `json:"data" validate:"required"`
	SubjectID string    `json:"disciplinaId" validate:"required"`
	Slot      string    `json:"horario" validate:"required,oneof=19:20-20:50 21:10-22:40"`
	Notes     string    `json:"observacoes,omitempty" validate:"max=1000"`
	Status    string    `json:"status"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s Session) Fields() Fields {
	return Fields{
		"data":         s.Date,
		"disciplinaId": s.SubjectID,
		"horario":      s.Slot,
		"observacoes":  s.Notes,
	}
}

// Day parses Date. Rows written by this client always parse.
func (s Session) Day() (datex.CalendarDate, error) {
	return datex.ParseCalendarDate(s.Date)
}

// Fields is the loosely typed document payload exchanged with the store.
type Fields map[string]any

// Clone returns a shallow copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
