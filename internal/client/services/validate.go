package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/go-playground/validator/v10"
)

// SubjectInput is the subject form.
type SubjectInput struct {
	Name       string `json:"nome" validate:"required,max=120"`
	Instructor string `json:"professor" validate:"required,max=120"`
	Color      string `json:"cor" validate:"omitempty,hexcolor"`
	Notes      string `json:"observacoes" validate:"max=1000"`
}

func (in *SubjectInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Instructor = strings.TrimSpace(in.Instructor)
	in.Color = strings.TrimSpace(in.Color)
	in.Notes = strings.TrimSpace(in.Notes)
}

func (in SubjectInput) fields() models.Fields {
	f := models.Fields{
		"nome":        in.Name,
		"professor":   in.Instructor,
		"observacoes": in.Notes,
	}
	if in.Color != "" {
		f["cor"] = in.Color
	}
	return f
}

// SessionInput is the session form. Date is YYYY-MM-DD.
type SessionInput struct {
	Date      string `json:"data" validate:"required"`
	SubjectID string `json:"disciplinaId" validate:"required"`
	Slot      string `json:"horario" validate:"required,oneof=19:20-20:50 21:10-22:40"`
	Notes     string `json:"observacoes" validate:"max=1000"`
}

func (in *SessionInput) normalize() {
	in.Date = strings.TrimSpace(in.Date)
	in.SubjectID = strings.TrimSpace(in.SubjectID)
	in.Slot = strings.TrimSpace(in.Slot)
	in.Notes = strings.TrimSpace(in.Notes)
}

func (in SessionInput) fields() models.Fields {
	return models.Fields{
		"data":         in.Date,
		"disciplinaId": in.SubjectID,
		"horario":      in.Slot,
		"observacoes":  in.Notes,
	}
}

const (
	reasonDuplicateName = "Já existe uma disciplina com este nome"
	reasonDuplicateSlot = "Já existe uma aula nesta data e horário"
	reasonBadDate       = "Data inválida"
	reasonNoSubject     = "Disciplina não encontrada"
)

var requiredReasons = map[string]string{
	"nome":         "Nome da disciplina é obrigatório",
	"professor":    "Nome do professor é obrigatório",
	"data":         "Data da aula é obrigatória",
	"disciplinaId": "Disciplina é obrigatória",
	"horario":      "Horário é obrigatório",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check runs the struct tags and reports the first failing field.
func (s *agendaService) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	fe := fields[0]
	return common.NewValidationError(fe.Field(), reasonFor(fe))
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if r, ok := requiredReasons[fe.Field()]; ok {
			return r
		}
		return "Campo obrigatório"
	case "max":
		return fmt.Sprintf("Máximo de %s caracteres", fe.Param())
	case "hexcolor":
		return "Cor inválida"
	case "oneof":
		return "Horário inválido"
	default:
		return "Valor inválido"
	}
}
