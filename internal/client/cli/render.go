package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/client/services"
	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/dmitrijs2005/labagenda/internal/datex"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ea580c"))
	todayStyle   = lipgloss.NewStyle().Bold(true).Reverse(true)
	dayCellStyle = lipgloss.NewStyle().Width(5).Align(lipgloss.Right)
)

// swatch renders a small block in the subject's color.
func swatch(color string) string {
	if color == "" {
		color = models.DefaultColor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
}

func renderError(err error) string {
	var ve *common.ValidationError
	var ce *services.CascadeError
	switch {
	case errors.As(err, &ve):
		return errorStyle.Render(fmt.Sprintf("%s: %s", ve.Field, ve.Reason))
	case errors.As(err, &ce):
		return errorStyle.Render(fmt.Sprintf(
			"Não foi possível excluir %d aula(s); a disciplina foi mantida.", len(ce.Failed)))
	case errors.Is(err, common.ErrUnauthenticated):
		return errorStyle.Render("Sessão expirada. Faça login novamente.")
	case errors.Is(err, common.ErrRemoteUnavailable):
		return errorStyle.Render("Servidor indisponível. Tente novamente mais tarde.")
	case errors.Is(err, common.ErrNotFound):
		return errorStyle.Render("Registro não encontrado.")
	case errors.Is(err, common.ErrAlreadyExists):
		return errorStyle.Render("Já cadastrado.")
	default:
		return errorStyle.Render("Erro: " + err.Error())
	}
}

func renderStale(stale bool, at string) string {
	if !stale {
		return ""
	}
	return warnStyle.Render("Sem conexão: exibindo dados salvos em "+at) + "\n"
}

func renderSubjects(rows []models.Subject) string {
	if len(rows) == 0 {
		return dimStyle.Render("Nenhuma disciplina cadastrada.") + "\n"
	}
	var b strings.Builder
	for i, s := range rows {
		fmt.Fprintf(&b, "%2d. %s %s - %s\n", i+1, swatch(s.Color), titleStyle.Render(s.Name), s.Instructor)
		if s.Notes != "" {
			fmt.Fprintf(&b, "    %s\n", dimStyle.Render(s.Notes))
		}
	}
	return b.String()
}

func slotLabel(id string) string {
	if slot, ok := models.SlotByID(id); ok {
		return slot.Label()
	}
	return id
}

func renderItem(n int, it services.Item) string {
	when := datex.FormatShort(it.Day)
	switch {
	case it.Today:
		when += " (hoje)"
	case it.Tomorrow:
		when += " (amanhã)"
	case it.DaysUntil > 1:
		when += fmt.Sprintf(" (faltam %d dias)", it.DaysUntil)
	case it.DaysUntil < 0:
		when += fmt.Sprintf(" (há %d dias)", -it.DaysUntil)
	}
	prefix := "   "
	if n > 0 {
		prefix = fmt.Sprintf("%2d.", n)
	}
	line := fmt.Sprintf("%s %s %s  %s  %s", prefix, swatch(it.Subject.Color), when, slotLabel(it.Session.Slot), it.Subject.Name)
	if it.Session.Notes != "" {
		line += "  " + dimStyle.Render(it.Session.Notes)
	}
	return line + "\n"
}

// renderMonth draws the month grid. Days with sessions are tinted with
// the color of the first session's subject.
func renderMonth(v *services.MonthView) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Title))
	b.WriteString("\n")
	for _, h := range datex.WeekdayHeaders {
		b.WriteString(dayCellStyle.Render(h))
	}
	b.WriteString("\n")
	for _, week := range v.Weeks {
		for _, cell := range week {
			b.WriteString(dayCellStyle.Render(renderDay(cell)))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d aula(s) no mês\n", v.Total)
	return b.String()
}

func renderDay(cell services.DayCell) string {
	if cell.Blank {
		return ""
	}
	label := fmt.Sprintf("%d", cell.Date.Day)
	if n := len(cell.Sessions); n > 0 {
		label = lipgloss.NewStyle().Foreground(lipgloss.Color(cell.Sessions[0].Subject.Color)).
			Render(fmt.Sprintf("%s•", label))
	}
	if cell.Today {
		label = todayStyle.Render(label)
	}
	return label
}
