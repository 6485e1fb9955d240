package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/labagenda/internal/datex"
)

// Calendar shows a month. "next" and "prev" move the viewed month, "today"
// jumps back to the current one; anything else redraws the viewed month.
func (a *App) Calendar(ctx context.Context, arg string) error {
	switch arg {
	case "next":
		a.cursor = a.cursor.Next()
	case "prev":
		a.cursor = a.cursor.Prev()
	case "today":
		a.cursor = a.clock.CurrentMonth()
	}

	view, err := a.agenda.Month(ctx, a.cursor)
	if err != nil {
		return a.report(ctx, err)
	}
	if view.Stale {
		fmt.Fprint(a.out, renderStale(true, "última sincronização"))
	}
	fmt.Fprint(a.out, renderMonth(view))
	return nil
}

func (a *App) Report(ctx context.Context) error {
	r, err := a.agenda.Report(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	if r.Stale {
		fmt.Fprint(a.out, renderStale(true, "última sincronização"))
	}

	fmt.Fprintf(a.out, "Hoje: %s\n", datex.FormatLong(r.Today))
	if r.Next != nil {
		fmt.Fprint(a.out, titleStyle.Render("Próxima aula")+"\n")
		fmt.Fprint(a.out, renderItem(0, *r.Next))
	}
	fmt.Fprintf(a.out, "%d aula(s) agendada(s), %d realizada(s)\n", len(r.Upcoming), len(r.Completed))

	if len(r.PerSubject) > 0 {
		fmt.Fprintln(a.out, titleStyle.Render("Por disciplina"))
	}
	for _, c := range r.PerSubject {
		fmt.Fprintf(a.out, "  %s %s: %d total, %d agendada(s), %d realizada(s)\n",
			swatch(c.Subject.Color), c.Subject.Name, c.Total, c.Upcoming, c.Completed)
	}
	return nil
}

// Refresh drops cached listings so the next command reads from the server.
func (a *App) Refresh(ctx context.Context) error {
	a.agenda.Refresh()
	fmt.Fprintln(a.out, "Dados serão recarregados.")
	return nil
}
