package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/client/services"
	"github.com/dmitrijs2005/labagenda/internal/datex"
)

// sessionList is every session in display order: upcoming first, then
// completed, most recent first.
func (a *App) sessionList(ctx context.Context) (*services.Report, []services.Item, error) {
	r, err := a.agenda.Report(ctx)
	if err != nil {
		return nil, nil, err
	}
	all := make([]services.Item, 0, len(r.Upcoming)+len(r.Completed))
	all = append(all, r.Upcoming...)
	all = append(all, r.Completed...)
	return r, all, nil
}

func (a *App) printSessions(r *services.Report) {
	if r.Stale {
		fmt.Fprint(a.out, renderStale(true, "última sincronização"))
	}
	n := 1
	fmt.Fprintln(a.out, titleStyle.Render("Próximas aulas"))
	if len(r.Upcoming) == 0 {
		fmt.Fprintln(a.out, dimStyle.Render("  nenhuma"))
	}
	for _, it := range r.Upcoming {
		fmt.Fprint(a.out, renderItem(n, it))
		n++
	}
	fmt.Fprintln(a.out, titleStyle.Render("Aulas realizadas"))
	if len(r.Completed) == 0 {
		fmt.Fprintln(a.out, dimStyle.Render("  nenhuma"))
	}
	for _, it := range r.Completed {
		fmt.Fprint(a.out, renderItem(n, it))
		n++
	}
}

func (a *App) Sessions(ctx context.Context) error {
	r, _, err := a.sessionList(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	a.printSessions(r)
	return nil
}

func (a *App) pickSession(ctx context.Context, prompt string) (services.Item, error) {
	r, all, err := a.sessionList(ctx)
	if err != nil {
		return services.Item{}, a.report(ctx, err)
	}
	if len(all) == 0 {
		fmt.Fprintln(a.out, "Nenhuma aula cadastrada. Use 'addsession'.")
		return services.Item{}, errBadChoice
	}
	a.printSessions(r)
	i, err := GetChoice(a.reader, prompt, len(all), a.out)
	if err != nil {
		return services.Item{}, a.report(ctx, err)
	}
	return all[i], nil
}

// readDate accepts YYYY-MM-DD, DD/MM/YYYY or expressions such as "amanhã".
// An empty answer keeps current.
func (a *App) readDate(prompt, current string) (string, error) {
	v, err := GetWithDefault(a.reader, prompt+" (ex.: 2025-03-10, 10/03/2025, amanhã)", current, a.out)
	if err != nil {
		return "", err
	}
	if v == "" || v == current {
		return v, nil
	}
	d, err := a.dates.Parse(v)
	if err != nil {
		// Leave it to the service to reject it as a form error.
		return v, nil
	}
	return d.String(), nil
}

func (a *App) readSlot(current string) (string, error) {
	labels := make([]string, len(models.TimeSlots))
	for i, s := range models.TimeSlots {
		labels[i] = fmt.Sprintf("%d) %s", i+1, s.Label())
	}
	prompt := "Horário: " + strings.Join(labels, "  ")
	v, err := GetWithDefault(a.reader, prompt, current, a.out)
	if err != nil {
		return "", err
	}
	for i, s := range models.TimeSlots {
		if v == fmt.Sprint(i+1) {
			return s.ID, nil
		}
	}
	return v, nil
}

func (a *App) AddSession(ctx context.Context) error {
	subject, err := a.pickSubject(ctx, "Número da disciplina")
	if err != nil {
		return err
	}
	in := services.SessionInput{SubjectID: subject.ID}
	if in.Date, err = a.readDate("Data", ""); err != nil {
		return err
	}
	if in.Slot, err = a.readSlot(""); err != nil {
		return err
	}
	if in.Notes, err = getSimpleText(a.reader, "Observações", a.out); err != nil {
		return err
	}

	created, err := a.agenda.CreateSession(ctx, in)
	if err != nil {
		return a.report(ctx, err)
	}
	if day, derr := created.Day(); derr == nil {
		fmt.Fprintf(a.out, "Aula agendada para %s, %s.\n", datex.FormatLong(day), slotLabel(created.Slot))
	}
	return nil
}

func (a *App) EditSession(ctx context.Context) error {
	item, err := a.pickSession(ctx, "Número da aula a editar")
	if err != nil {
		return err
	}
	cur := item.Session
	in := services.SessionInput{SubjectID: cur.SubjectID}
	if in.Date, err = a.readDate("Data", cur.Date); err != nil {
		return err
	}
	if in.Slot, err = a.readSlot(cur.Slot); err != nil {
		return err
	}
	if in.Notes, err = GetWithDefault(a.reader, "Observações", cur.Notes, a.out); err != nil {
		return err
	}

	if err := a.agenda.UpdateSession(ctx, cur.ID, in); err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Aula atualizada.")
	return nil
}

func (a *App) DeleteSession(ctx context.Context) error {
	item, err := a.pickSession(ctx, "Número da aula a excluir")
	if err != nil {
		return err
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Excluir a aula de %s em %s?", item.Subject.Name, datex.FormatShort(item.Day)), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.agenda.DeleteSession(ctx, item.Session.ID); err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Aula excluída.")
	return nil
}
