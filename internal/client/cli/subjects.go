package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/client/services"
)

func (a *App) Subjects(ctx context.Context) error {
	list, err := a.agenda.ListSubjects(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprint(a.out, renderStale(list.Stale, list.LoadedAt.In(a.clock.Location()).Format("02/01 15:04")))
	fmt.Fprint(a.out, renderSubjects(list.Rows))
	return nil
}

// pickSubject lists the subjects and asks for one by position.
func (a *App) pickSubject(ctx context.Context, prompt string) (models.Subject, error) {
	list, err := a.agenda.ListSubjects(ctx)
	if err != nil {
		return models.Subject{}, a.report(ctx, err)
	}
	if len(list.Rows) == 0 {
		fmt.Fprintln(a.out, "Nenhuma disciplina cadastrada. Use 'addsubject'.")
		return models.Subject{}, errBadChoice
	}
	fmt.Fprint(a.out, renderSubjects(list.Rows))
	i, err := GetChoice(a.reader, prompt, len(list.Rows), a.out)
	if err != nil {
		return models.Subject{}, a.report(ctx, err)
	}
	return list.Rows[i], nil
}

func (a *App) AddSubject(ctx context.Context) error {
	var in services.SubjectInput
	var err error
	if in.Name, err = getSimpleText(a.reader, "Nome da disciplina", a.out); err != nil {
		return err
	}
	if in.Instructor, err = getSimpleText(a.reader, "Professor", a.out); err != nil {
		return err
	}
	if in.Color, err = getSimpleText(a.reader, "Cor (#rrggbb, vazio para automática)", a.out); err != nil {
		return err
	}
	if in.Notes, err = getSimpleText(a.reader, "Observações", a.out); err != nil {
		return err
	}

	created, err := a.agenda.CreateSubject(ctx, in)
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "Disciplina %s %s cadastrada.\n", swatch(created.Color), created.Name)
	return nil
}

func (a *App) EditSubject(ctx context.Context) error {
	current, err := a.pickSubject(ctx, "Número da disciplina a editar")
	if err != nil {
		return err
	}

	in := services.SubjectInput{}
	if in.Name, err = GetWithDefault(a.reader, "Nome da disciplina", current.Name, a.out); err != nil {
		return err
	}
	if in.Instructor, err = GetWithDefault(a.reader, "Professor", current.Instructor, a.out); err != nil {
		return err
	}
	if in.Color, err = GetWithDefault(a.reader, "Cor", current.Color, a.out); err != nil {
		return err
	}
	if in.Notes, err = GetWithDefault(a.reader, "Observações", current.Notes, a.out); err != nil {
		return err
	}

	if err := a.agenda.UpdateSubject(ctx, current.ID, in); err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Disciplina atualizada.")
	return nil
}

// DeleteSubject warns about the sessions that go with the subject.
func (a *App) DeleteSubject(ctx context.Context) error {
	subject, err := a.pickSubject(ctx, "Número da disciplina a excluir")
	if err != nil {
		return err
	}
	linked, err := a.agenda.LinkedSessions(ctx, subject.ID)
	if err != nil {
		return a.report(ctx, err)
	}

	prompt := fmt.Sprintf("Excluir %q?", subject.Name)
	if linked > 0 {
		prompt = fmt.Sprintf("Excluir %q e suas %d aula(s)?", subject.Name, linked)
	}
	ok, err := Confirm(a.reader, prompt, a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.agenda.DeleteSubject(ctx, subject.ID); err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Disciplina excluída.")
	return nil
}
