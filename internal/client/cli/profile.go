package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/labagenda/internal/client/identity"
)

// Profile shows the signed-in user's details and lets them edit the display
// name and lab, then offers a password change.
func (a *App) Profile(ctx context.Context) error {
	p := a.principal()
	if p == nil {
		fmt.Fprintln(a.out, "Ninguém conectado.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>\n", displayName(p.DisplayName, p.Email), p.Email)

	name, err := GetWithDefault(a.reader, "Nome", p.DisplayName, a.out)
	if err != nil {
		return err
	}
	lab, err := GetWithDefault(a.reader, "Laboratório", p.Lab, a.out)
	if err != nil {
		return err
	}
	if name != p.DisplayName || lab != p.Lab {
		if _, err := a.ids.UpdateProfile(ctx, name, lab); err != nil {
			return a.report(ctx, err)
		}
		fmt.Fprintln(a.out, "Perfil atualizado.")
	}

	ok, err := Confirm(a.reader, "Alterar senha?", a.out)
	if err != nil || !ok {
		return err
	}
	return a.changePassword(ctx)
}

func (a *App) changePassword(ctx context.Context) error {
	if a.Mode == ModeOffline {
		fmt.Fprintln(a.out, "Alteração de senha indisponível no modo offline.")
		return identity.ErrNotSupported
	}
	current, err := getPassword("Senha atual", a.out)
	if err != nil {
		return err
	}
	next, err := getPassword("Nova senha", a.out)
	if err != nil {
		return err
	}
	again, err := getPassword("Repita a nova senha", a.out)
	if err != nil {
		return err
	}
	if next != again {
		fmt.Fprintln(a.out, renderError(errPasswordMismatch))
		return errPasswordMismatch
	}

	if err := a.ids.ChangePassword(ctx, current, next); err != nil {
		if errors.Is(err, identity.ErrNotSupported) {
			fmt.Fprintln(a.out, "Alteração de senha indisponível no modo offline.")
			return err
		}
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Senha alterada.")
	return nil
}

var errPasswordMismatch = errors.New("senhas não coincidem")
