package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/labagenda/internal/client/identity"
	"github.com/dmitrijs2005/labagenda/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register creates an account and signs in with it.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Nome", a.out)
	if err != nil {
		return err
	}
	lab, err := getSimpleText(a.reader, "Laboratório", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password := ""
	if a.Mode == ModeOnline {
		password, err = getPassword("Senha", a.out)
		if err != nil {
			return err
		}
	}

	if _, err := a.ids.SignUp(ctx, email, password, name, lab); err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Conta criada.")
	return nil
}

// Login signs in. The session controller picks the new identity up and
// clears whatever the previous owner left behind.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password := ""
	if a.Mode == ModeOnline {
		password, err = getPassword("Senha", a.out)
		if err != nil {
			return err
		}
	}

	p, err := a.ids.SignIn(ctx, email, password)
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "Bem-vindo, %s!\n", displayName(p.DisplayName, p.Email))
	return nil
}

// Logout always ends signed out locally; a failed remote sign-out is only
// logged.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		a.log.Warn(ctx, "remote sign-out failed", "error", err)
	}
	fmt.Fprintln(a.out, "Sessão encerrada.")
	return nil
}

func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	if err := a.ids.SendPasswordReset(ctx, email); err != nil {
		if errors.Is(err, identity.ErrNotSupported) {
			fmt.Fprintln(a.out, "Recuperação de senha indisponível no modo offline.")
			return err
		}
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Se o email estiver cadastrado, você receberá um código de redefinição.")
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Código recebido por email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Nova senha", a.out)
	if err != nil {
		return err
	}
	if err := a.ids.ResetPassword(ctx, token, password); err != nil {
		if errors.Is(err, identity.ErrNotSupported) {
			fmt.Fprintln(a.out, "Recuperação de senha indisponível no modo offline.")
			return err
		}
		return a.report(ctx, err)
	}
	fmt.Fprintln(a.out, "Senha alterada. Faça login novamente.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	p := a.principal()
	if p == nil {
		fmt.Fprintln(a.out, "Ninguém conectado.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> (%s)\n", displayName(p.DisplayName, p.Email), p.Email, a.Mode)
	if p.Lab != "" {
		fmt.Fprintf(a.out, "Laboratório: %s\n", p.Lab)
	}
	return nil
}

// principal is the signed-in user as the session controller sees it, with
// profile details refreshed from the identity provider.
func (a *App) principal() *models.Principal {
	p := a.session.State().Principal
	if p == nil {
		return nil
	}
	if cur := a.ids.Current(); cur != nil && cur.OwnerID == p.OwnerID {
		return cur
	}
	return p
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
