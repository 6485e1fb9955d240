// Package mail delivers the backend's outgoing messages. The only message
// today is the password-reset link.
package mail

import (
	"context"
	"fmt"
	"strings"
)

// Message is a plain-text mail to a single recipient.
type Message struct {
	To      string
	Subject string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

const appName = "Agenda"

// PasswordReset builds the mail carrying link to an account holder.
func PasswordReset(to, displayName, link string) Message {
	greeting := "Olá"
	if name := strings.TrimSpace(displayName); name != "" {
		greeting += ", " + name
	}
	return Message{
		To:      to,
		Subject: "Redefinição de senha",
		Text: fmt.Sprintf("%s!\n\nRecebemos um pedido para redefinir a senha da sua conta.\n"+
			"Use o link abaixo para escolher uma nova senha:\n\n%s\n\n"+
			"Se você não fez este pedido, ignore esta mensagem.\n", greeting, link),
	}
}
