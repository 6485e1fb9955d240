package mail

import (
	"context"

	"github.com/dmitrijs2005/labagenda/internal/logging"
)

// ConsoleMailer logs messages instead of sending them. Meant for
// development, where the reset link is read from the server log.
type ConsoleMailer struct {
	log logging.Logger
}

func NewConsoleMailer(log logging.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log.With("module", "mail")}
}

func (m *ConsoleMailer) Send(ctx context.Context, msg Message) error {
	m.log.Info(ctx, "mail", "to", msg.To, "subject", msg.Subject, "text", msg.Text)
	return nil
}
