package server

import (
	"testing"

	"github.com/dmitrijs2005/labagenda/internal/logging"
	"github.com/dmitrijs2005/labagenda/internal/server/config"
	"github.com/dmitrijs2005/labagenda/internal/server/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer(t *testing.T) {
	m, err := newMailer(&config.Config{Mailer: config.MailerConsole}, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &mail.ConsoleMailer{}, m)

	m, err = newMailer(&config.Config{Mailer: config.MailerSendgrid, SendgridAPIKey: "SG.x", MailFrom: "a@b.c"}, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &mail.SendgridMailer{}, m)

	_, err = newMailer(&config.Config{Mailer: config.MailerSendgrid}, logging.Nop())
	require.Error(t, err)

	_, err = newMailer(&config.Config{Mailer: "pigeon"}, logging.Nop())
	require.ErrorContains(t, err, "unknown mailer")
}
