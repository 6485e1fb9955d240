package mail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/labagenda/internal/logging"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// sendAPI is a seam for tests.
var sendAPI = func(ctx context.Context, req rest.Request) (*rest.Response, error) {
	return sendgrid.MakeRequestWithContext(ctx, req)
}

type SendgridMailer struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	log        logging.Logger
}

func NewSendgridMailer(key, fromEmail string, log logging.Logger) *SendgridMailer {
	return &SendgridMailer{
		key:        key,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
		log:        log.With("module", "mail"),
	}
}

func (m *SendgridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail("", msg.To))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(sgmail.NewContent("text/plain", msg.Text))
	return v3
}

func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	req := sendgrid.GetRequest(m.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := sendAPI(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		m.log.Error(ctx, "sendgrid rejected mail", "status", res.StatusCode, "body", res.Body)
		return fmt.Errorf("sendgrid: status %d", res.StatusCode)
	}
	m.log.Debug(ctx, "mail sent", "to", msg.To, "status", res.StatusCode)
	return nil
}
