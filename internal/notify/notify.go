package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"tenderbot/internal/components/assert"
	"tenderbot/internal/components/telemetry"
	"tenderbot/internal/scrapers/zakupki"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("tenderbot.internal.notify")

const report_notify_send = "notifier.send-summary"

type Config struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	To           []string `json:"to"`
}

// Enabled is false when there is no server or no recipient configured.
func (c Config) Enabled() bool {
	return c.Server != "" && len(c.To) > 0
}

func (c Config) addr() string {
	return fmt.Sprintf("%s:%d", c.Server, c.Port)
}

// Notifier e-mails the summary of a scrape run.
type Notifier struct {
	config Config
	tel    telemetry.API
}

func NewNotifier(config Config, tel telemetry.API) Notifier {
	assert.NotNil(tel)
	return Notifier{config: config, tel: tel}
}

// Subject is the subject line of the summary of a run.
func Subject(summary zakupki.Summary) string {
	return fmt.Sprintf(
		"tenderbot run %s: %d listings, %d incomplete",
		summary.RunID,
		summary.Listings,
		summary.Incomplete,
	)
}

// Body renders the summary as a plain text table followed by the run error,
// if any.
func Body(summary zakupki.Summary, runErr error) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run", "Pages", "Listings", "Incomplete", "Persisted", "Failed"})
	t.AppendRow(table.Row{
		summary.RunID,
		summary.Pages,
		summary.Listings,
		summary.Incomplete,
		summary.Persisted,
		summary.Failed,
	})

	var out strings.Builder
	out.WriteString(t.Render())
	out.WriteString("\n")
	if runErr != nil {
		out.WriteString("\nThe run finished with errors:\n\n")
		out.WriteString(runErr.Error())
		out.WriteString("\n")
	}
	return out.String()
}

func (n Notifier) SendSummary(ctx context.Context, summary zakupki.Summary, runErr error) error {
	ctx, span := tracer.Start(ctx, "SendSummary")
	defer span.End()

	if !n.config.Enabled() {
		return nil
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("tenderbot <%s>", n.config.EmailAddress)
	mail.To = n.config.To
	mail.Subject = Subject(summary)
	mail.Text = []byte(Body(summary, runErr))

	err := mail.Send(
		n.config.addr(),
		smtp.PlainAuth("", n.config.EmailAddress, n.config.Password, n.config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(n.config.addr(), nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		n.tel.ReportBroken(report_notify_send, err, summary.RunID)
		return fmt.Errorf("send summary of run %s: %w", summary.RunID, err)
	}
	return nil
}
