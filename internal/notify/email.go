package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resendlabs/resend-go"
	"github.com/rs/zerolog"

	"vastusite/internal/config"
	"vastusite/internal/models"
)

type Notifier interface {
	LeadNeedsFollowUp(ctx context.Context, lead models.Lead) error
	PartnerApplied(ctx context.Context, app models.PartnerApplication) error
	Digest(ctx context.Context, digest models.LeadDigest) error
}

// EmailNotifier mails the site owner through Resend.
type EmailNotifier struct {
	send func(*resend.SendEmailRequest) error
	from string
	to   string
	log  zerolog.Logger
}

// New returns an EmailNotifier, or a LogNotifier when no API key or admin
// address is configured.
func New(cfg config.NotifyConfig, log zerolog.Logger) Notifier {
	if cfg.ResendAPIKey == "" || cfg.AdminEmail == "" {
		log.Info().Msg("email notifications disabled")
		return LogNotifier{log: log}
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailNotifier{
		send: func(req *resend.SendEmailRequest) error {
			_, err := client.Emails.Send(req)
			return err
		},
		from: fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
		to:   cfg.AdminEmail,
		log:  log,
	}
}

func (n *EmailNotifier) LeadNeedsFollowUp(ctx context.Context, lead models.Lead) error {
	subject := fmt.Sprintf("Follow up: %s (%s)", lead.Name, lead.City)
	body := renderRows("A lead could not be classified automatically and needs a call.", [][2]string{
		{"Lead", lead.ID},
		{"Name", lead.Name},
		{"Phone", lead.Phone},
		{"City", lead.City},
		{"Plot size", lead.PlotSize},
		{"Direction", lead.Direction},
		{"Rooms", lead.Rooms},
		{"Notes", lead.Notes},
	})
	return n.mail(subject, body)
}

func (n *EmailNotifier) PartnerApplied(ctx context.Context, app models.PartnerApplication) error {
	subject := fmt.Sprintf("Partner application: %s", app.Name)
	body := renderRows("A new partner application was submitted.", [][2]string{
		{"Application", app.ApplicationID},
		{"Referral code", app.ReferralCode},
		{"Name", app.Name},
		{"Email", app.Email},
		{"Phone", app.Phone},
		{"Company", app.Company},
		{"City", app.City},
		{"Experience", app.Experience},
		{"Message", app.Message},
	})
	return n.mail(subject, body)
}

func (n *EmailNotifier) Digest(ctx context.Context, digest models.LeadDigest) error {
	subject := fmt.Sprintf("Leads digest: %d pending, %d need follow-up", digest.Stats.Pending, digest.Stats.NeedsFollowUp)
	body := renderRows("Lead summary for "+digest.GeneratedAt.Format("2 Jan 2006")+".", [][2]string{
		{"Total", fmt.Sprint(digest.Stats.Total)},
		{"Pending", fmt.Sprint(digest.Stats.Pending)},
		{"AI generated", fmt.Sprint(digest.Stats.AIGenerated)},
		{"Needs follow-up", fmt.Sprint(digest.Stats.NeedsFollowUp)},
	})
	return n.mail(subject, body)
}

func (n *EmailNotifier) mail(subject, htmlBody string) error {
	err := n.send(&resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: subject,
		Html:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("send %q via resend: %w", subject, err)
	}
	n.log.Info().Str("subject", subject).Msg("notification sent")
	return nil
}

func renderRows(intro string, rows [][2]string) string {
	var b strings.Builder
	b.WriteString("<p>")
	b.WriteString(html.EscapeString(intro))
	b.WriteString("</p><table>")
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "<tr><th align=\"left\">%s</th><td>%s</td></tr>", html.EscapeString(row[0]), html.EscapeString(row[1]))
	}
	b.WriteString("</table>")
	return b.String()
}

// LogNotifier records notifications in the log only.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) LogNotifier {
	return LogNotifier{log: log}
}

func (n LogNotifier) LeadNeedsFollowUp(_ context.Context, lead models.Lead) error {
	n.log.Info().Str("lead_id", lead.ID).Str("phone", lead.Phone).Msg("lead needs follow-up")
	return nil
}

func (n LogNotifier) PartnerApplied(_ context.Context, app models.PartnerApplication) error {
	n.log.Info().Str("application_id", app.ApplicationID).Str("email", app.Email).Msg("partner application")
	return nil
}

func (n LogNotifier) Digest(_ context.Context, digest models.LeadDigest) error {
	n.log.Info().
		Int("total", digest.Stats.Total).
		Int("pending", digest.Stats.Pending).
		Int("needs_follow_up", digest.Stats.NeedsFollowUp).
		Msg("lead digest")
	return nil
}
