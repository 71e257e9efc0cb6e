package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/resendlabs/resend-go"
	"github.com/rs/zerolog"

	"vastusite/internal/config"
	"vastusite/internal/models"
)

func newTestNotifier(sent *[]*resend.SendEmailRequest, err error) *EmailNotifier {
	return &EmailNotifier{
		send: func(req *resend.SendEmailRequest) error {
			*sent = append(*sent, req)
			return err
		},
		from: "Vastu Leads <noreply@example.com>",
		to:   "owner@example.com",
		log:  zerolog.Nop(),
	}
}

func TestNewWithoutKeyLogsOnly(t *testing.T) {
	n := New(config.NotifyConfig{AdminEmail: "owner@example.com"}, zerolog.Nop())
	if _, ok := n.(LogNotifier); !ok {
		t.Fatalf("notifier = %T, want LogNotifier", n)
	}

	n = New(config.NotifyConfig{ResendAPIKey: "re_test", AdminEmail: "owner@example.com"}, zerolog.Nop())
	if _, ok := n.(*EmailNotifier); !ok {
		t.Fatalf("notifier = %T, want *EmailNotifier", n)
	}
}

func TestLeadNeedsFollowUpEmail(t *testing.T) {
	var sent []*resend.SendEmailRequest
	n := newTestNotifier(&sent, nil)

	err := n.LeadNeedsFollowUp(context.Background(), models.Lead{
		ID:    "lead_1",
		Name:  "Asha <script>",
		Phone: "98765",
		City:  "Pune",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("sent %d emails", len(sent))
	}
	req := sent[0]
	if req.To[0] != "owner@example.com" || !strings.Contains(req.Subject, "Pune") {
		t.Fatalf("request = %+v", req)
	}
	if strings.Contains(req.Html, "<script>") || !strings.Contains(req.Html, "98765") {
		t.Fatalf("html = %s", req.Html)
	}
	if strings.Contains(req.Html, "Rooms") {
		t.Fatalf("empty rows should be omitted: %s", req.Html)
	}
}

func TestDigestEmail(t *testing.T) {
	var sent []*resend.SendEmailRequest
	n := newTestNotifier(&sent, nil)

	err := n.Digest(context.Background(), models.LeadDigest{
		Stats:       models.LeadStats{Total: 5, Pending: 2, NeedsFollowUp: 1},
		GeneratedAt: time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if sent[0].Subject != "Leads digest: 2 pending, 1 need follow-up" {
		t.Fatalf("subject = %q", sent[0].Subject)
	}
}

func TestSendErrorIsWrapped(t *testing.T) {
	boom := errors.New("rate limited")
	var sent []*resend.SendEmailRequest
	n := newTestNotifier(&sent, boom)

	err := n.PartnerApplied(context.Background(), models.PartnerApplication{Name: "Ravi"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
