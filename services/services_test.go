package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/chikhali-gp/portal/backend/models"
	gomail "github.com/go-mail/mail/v2"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

func TestNormalizeMobile(t *testing.T) {
	cases := map[string]string{
		"98765 43210":     "+919876543210",
		"09876543210":     "+919876543210",
		"919876543210":    "+919876543210",
		"+91 98765-43210": "+919876543210",
		"+1 415 555 0100": "+14155550100",
		"12345":           "",
		"":                "",
	}
	for in, want := range cases {
		if got := NormalizeMobile(in); got != want {
			t.Errorf("NormalizeMobile(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTaxReminderBody(t *testing.T) {
	body := TaxReminderBody(models.TaxRecord{
		HouseNo: "H-12", OwnerName: "Ramesh Patil", HouseTax: 1200, WaterTax: 300.5, DueDate: "2024-03-31",
	}, "GP Chikhali")
	for _, want := range []string{"Ramesh Patil", "Rs 1500.50", "H-12", "2024-03-31", "GP Chikhali"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}
}

type pendingList []models.TaxRecord

func (p pendingList) Pending(context.Context) ([]models.TaxRecord, error) { return p, nil }

type recordingTwilio struct {
	to      []string
	failFor string
}

func (r *recordingTwilio) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	to := *params.To
	if to == r.failFor {
		return nil, errors.New("21610: unsubscribed recipient")
	}
	r.to = append(r.to, to)
	sid := "SM" + to
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func TestSendTaxRemindersCollectsFailures(t *testing.T) {
	twilio := &recordingTwilio{failFor: "+919000000002"}
	reminders := NewTaxRemindersWithClient(twilio, "+15005550006", "GP Chikhali")

	taxes := pendingList{
		{Meta: models.Meta{ID: "t1"}, Mobile: "9000000001", OwnerName: "A"},
		{Meta: models.Meta{ID: "t2"}, Mobile: "9000000002", OwnerName: "B"},
		{Meta: models.Meta{ID: "t3"}, Mobile: "", OwnerName: "C"},
		{Meta: models.Meta{ID: "t4"}, Mobile: "9000000004", OwnerName: "D"},
	}
	report, err := reminders.SendTaxReminders(context.Background(), taxes)
	if !errs.IsPartialFailureError(err) {
		t.Fatalf("SendTaxReminders() error = %v", err)
	}
	if strings.Join(report.Sent, ",") != "t1,t4" {
		t.Fatalf("sent = %v", report.Sent)
	}
	if len(report.Skipped) != 1 || report.Skipped[0] != "t3" {
		t.Fatalf("skipped = %v", report.Skipped)
	}
	if _, ok := report.Failed["t2"]; !ok || len(report.Failed) != 1 {
		t.Fatalf("failed = %v", report.Failed)
	}
	if len(twilio.to) != 2 {
		t.Fatalf("texts sent = %v", twilio.to)
	}
}

func TestTaxRemindersNeedConfig(t *testing.T) {
	if _, err := NewTaxReminders(map[string]string{"TWILIO_ACCOUNT_SID": "AC1"}); !errs.IsServiceNotConfiguredError(err) {
		t.Fatalf("NewTaxReminders() error = %v", err)
	}
}

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.sent = append(c.sent, m...)
	return c.err
}

func TestSendEnquiry(t *testing.T) {
	sender := &captureSender{}
	m := NewMailerWithSender(sender, "Portal <no-reply@gp.in>")

	err := m.SendEnquiry("office@gp.in", ContactEnquiry{
		Name: " Sunita ", Email: "sunita@example.com", Message: "Water supply <stopped>",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("messages sent = %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "office@gp.in" {
		t.Fatalf("To = %v", got)
	}
	if got := msg.GetHeader("Reply-To"); len(got) != 1 || got[0] != "sunita@example.com" {
		t.Fatalf("Reply-To = %v", got)
	}
	if got := msg.GetHeader("Subject"); len(got) != 1 || got[0] != "Website enquiry from Sunita" {
		t.Fatalf("Subject = %v", got)
	}
}

func TestSendEnquiryValidation(t *testing.T) {
	m := NewMailerWithSender(&captureSender{}, "no-reply@gp.in")
	cases := []ContactEnquiry{
		{Email: "a@b.in", Message: "hi"},
		{Name: "A", Message: "hi"},
		{Name: "A", Email: "a@b.in", Message: "  "},
	}
	for _, e := range cases {
		if err := m.SendEnquiry("office@gp.in", e); !errs.IsMissingRequiredFieldError(err) {
			t.Errorf("SendEnquiry(%+v) = %v", e, err)
		}
	}
	if err := m.SendEnquiry("office@gp.in", ContactEnquiry{Name: "A", Email: "not-an-email", Message: "hi"}); !errs.IsInvalidFieldError(err) {
		t.Errorf("bad email: %v", err)
	}
	if err := m.SendEnquiry("", ContactEnquiry{Name: "A", Email: "a@b.in", Message: "hi"}); !errs.IsServiceNotConfiguredError(err) {
		t.Errorf("no office email: %v", err)
	}
}

func TestSendEmailDeliveryFailure(t *testing.T) {
	m := NewMailerWithSender(&captureSender{err: errors.New("535 auth failed")}, "no-reply@gp.in")
	if err := m.SendEmail("s", "b", []string{"x@gp.in"}, ""); !errs.IsDeliveryFailedError(err) {
		t.Fatalf("SendEmail() = %v", err)
	}
}
