package services

import (
	"crypto/tls"
	"fmt"
	"html"
	"net/mail"
	"strings"

	"github.com/chikhali-gp/portal/backend/config"
	"github.com/chikhali-gp/portal/backend/errs"
	gomail "github.com/go-mail/mail/v2"
	"github.com/rs/zerolog/log"
)

// MailSender delivers composed messages. *gomail.Dialer satisfies it.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends HTML email over SMTP.
type Mailer struct {
	sender MailSender
	from   string
}

// NewMailer reads SMTP_HOST, SMTP_PORT (default 587), SMTP_USER, SMTP_PASS,
// SMTP_FROM and SMTP_SKIP_TLS_VERIFY. Without SMTP_HOST or SMTP_FROM the mailer
// is not configured.
func NewMailer(cfg map[string]string) (*Mailer, error) {
	host := config.GetString(cfg, "SMTP_HOST", "")
	from := config.GetString(cfg, "SMTP_FROM", "")
	if host == "" || from == "" {
		return nil, errs.NewServiceNotConfiguredError("smtp")
	}

	d := gomail.NewDialer(
		host,
		config.GetInt(cfg, "SMTP_PORT", 587),
		config.GetString(cfg, "SMTP_USER", ""),
		config.GetString(cfg, "SMTP_PASS", ""),
	)
	d.StartTLSPolicy = gomail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: config.GetBool(cfg, "SMTP_SKIP_TLS_VERIFY", false),
	}
	return NewMailerWithSender(d, from), nil
}

func NewMailerWithSender(sender MailSender, from string) *Mailer {
	return &Mailer{sender: sender, from: from}
}

// SendEmail sends an HTML body to every recipient in one message.
func (m *Mailer) SendEmail(subject, body string, recipients []string, replyTo string) error {
	if len(recipients) == 0 {
		return errs.NewMissingRequiredFieldError("recipients")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	if replyTo != "" {
		msg.SetHeader("Reply-To", replyTo)
	}
	msg.SetBody("text/html", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		return errs.NewDeliveryFailedError("email", err)
	}
	log.Info().Strs("to", recipients).Str("subject", subject).Msg("Sent email")
	return nil
}

// ContactEnquiry is a message left through the public contact form.
type ContactEnquiry struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

func (e *ContactEnquiry) Validate() error {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)
	e.Message = strings.TrimSpace(e.Message)
	switch {
	case e.Name == "":
		return errs.NewMissingRequiredFieldError("name")
	case e.Email == "":
		return errs.NewMissingRequiredFieldError("email")
	case e.Message == "":
		return errs.NewMissingRequiredFieldError("message")
	}
	if _, err := mail.ParseAddress(e.Email); err != nil {
		return errs.NewInvalidFieldError("email", "not a valid address")
	}
	return nil
}

// SendEnquiry forwards a contact enquiry to the office address, with the
// sender as the reply-to.
func (m *Mailer) SendEnquiry(officeEmail string, e ContactEnquiry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if officeEmail == "" {
		return errs.NewServiceNotConfiguredError("contact email")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s &lt;%s&gt;</p>", html.EscapeString(e.Name), html.EscapeString(e.Email))
	if e.Phone != "" {
		fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>", html.EscapeString(e.Phone))
	}
	fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(e.Message), "\n", "<br>"))

	return m.SendEmail("Website enquiry from "+e.Name, b.String(), []string{officeEmail}, e.Email)
}
