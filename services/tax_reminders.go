package services

import (
	"context"
	"fmt"

	"github.com/chikhali-gp/portal/backend/config"
	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/chikhali-gp/portal/backend/models"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator is the part of the Twilio messaging API the reminders use.
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// PendingTaxes lists tax records still to be paid.
type PendingTaxes interface {
	Pending(ctx context.Context) ([]models.TaxRecord, error)
}

// TaxReminders texts owners of pending tax records.
type TaxReminders struct {
	messages MessageCreator
	from     string
	office   string
}

// ReminderReport lists what happened to each pending record by id.
type ReminderReport struct {
	Sent    []string          `json:"sent"`
	Skipped []string          `json:"skipped"`
	Failed  map[string]string `json:"failed"`
}

// NewTaxReminders reads TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and
// TWILIO_FROM_NUMBER.
func NewTaxReminders(cfg map[string]string) (*TaxReminders, error) {
	sid := config.GetString(cfg, "TWILIO_ACCOUNT_SID", "")
	token := config.GetString(cfg, "TWILIO_AUTH_TOKEN", "")
	from := config.GetString(cfg, "TWILIO_FROM_NUMBER", "")
	if sid == "" || token == "" || from == "" {
		return nil, errs.NewServiceNotConfiguredError("twilio")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: sid,
		Password: token,
	})
	return NewTaxRemindersWithClient(client.Api, from, config.GetString(cfg, "OFFICE_NAME", "Gram Panchayat")), nil
}

func NewTaxRemindersWithClient(messages MessageCreator, from, office string) *TaxReminders {
	return &TaxReminders{messages: messages, from: from, office: office}
}

// SendTaxReminders texts every pending record with a usable mobile number, one
// at a time. A failed text does not stop the rest; the returned error lists
// the failures and the report still holds every success.
func (r *TaxReminders) SendTaxReminders(ctx context.Context, taxes PendingTaxes) (*ReminderReport, error) {
	pending, err := taxes.Pending(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReminderReport{Sent: []string{}, Skipped: []string{}, Failed: map[string]string{}}
	var failed []string
	for _, t := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		to := NormalizeMobile(t.Mobile)
		if to == "" {
			report.Skipped = append(report.Skipped, t.ID)
			continue
		}

		params := &openapi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(r.from)
		params.SetBody(TaxReminderBody(t, r.office))

		resp, err := r.messages.CreateMessage(params)
		if err != nil {
			log.Error().Err(err).Str("taxID", t.ID).Msg("Failed to send tax reminder")
			report.Failed[t.ID] = err.Error()
			failed = append(failed, fmt.Sprintf("%s: %v", t.ID, err))
			continue
		}
		sid := ""
		if resp != nil && resp.Sid != nil {
			sid = *resp.Sid
		}
		log.Info().Str("taxID", t.ID).Str("messageSid", sid).Msg("Sent tax reminder")
		report.Sent = append(report.Sent, t.ID)
	}

	if len(failed) > 0 {
		return report, errs.NewPartialFailureError("send tax reminders", failed)
	}
	return report, nil
}
