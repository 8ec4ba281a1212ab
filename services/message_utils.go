package services

import (
	"fmt"
	"strings"

	"github.com/chikhali-gp/portal/backend/models"
)

const indiaCallingCode = "+91"

// NormalizeMobile turns a local ten digit number into E.164. Numbers that
// already carry a country code keep it. Anything else returns "".
func NormalizeMobile(mobile string) string {
	var digits strings.Builder
	for _, r := range mobile {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case strings.HasPrefix(strings.TrimSpace(mobile), "+") && len(d) >= 10:
		return "+" + d
	case len(d) == 10:
		return indiaCallingCode + d
	case len(d) == 11 && d[0] == '0':
		return indiaCallingCode + d[1:]
	case len(d) == 12 && strings.HasPrefix(d, "91"):
		return "+" + d
	}
	return ""
}

// TaxReminderBody is the SMS text sent for one pending tax record.
func TaxReminderBody(t models.TaxRecord, office string) string {
	body := fmt.Sprintf("Dear %s, tax of Rs %.2f (house %.2f, water %.2f) for house no %s is pending",
		t.OwnerName, t.TotalDue(), t.HouseTax, t.WaterTax, t.HouseNo)
	if t.DueDate != "" {
		body += " and due on " + t.DueDate
	}
	body += "."
	if office != "" {
		body += " - " + office
	}
	return body
}
