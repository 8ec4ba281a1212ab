package models

import (
	"strings"
	"time"
)

type TaxStatus string

const (
	TaxPaid    TaxStatus = "Paid"
	TaxPending TaxStatus = "Pending"
)

// TaxRecord holds the yearly house and water tax of one property
type TaxRecord struct {
	Meta
	HouseNo   string    `json:"houseNo" db:"house_no" gorm:"type:text;not null;index"`
	OwnerName string    `json:"ownerName" db:"owner_name" gorm:"type:text;not null"`
	Address   string    `json:"address" db:"address" gorm:"type:text"`
	Mobile    string    `json:"mobile" db:"mobile" gorm:"type:text"`
	HouseTax  float64   `json:"houseTax" db:"house_tax" gorm:"not null;default:0"`
	WaterTax  float64   `json:"waterTax" db:"water_tax" gorm:"not null;default:0"`
	DueDate   string    `json:"dueDate" db:"due_date" gorm:"type:text"`
	Status    TaxStatus `json:"status" db:"status" gorm:"type:text;not null;index"`
}

func (TaxRecord) TableName() string { return Taxes.Table }
func (TaxRecord) Collection() Collection { return Taxes }
func (*TaxRecord) SortKey() string { return "" }

func (t *TaxRecord) ApplyDefaults(time.Time) {
	if t.Status == "" {
		t.Status = TaxPending
	}
}

func (t *TaxRecord) Validate() error {
	return firstError(
		required("houseNo", t.HouseNo),
		required("ownerName", t.OwnerName),
		oneOf("status", t.Status, TaxPaid, TaxPending),
		dateField("dueDate", t.DueDate),
	)
}

// TotalDue is derived on every read and never stored.
func (t *TaxRecord) TotalDue() float64 {
	return t.HouseTax + t.WaterTax
}

// Matches reports a case-insensitive substring match of query against the
// owner name or house number. query must already be lower-cased.
func (t *TaxRecord) Matches(query string) bool {
	return strings.Contains(strings.ToLower(t.OwnerName), query) ||
		strings.Contains(strings.ToLower(t.HouseNo), query)
}

// TaxView is the read shape of a tax record, carrying its total.
type TaxView struct {
	TaxRecord
	TotalDue float64 `json:"totalDue"`
}

func ViewTax(t TaxRecord) TaxView {
	return TaxView{TaxRecord: t, TotalDue: t.TotalDue()}
}
