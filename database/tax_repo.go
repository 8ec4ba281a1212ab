package database

import (
	"context"
	"strings"

	"github.com/chikhali-gp/portal/backend/models"
	"gorm.io/gorm"
)

// TaxRecordRepo adds owner/house search to the tax collection.
type TaxRecordRepo struct {
	Repo[models.TaxRecord]
	db *gorm.DB // set on the relational backend
}

func NewTaxRecordRepo(b Backend) *TaxRecordRepo {
	r := &TaxRecordRepo{Repo: NewRepo[models.TaxRecord](b)}
	if s, ok := b.(*GormStore); ok {
		r.db = s.db
	}
	return r
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches query case-insensitively against owner name and house number.
// A blank query matches nothing and does not touch the store.
func (r *TaxRecordRepo) Search(ctx context.Context, query string) ([]models.TaxRecord, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	if r.db != nil {
		pattern := "%" + likeEscaper.Replace(q) + "%"
		matches := []models.TaxRecord{}
		err := r.db.WithContext(ctx).
			Where(`LOWER(owner_name) LIKE ? ESCAPE '\' OR LOWER(house_no) LIKE ? ESCAPE '\'`, pattern, pattern).
			Order("created_at asc").
			Find(&matches).Error
		if err != nil {
			return nil, err
		}
		return matches, nil
	}

	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	matches := []models.TaxRecord{}
	for i := range all {
		if all[i].Matches(q) {
			matches = append(matches, all[i])
		}
	}
	return matches, nil
}

// Pending returns the records whose tax is still unpaid.
func (r *TaxRecordRepo) Pending(ctx context.Context) ([]models.TaxRecord, error) {
	if r.db != nil {
		pending := []models.TaxRecord{}
		err := r.db.WithContext(ctx).Where("status = ?", models.TaxPending).Order("created_at asc").Find(&pending).Error
		return pending, err
	}

	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	pending := []models.TaxRecord{}
	for _, t := range all {
		if t.Status == models.TaxPending {
			pending = append(pending, t)
		}
	}
	return pending, nil
}
