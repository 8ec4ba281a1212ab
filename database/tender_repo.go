package database

import (
	"context"
	"strings"
	"sync"

	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/chikhali-gp/portal/backend/models"
)

// TenderRepo adds applicant bookkeeping to the tender collection.
//
// Applicant changes read the tender and write back the whole list. mu makes
// that read-modify-write atomic within this process; writers in another
// process sharing the store are still last-write-wins and can drop an append.
type TenderRepo struct {
	Repo[models.Tender]

	mu sync.Mutex
}

func NewTenderRepo(repo Repo[models.Tender]) *TenderRepo {
	return &TenderRepo{Repo: repo}
}

// AddApplicant appends an applicant dated today. It returns nil, nil when the
// tender does not exist.
func (r *TenderRepo) AddApplicant(ctx context.Context, tenderID, name string) (*models.Applicant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewMissingRequiredFieldError("name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tender, err := r.FindByID(ctx, tenderID)
	if err != nil || tender == nil {
		return nil, err
	}

	applicant := models.Applicant{
		ID:              newUUID(),
		Name:            name,
		ApplicationDate: models.Today(now()),
	}
	applicants := append(tender.Applicants, applicant)
	updated, err := r.Update(ctx, tenderID, models.Patch{"applicants": applicants})
	if err != nil || updated == nil {
		return nil, err
	}
	return &applicant, nil
}

// RemoveApplicant drops one applicant by id and reports whether it was found.
// The tender itself is left in place.
func (r *TenderRepo) RemoveApplicant(ctx context.Context, tenderID, applicantID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tender, err := r.FindByID(ctx, tenderID)
	if err != nil || tender == nil {
		return false, err
	}

	kept := make([]models.Applicant, 0, len(tender.Applicants))
	for _, a := range tender.Applicants {
		if a.ID != applicantID {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(tender.Applicants) {
		return false, nil
	}
	updated, err := r.Update(ctx, tenderID, models.Patch{"applicants": kept})
	if err != nil {
		return false, err
	}
	return updated != nil, nil
}
