package database

import (
	"context"

	"github.com/chikhali-gp/portal/backend/models"
)

// SettingsRepo treats the settings collection as a singleton.
type SettingsRepo struct {
	repo Repo[models.SiteSettings]
}

func NewSettingsRepo(repo Repo[models.SiteSettings]) *SettingsRepo {
	return &SettingsRepo{repo: repo}
}

// Get returns the first settings record, or nil when none was saved yet.
func (r *SettingsRepo) Get(ctx context.Context) (*models.SiteSettings, error) {
	all, err := r.repo.FindAll(ctx)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return &all[0], nil
}

// Save merges patch into the existing settings, creating them when absent.
func (r *SettingsRepo) Save(ctx context.Context, patch models.Patch) (*models.SiteSettings, error) {
	current, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return r.repo.Update(ctx, current.ID, patch)
	}

	var fresh models.SiteSettings
	if err := models.Merge(&fresh, patch); err != nil {
		return nil, err
	}
	return r.repo.Add(ctx, fresh)
}
