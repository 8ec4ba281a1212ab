package database

import (
	"context"
	"fmt"

	"github.com/chikhali-gp/portal/backend/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Seed fills every empty collection with the sample content. Collections that
// already hold records are left alone. The blob backend seeds itself on read.
func (d Database) Seed(ctx context.Context) error {
	if d.Kind() == KindBlob {
		return nil
	}

	seed := models.Seed()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return seedCollection(ctx, d.blogPostRepo, seed.Posts) })
	g.Go(func() error { return seedCollection(ctx, d.noticeRepo, seed.Notices) })
	g.Go(func() error { return seedCollection(ctx, d.schemeRepo, seed.Schemes) })
	g.Go(func() error { return seedCollection(ctx, d.serviceRepo, seed.Services) })
	g.Go(func() error { return seedCollection(ctx, d.projectRepo, seed.Projects) })
	g.Go(func() error { return seedCollection[models.Tender](ctx, d.tenderRepo, seed.Tenders) })
	g.Go(func() error { return seedCollection(ctx, d.meetingRepo, seed.Meetings) })
	g.Go(func() error { return seedCollection(ctx, d.officialRepo, seed.Officials) })
	g.Go(func() error { return seedCollection[models.TaxRecord](ctx, d.taxRecordRepo, seed.Taxes) })
	g.Go(func() error { return seedCollection(ctx, d.galleryRepo, seed.Gallery) })
	g.Go(func() error { return seedCollection(ctx, d.settingsRepo.repo, seed.Settings) })
	return g.Wait()
}

func seedCollection[T any](ctx context.Context, repo Repo[T], records []T) error {
	existing, err := repo.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 || len(records) == 0 {
		return nil
	}
	for _, record := range records {
		if _, err := repo.Add(ctx, record); err != nil {
			return fmt.Errorf("seed %T: %w", record, err)
		}
	}
	log.Info().Str("component", "seed").Str("type", fmt.Sprintf("%T", records[0])).Int("count", len(records)).Msg("Seeded empty collection")
	return nil
}
