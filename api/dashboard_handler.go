package api

import (
	"context"
	"net/http"

	"github.com/chikhali-gp/portal/backend/database"
	"github.com/chikhali-gp/portal/backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type dashboardHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newDashboardHandler(db database.Database) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()

	return dashboardHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

func countOf[T any](ctx context.Context, repo database.Repo[T], into *int) error {
	all, err := repo.FindAll(ctx)
	*into = len(all)
	return err
}

// counts fetches each collection concurrently
func (h dashboardHandler) counts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var counts DashboardCounts
		g, ctx := errgroup.WithContext(r.Context())

		g.Go(func() error {
			all, err := h.db.BlogPostRepo().FindAll(ctx)
			if err != nil {
				return err
			}
			counts.Posts = len(all)
			for i := range all {
				if all[i].Published() {
					counts.PublishedPosts++
				}
			}
			return nil
		})
		g.Go(func() error { return countOf(ctx, h.db.SchemeRepo(), &counts.Schemes) })
		g.Go(func() error { return countOf(ctx, h.db.NoticeRepo(), &counts.Notices) })
		g.Go(func() error { return countOf(ctx, h.db.OfficialRepo(), &counts.Officials) })
		g.Go(func() error { return countOf[models.Tender](ctx, h.db.TenderRepo(), &counts.Tenders) })
		g.Go(func() error {
			pending, err := h.db.TaxRecordRepo().Pending(ctx)
			counts.PendingTaxes = len(pending)
			return err
		})

		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "records", err))
			return
		}
		h.responder.WriteJSON(w, counts)
	}
}
