package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chikhali-gp/portal/backend/database"
	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/chikhali-gp/portal/backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxJSONBody matches the blob backend's default quota.
const maxJSONBody = 5 << 20

// collectionOptions customise one collection's form and list behaviour.
type collectionOptions[T any] struct {
	// visible hides records from public reads
	visible func(*T) bool
	// filter narrows list results using query parameters
	filter func(*http.Request, *T) bool
	// view shapes a record for responses
	view func(T) any
	// normalize rewrites an incoming patch before it is merged
	normalize func(models.Patch) error
	// check vets an update against the stored record
	check func(current, next *T) error
	// changed runs after every successful write
	changed func(ctx context.Context)
}

// collectionHandler serves list, get, create, update and delete for one
// record type.
type collectionHandler[T any, PT models.Record[T]] struct {
	responder Responder
	logger    zerolog.Logger
	entity    string
	repo      database.Repo[T]
	opts      collectionOptions[T]
}

func newCollectionHandler[T any, PT models.Record[T]](repo database.Repo[T], opts collectionOptions[T]) collectionHandler[T, PT] {
	entity := PT(new(T)).Collection().Name
	logger := log.With().Str("handlerName", entity+"Handler").Logger()

	return collectionHandler[T, PT]{
		responder: NewResponder(logger),
		logger:    logger,
		entity:    entity,
		repo:      repo,
		opts:      opts,
	}
}

func (h collectionHandler[T, PT]) present(record T) any {
	if h.opts.view != nil {
		return h.opts.view(record)
	}
	return record
}

func (h collectionHandler[T, PT]) hidden(public bool, record *T) bool {
	return public && h.opts.visible != nil && !h.opts.visible(record)
}

func (h collectionHandler[T, PT]) list(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.repo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}

		out := make([]any, 0, len(records))
		for i := range records {
			if h.hidden(public, &records[i]) {
				continue
			}
			if h.opts.filter != nil && !h.opts.filter(r, &records[i]) {
				continue
			}
			out = append(out, h.present(records[i]))
		}
		h.responder.WriteJSON(w, out)
	}
}

func (h collectionHandler[T, PT]) get(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		record, err := h.repo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}
		if record == nil || h.hidden(public, record) {
			h.responder.WriteError(w, errs.NewNotFound(h.entity))
			return
		}
		h.responder.WriteJSON(w, h.present(*record))
	}
}

func (h collectionHandler[T, PT]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patch, err := decodePatch(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if h.opts.normalize != nil {
			if err := h.opts.normalize(patch); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		var record T
		if err := models.Merge(&record, patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		created, err := h.repo.Add(r.Context(), record)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", h.entity, err))
			return
		}
		h.afterWrite(r.Context())

		h.logger.Info().Str("id", PT(created).Metadata().ID).Msg("Created record")
		h.responder.WriteJSONStatus(w, http.StatusCreated, h.present(*created))
	}
}

func (h collectionHandler[T, PT]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		patch, err := decodePatch(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		current, err := h.repo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}
		if current == nil {
			h.responder.WriteError(w, errs.NewNotFound(h.entity))
			return
		}
		if h.opts.normalize != nil {
			if err := h.opts.normalize(patch); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}
		if h.opts.check != nil {
			next := *current
			if err := models.Merge(&next, patch); err != nil {
				h.responder.WriteError(w, err)
				return
			}
			if err := h.opts.check(current, &next); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		updated, err := h.repo.Update(r.Context(), id, patch)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", h.entity, err))
			return
		}
		if updated == nil {
			h.responder.WriteError(w, errs.NewNotFound(h.entity))
			return
		}
		h.afterWrite(r.Context())
		h.responder.WriteJSON(w, h.present(*updated))
	}
}

func (h collectionHandler[T, PT]) remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		removed, err := h.repo.Delete(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", h.entity, err))
			return
		}
		if !removed {
			h.responder.WriteError(w, errs.NewNotFound(h.entity))
			return
		}
		h.afterWrite(r.Context())

		h.logger.Info().Str("id", id).Msg("Deleted record")
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h collectionHandler[T, PT]) afterWrite(ctx context.Context) {
	if h.opts.changed != nil {
		h.opts.changed(ctx)
	}
}

// decodePatch reads a JSON object body.
func decodePatch(w http.ResponseWriter, r *http.Request) (models.Patch, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	var patch models.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return nil, errs.NewInvalidJSONError(err)
	}
	if patch == nil {
		return nil, errs.NewMalformedPayloadError("record", errors.New("body must be a JSON object"))
	}
	return patch, nil
}

// decodeJSON reads a JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewInvalidJSONError(err)
	}
	return nil
}
