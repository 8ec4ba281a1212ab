package models

import (
	"encoding/json"
	"errors"

	"github.com/chikhali-gp/portal/backend/errs"
)

// Patch is a partial record keyed by JSON field name.
type Patch map[string]any

// immutable keys are never taken from a patch
var immutable = map[string]bool{"id": true, "createdAt": true}

// Has reports whether the patch sets field to a non-empty string.
func (p Patch) Has(field string) bool {
	s, ok := p[field].(string)
	return ok && s != ""
}

// Merge applies patch to dst as a shallow merge: top-level fields in the patch
// replace or add to the record's fields, everything else is left as stored.
func Merge[T any](dst *T, patch Patch) error {
	current, err := json.Marshal(dst)
	if err != nil {
		return errs.NewInternalErrorWithCause("encode record", err)
	}
	doc := map[string]any{}
	if err := json.Unmarshal(current, &doc); err != nil {
		return errs.NewInternalErrorWithCause("decode record", err)
	}
	for k, v := range patch {
		if immutable[k] {
			continue
		}
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return errs.NewMalformedPayloadError("patch", err)
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return errs.NewInvalidFieldError(typeErr.Field, "wrong type "+typeErr.Value)
		}
		return errs.NewMalformedPayloadError("patch", err)
	}
	*dst = out
	return nil
}

// PatchOf converts a record into a patch of all its fields.
func PatchOf(record any) (Patch, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	p := Patch{}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}
