package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/nivosearch/internal/domain"
	"github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

// MaxQueryLength is the maximum accepted query length in bytes.
const MaxQueryLength = 256

// Request is one live search call. Immutable after New.
type Request struct {
	query     string
	presetID  int64
	overrides settings.Layer
}

// New validates the raw inputs. A non-positive preset id means "none".
// Minimum length is not checked here; it depends on the merged settings.
func New(query string, presetID int64, overrides settings.Layer) (Request, error) {
	query = strings.TrimSpace(query)
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if presetID < 0 {
		presetID = 0
	}
	ov := make(settings.Layer, len(overrides))
	for k, v := range overrides {
		ov[k] = v
	}
	return Request{
		query:     query,
		presetID:  presetID,
		overrides: ov,
	}, nil
}

// Query returns the trimmed query text.
func (r *Request) Query() string { return r.query }

// PresetID returns the requested preset id, 0 when none.
func (r *Request) PresetID() int64 { return r.presetID }

// Overrides returns a copy of the raw request-level overrides.
func (r *Request) Overrides() settings.Layer {
	out := make(settings.Layer, len(r.overrides))
	for k, v := range r.overrides {
		out[k] = v
	}
	return out
}
