package layout

import (
	"encoding/json"

	"galaxy-explorer/internal/shared/errors"
	"galaxy-explorer/internal/starfield"
)

// document is the persisted layout format. Derived populations are
// regenerated on load and never stored.
type document struct {
	Galaxy      starfield.GalaxySettings `json:"galaxyData"`
	Stars       []starfield.Star         `json:"galaxyStarsData"`
	BlinkStars  []starfield.Star         `json:"galaxyBlinkStarsData,omitempty"`
	FarGalaxies []starfield.FarGalaxy    `json:"farGalaxiesData"`
}

// Encode serializes a field to the persisted layout format.
func Encode(f *starfield.Field) ([]byte, error) {
	if f == nil {
		return nil, errors.Validation("layout field is required")
	}
	data, err := json.Marshal(document{
		Galaxy:      f.Galaxy,
		Stars:       f.Stars,
		BlinkStars:  f.BlinkStars,
		FarGalaxies: f.FarGalaxies,
	})
	if err != nil {
		return nil, errors.WrapInternal("failed to encode layout", err)
	}
	return data, nil
}

// Decode parses and validates a persisted layout. The returned field has no
// corona or far stars; callers decorate it before use.
func Decode(data []byte) (*starfield.Field, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapValidation("malformed layout document", err)
	}
	if len(doc.Stars) == 0 {
		return nil, errors.Validation("layout has no galaxy stars")
	}

	seen := make(map[int]struct{}, len(doc.Stars))
	for _, s := range doc.Stars {
		if _, dup := seen[s.ID]; dup {
			return nil, errors.Validationf("duplicate star id %d", s.ID)
		}
		seen[s.ID] = struct{}{}
		if s.StarInfo != nil && (s.StarInfo.Level < 1 || s.StarInfo.Level > 5) {
			return nil, errors.Validationf("star %d has invalid level %d", s.ID, s.StarInfo.Level)
		}
	}

	return &starfield.Field{
		Galaxy:      doc.Galaxy,
		Stars:       doc.Stars,
		BlinkStars:  doc.BlinkStars,
		FarGalaxies: doc.FarGalaxies,
	}, nil
}
