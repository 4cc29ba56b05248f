package layout

import (
	"encoding/json"
	"regexp"
	"time"
)

// Layout is a named galaxy saved by an explorer. Document holds the encoded
// field and is omitted from listings.
type Layout struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	OwnerID    int             `json:"owner_id"`
	StarsCount int             `json:"stars_count"`
	Document   json.RawMessage `json:"document,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// GenerateRequest asks the server to generate and save a layout.
type GenerateRequest struct {
	Seed        uint64 `json:"seed"`
	StarsCount  int    `json:"stars_count,omitempty"`
	DebugLevels bool   `json:"debug_levels,omitempty"`
}

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

func ValidName(name string) bool {
	return namePattern.MatchString(name)
}
