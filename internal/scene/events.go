package scene

// Event names published on the EventBus.
const (
	EventShowStarPreview = "showStarPreview"
	EventHideStarPreview = "hideStarPreview"
	EventShowStarPanel   = "showStarPanel"
	EventStateChanged    = "stateChanged"
)

type Event interface {
	EventName() string
}

type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StarPreview is published when a star marker is selected in the overview.
type StarPreview struct {
	StarID      int     `json:"starId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Level       int     `json:"level"`
	Race        string  `json:"race"`
	Pos2D       Point2D `json:"pos2d"`
}

func (StarPreview) EventName() string { return EventShowStarPreview }

type HideStarPreview struct{}

func (HideStarPreview) EventName() string { return EventHideStarPreview }

// StarPanel carries the full star info once the camera settles on a star.
type StarPanel struct {
	StarID      int     `json:"starId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Level       int     `json:"level"`
	Race        string  `json:"race"`
	PlanetSlots int     `json:"planetSlots"`
	Energy      int     `json:"energy"`
	Life        int     `json:"life"`
	Scale       float64 `json:"scale"`
}

func (StarPanel) EventName() string { return EventShowStarPanel }

type StateChanged struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (StateChanged) EventName() string { return EventStateChanged }
