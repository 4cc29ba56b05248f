package starfield

// Palette is a fixed set of star colors drawn uniformly.
type Palette []RGB

// LevelColors pairs the disk color of a star level with its big star render colors.
type LevelColors struct {
	GalaxyStar []RGB
	BigStar    []BigStarColor
}

// FarStarColors tint blink stars and the far star sky.
var FarStarColors = Palette{
	{R: 0.820, G: 0.875, B: 1.000},
	{R: 0.678, G: 0.769, B: 1.000},
	{R: 1.000, G: 0.957, B: 0.918},
	{R: 1.000, G: 0.890, B: 0.780},
	{R: 1.000, G: 0.800, B: 0.600},
	{R: 0.984, G: 0.973, B: 1.000},
}

// Races indexes star owner races by raceId.
var Races = []string{"Waters", "Humans", "Insects", "Lizards", "Robots"}

// StarLevelColors is keyed by star level 1..5.
var StarLevelColors = map[int]LevelColors{
	1: {
		GalaxyStar: []RGB{{R: 0.631, G: 0.741, B: 1.000}, {R: 0.949, G: 0.949, B: 1.000}},
		BigStar: []BigStarColor{
			{Main: RGB{R: 0.545, G: 0.663, B: 1.000}, Corona: RGB{R: 0.416, G: 0.545, B: 0.961}},
			{Main: RGB{R: 0.961, G: 0.961, B: 1.000}, Corona: RGB{R: 0.780, G: 0.816, B: 1.000}},
		},
	},
	2: {
		GalaxyStar: []RGB{{R: 1.000, G: 0.937, B: 0.725}},
		BigStar:    []BigStarColor{{Main: RGB{R: 1.000, G: 0.918, B: 0.620}, Corona: RGB{R: 1.000, G: 0.780, B: 0.380}}},
	},
	3: {
		GalaxyStar: []RGB{{R: 1.000, G: 0.792, B: 0.478}},
		BigStar:    []BigStarColor{{Main: RGB{R: 1.000, G: 0.737, B: 0.376}, Corona: RGB{R: 1.000, G: 0.561, B: 0.212}}},
	},
	4: {
		GalaxyStar: []RGB{{R: 1.000, G: 0.561, B: 0.443}},
		BigStar:    []BigStarColor{{Main: RGB{R: 1.000, G: 0.486, B: 0.373}, Corona: RGB{R: 0.918, G: 0.263, B: 0.169}}},
	},
	5: {
		GalaxyStar: []RGB{{R: 0.816, G: 0.537, B: 1.000}},
		BigStar:    []BigStarColor{{Main: RGB{R: 0.765, G: 0.451, B: 1.000}, Corona: RGB{R: 0.561, G: 0.212, B: 0.918}}},
	},
}

// levelRange is an inclusive integer range.
type levelRange struct{ min, max int }

var planetSlotRanges = map[int]levelRange{
	1: {1, 5},
	2: {5, 10},
	3: {10, 25},
	4: {25, 50},
	5: {50, 100},
}

var energyRanges = map[int]levelRange{
	1: {1, 10},
	2: {10, 25},
	3: {25, 50},
	4: {50, 100},
	5: {100, 1000},
}
