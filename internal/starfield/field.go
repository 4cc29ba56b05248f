package starfield

// Field is every dataset the galaxy scene renders.
type Field struct {
	Galaxy      GalaxySettings `json:"galaxyData"`
	Stars       []Star         `json:"galaxyStarsData"`
	BlinkStars  []Star         `json:"galaxyBlinkStarsData"`
	FarGalaxies []FarGalaxy    `json:"farGalaxiesData"`

	// Derived on every build, never persisted.
	Corona   []Star `json:"-"`
	FarStars []Star `json:"-"`
}

// Generate builds a complete field from settings.
func (g *Generator) Generate(galaxy GalaxySettings, sky SkySettings) *Field {
	f := &Field{Galaxy: galaxy}
	f.Stars = g.DiskStars(galaxy.Disk(), DiskScale, DiskScale, nil, nil)
	g.Decorate(f, sky)
	return f
}

// Decorate regenerates the populations that are never persisted: blink stars
// when missing, the solar system corona, far stars and far galaxies when missing.
func (g *Generator) Decorate(f *Field, sky SkySettings) {
	blink := f.Galaxy.Blink()
	if f.BlinkStars == nil {
		f.BlinkStars = g.DiskStars(f.Galaxy.BlinkDisk(), DiskScale, DiskScale, FarStarColors, &blink)
	}
	f.Corona = g.ShellStars(f.Galaxy.CoronaShell(), FarStarColors, &blink)
	f.FarStars = g.ShellStars(sky.Shell(), FarStarColors, nil)
	if f.FarGalaxies == nil {
		f.FarGalaxies = g.FarGalaxies(sky.FarGalaxies())
	}
	f.Galaxy.StarsCount = len(f.Stars)
	f.Galaxy.BlinkStarsCount = len(f.BlinkStars)
}

// StarByID looks up a disk star.
func (f *Field) StarByID(id int) (Star, bool) {
	if id >= 0 && id < len(f.Stars) && f.Stars[id].ID == id {
		return f.Stars[id], true
	}
	for _, s := range f.Stars {
		if s.ID == id {
			return s, true
		}
	}
	return Star{}, false
}
