package starfield

import "github.com/golang/geo/r3"

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func FromR3(v r3.Vector) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

func (v Vec3) R3() r3.Vector { return r3.Vector{X: v.X, Y: v.Y, Z: v.Z} }

type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// RGBA channels are normalized to [0,1].
type RGBA struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Blink drives a local pulsing animation of a single star.
type Blink struct {
	IsFade       bool    `json:"isFade"`
	Duration     float64 `json:"duration"`
	ProgressTime float64 `json:"progressTime"`
	Easing       string  `json:"easing"`
}

type BigStarColor struct {
	Main   RGB `json:"main"`
	Corona RGB `json:"corona"`
}

type BigStar struct {
	StarSize float64       `json:"starSize"`
	Color    *BigStarColor `json:"color,omitempty"`
}

type StarInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Level       int     `json:"level"`
	RaceID      int     `json:"raceId"`
	PlanetSlots int     `json:"planetSlots"`
	Energy      int     `json:"energy"`
	Life        int     `json:"life"`
	BigStar     BigStar `json:"bigStar"`
}

// Star is one generated star. StarInfo is present on disk stars only and
// Blink only on blinking populations.
type Star struct {
	ID       int       `json:"id"`
	Pos      Vec3      `json:"pos"`
	Color    RGBA      `json:"color"`
	Scale    float64   `json:"scale"`
	Blink    *Blink    `json:"blink,omitempty"`
	StarInfo *StarInfo `json:"starInfo,omitempty"`
}

// FarGalaxy is a decorative background galaxy sprite.
type FarGalaxy struct {
	TextureName   string  `json:"textureName"`
	Pos           Vec3    `json:"pos"`
	Size          float64 `json:"size"`
	Alpha         float64 `json:"alpha"`
	Dir           Vec3    `json:"dir"`
	RotationSpeed float64 `json:"rotationSpeed"`
}
