// Package terrain provides the course surface model: a grid of faces carrying
// moisture, nutrients, grass height and health, plus the entry points that
// maintenance work and irrigation use to change them.
package terrain

import (
	"fmt"

	"github.com/talgya/greenkeeper/internal/opt"
)

// Type is the surface kind of a face.
type Type uint8

const (
	TypeRough Type = iota
	TypeFairway
	TypeGreen
	TypeTee
	TypeBunker
	TypeWater // hazard, not walkable
	TypePath  // cart path
)

// TypeName returns a human-readable terrain name.
func TypeName(t Type) string {
	switch t {
	case TypeRough:
		return "rough"
	case TypeFairway:
		return "fairway"
	case TypeGreen:
		return "green"
	case TypeTee:
		return "tee"
	case TypeBunker:
		return "bunker"
	case TypeWater:
		return "water"
	case TypePath:
		return "path"
	default:
		return "unknown"
	}
}

// Face is one unit of course surface. Moisture, Nutrients and Health are
// 0–100; GrassHeight is in millimetres.
type Face struct {
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Type        Type    `json:"type"`
	Elevation   float64 `json:"elevation"`
	Moisture    float64 `json:"moisture"`
	Nutrients   float64 `json:"nutrients"`
	GrassHeight float64 `json:"grass_height"`
	Health      float64 `json:"health"`
	Raked       float64 `json:"raked"` // bunker smoothness 0–100
}

// Course holds the whole surface grid, row-major.
type Course struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Faces  []*Face `json:"faces"`
}

// NewFlat creates a course where every face has the same type and
// comfortable starting conditions.
func NewFlat(width, height int, t Type) *Course {
	c := &Course{Width: width, Height: height, Faces: make([]*Face, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c.Faces[y*width+x] = newFace(x, y, t)
		}
	}
	return c
}

func newFace(x, y int, t Type) *Face {
	f := &Face{
		X:           x,
		Y:           y,
		Type:        t,
		Moisture:    60,
		Nutrients:   60,
		GrassHeight: idealHeight(t),
		Raked:       100,
	}
	f.Health = faceHealth(f)
	return f
}

// InBounds returns true if (x, y) is on the grid.
func (c *Course) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.Width && y < c.Height
}

// Get returns the face at (x, y), or nil if off-grid.
func (c *Course) Get(x, y int) *Face {
	if !c.InBounds(x, y) {
		return nil
	}
	return c.Faces[y*c.Width+x]
}

// FaceAt returns a copy of the face at (x, y).
func (c *Course) FaceAt(x, y int) opt.Option[Face] {
	f := c.Get(x, y)
	if f == nil {
		return opt.None[Face]()
	}
	return opt.Some(*f)
}

// TypeAt returns the terrain type at (x, y).
func (c *Course) TypeAt(x, y int) opt.Option[Type] {
	f := c.Get(x, y)
	if f == nil {
		return opt.None[Type]()
	}
	return opt.Some(f.Type)
}

// SetType changes the terrain type of a face. Returns false if off-grid.
func (c *Course) SetType(x, y int, t Type) bool {
	f := c.Get(x, y)
	if f == nil {
		return false
	}
	f.Type = t
	f.GrassHeight = idealHeight(t)
	f.Health = faceHealth(f)
	return true
}

// IsWalkable reports whether people and machines may stand on (x, y).
func (c *Course) IsWalkable(x, y int) bool {
	f := c.Get(x, y)
	return f != nil && f.Type != TypeWater
}

// Bounds returns the grid dimensions.
func (c *Course) Bounds() (width, height int) {
	return c.Width, c.Height
}

// String returns a summary of the course.
func (c *Course) String() string {
	return fmt.Sprintf("Course(%dx%d, faces=%d)", c.Width, c.Height, len(c.Faces))
}

// idealHeight is the target cut height (mm) per terrain type.
func idealHeight(t Type) float64 {
	switch t {
	case TypeGreen:
		return 3
	case TypeTee:
		return 10
	case TypeFairway:
		return 12
	case TypeRough:
		return 40
	default:
		return 0
	}
}

// mowable reports whether the type carries grass that can be cut.
func mowable(t Type) bool {
	return idealHeight(t) > 0
}
