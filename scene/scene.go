// Package scene describes worlds in YAML or JSON, generates the random
// playground and replays scripted drags as engine input.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/0x5844/collision-2d/geom"
	"github.com/0x5844/collision-2d/shape"
	"github.com/0x5844/collision-2d/world"
)

var (
	ErrUnknownShapeType = errors.New("unknown shape type")
	ErrUnknownBody      = errors.New("unknown body")
	ErrUnknownFormat    = errors.New("unknown scene format")
)

type Config struct {
	Name       string           `json:"name" yaml:"name"`
	Duration   float64          `json:"duration,omitempty" yaml:"duration,omitempty"`
	Resolution ResolutionConfig `json:"resolution" yaml:"resolution"`
	Bodies     []BodyConfig     `json:"bodies" yaml:"bodies"`
	Drags      []DragConfig     `json:"drags,omitempty" yaml:"drags,omitempty"`
}

// ResolutionConfig overrides world settings; empty fields keep the caller's values.
type ResolutionConfig struct {
	Order      string   `json:"order,omitempty" yaml:"order,omitempty"`
	FreeMode   string   `json:"free_mode,omitempty" yaml:"free_mode,omitempty"`
	SignRule   string   `json:"sign_rule,omitempty" yaml:"sign_rule,omitempty"`
	MinOverlap *float64 `json:"min_overlap,omitempty" yaml:"min_overlap,omitempty"`
}

type BodyConfig struct {
	Name     string         `json:"name" yaml:"name"`
	Type     string         `json:"type" yaml:"type"`
	Position geom.Vector2   `json:"position" yaml:"position"`
	Rotation float64        `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Radius   float64        `json:"radius,omitempty" yaml:"radius,omitempty"`
	Width    float64        `json:"width,omitempty" yaml:"width,omitempty"`
	Height   float64        `json:"height,omitempty" yaml:"height,omitempty"`
	Vertices []geom.Vector2 `json:"vertices,omitempty" yaml:"vertices,omitempty"`
	Sides    int            `json:"sides,omitempty" yaml:"sides,omitempty"`
	Anchored bool           `json:"anchored,omitempty" yaml:"anchored,omitempty"`
}

// DragConfig holds Body during ticks [From, To] and moves it by Delta each tick.
type DragConfig struct {
	Body  string       `json:"body" yaml:"body"`
	From  int64        `json:"from" yaml:"from"`
	To    int64        `json:"to" yaml:"to"`
	Delta geom.Vector2 `json:"delta" yaml:"delta"`
}

func LoadJSON(r io.Reader) (*Config, error) {
	var c Config
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func LoadYAML(r io.Reader) (*Config, error) {
	var c Config
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile picks the decoder from the file extension.
func LoadFile(filename string) (*Config, error) {
	var decode func(io.Reader) (*Config, error)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		decode = LoadYAML
	case ".json":
		decode = LoadJSON
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	return c, nil
}

// WorldConfig applies the scene's resolution overrides to base.
func (c *Config) WorldConfig(base world.Config) (world.Config, error) {
	var err error
	r := c.Resolution
	if r.Order != "" {
		if base.Order, err = world.ParseOrder(r.Order); err != nil {
			return base, err
		}
	}
	if r.FreeMode != "" {
		if base.FreeMode, err = world.ParseFreeMode(r.FreeMode); err != nil {
			return base, err
		}
	}
	if r.SignRule != "" {
		if base.SignRule, err = world.ParseSignRule(r.SignRule); err != nil {
			return base, err
		}
	}
	if r.MinOverlap != nil {
		base.MinOverlap = *r.MinOverlap
	}
	return base, base.Validate()
}

// Build adds every body of the scene to w, in file order.
func (c *Config) Build(w *world.World) ([]*world.Body, error) {
	bodies := make([]*world.Body, 0, len(c.Bodies))
	for i, bc := range c.Bodies {
		s, err := bc.Shape()
		if err != nil {
			return nil, fmt.Errorf("body %d (%s): %w", i, bc.Name, err)
		}
		name := bc.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", strings.ToLower(bc.Type), i+1)
		}
		body := world.NewBody(name, s)
		body.Anchored = bc.Anchored
		w.AddBody(body)
		bodies = append(bodies, body)
	}

	for _, d := range c.Drags {
		if d.From < 1 || d.To < d.From {
			return nil, fmt.Errorf("drag %q: invalid tick range [%d, %d]", d.Body, d.From, d.To)
		}
		if _, err := w.BodyByName(d.Body); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBody, d.Body)
		}
	}
	return bodies, nil
}

// Shape constructs the body's shape. Zero sizes fall back to the playground defaults.
func (bc BodyConfig) Shape() (shape.Shape, error) {
	var (
		s   shape.Shape
		err error
	)

	switch strings.ToLower(bc.Type) {
	case "circle":
		s, err = shape.NewCircle(bc.Position, orDefault(bc.Radius, shape.DefaultCircleRadius))
	case "rectangle", "rect", "box":
		s, err = shape.NewRectangle(bc.Position,
			orDefault(bc.Width, shape.DefaultRectangleSize),
			orDefault(bc.Height, shape.DefaultRectangleSize))
	case "polygon":
		if len(bc.Vertices) > 0 {
			s, err = shape.NewPolygon(bc.Position, bc.Vertices)
		} else {
			sides := bc.Sides
			if sides == 0 {
				sides = shape.DefaultPolygonMinSides
			}
			s, err = shape.RegularPolygon(bc.Position, sides, orDefault(bc.Radius, shape.DefaultPolygonRadius))
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShapeType, bc.Type)
	}
	if err != nil {
		return nil, err
	}

	s.SetRotation(bc.Rotation)
	return s, nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
