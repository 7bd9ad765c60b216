package drawing

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/strokereveal/pkg/bake"
	"github.com/Faultbox/strokereveal/pkg/curve"
	"github.com/Faultbox/strokereveal/pkg/math"
)

// vec is a point written as a flow sequence: [x, y, z].
type vec [3]float32

func (v vec) toVec3() math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func fromVec3(v math.Vec3) vec {
	return vec{v.X, v.Y, v.Z}
}

type pointDoc struct {
	Anchor    vec    `yaml:"anchor,flow"`
	HandleIn  *vec   `yaml:"handle_in,flow,omitempty"`
	HandleOut *vec   `yaml:"handle_out,flow,omitempty"`
	Type      string `yaml:"type,omitempty"`
}

type strokeDoc struct {
	Closed bool       `yaml:"closed,omitempty"`
	Points []pointDoc `yaml:"points"`
}

type drawingDoc struct {
	Name    string      `yaml:"name"`
	Width   *float32    `yaml:"width,omitempty"`
	Bake    yaml.Node   `yaml:"bake,omitempty"`
	Strokes []strokeDoc `yaml:"strokes"`
}

// Load reads a drawing file. Bake settings in the file override base.
func Load(path string, base bake.Config) (*Drawing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening drawing: %w", err)
	}
	defer f.Close()

	d, err := Decode(f, base)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return d, nil
}

// Decode reads a drawing document from r. Bake settings in the document
// override base; settings it does not mention keep base's values.
func Decode(r io.Reader, base bake.Config) (*Drawing, error) {
	var doc drawingDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing drawing: %w", err)
	}

	d := New(doc.Name, base)
	if doc.Width != nil {
		if *doc.Width < 0 {
			return nil, fmt.Errorf("width must be >= 0, got %v", *doc.Width)
		}
		d.Width = *doc.Width
	}
	if !doc.Bake.IsZero() {
		if err := doc.Bake.Decode(&d.Config); err != nil {
			return nil, fmt.Errorf("parsing bake settings: %w", err)
		}
		if err := d.Config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid bake settings: %w", err)
		}
	}

	d.Strokes = make([]curve.Stroke, len(doc.Strokes))
	for i, sd := range doc.Strokes {
		s, err := sd.toStroke()
		if err != nil {
			return nil, fmt.Errorf("stroke %d: %w", i, err)
		}
		d.Strokes[i] = s
	}
	return d, nil
}

func (sd strokeDoc) toStroke() (curve.Stroke, error) {
	s := curve.Stroke{
		Closed: sd.Closed,
		Points: make([]curve.Point, len(sd.Points)),
	}
	for i, pd := range sd.Points {
		t, ok := curve.ParsePointType(pd.Type)
		if !ok {
			return curve.Stroke{}, fmt.Errorf("point %d: %w %q", i, ErrUnknownPointType, pd.Type)
		}
		p := curve.Point{Anchor: pd.Anchor.toVec3(), Type: t}
		p.HandleIn, p.HandleOut = p.Anchor, p.Anchor
		if pd.HandleIn != nil {
			p.HandleIn = pd.HandleIn.toVec3()
		}
		if pd.HandleOut != nil {
			p.HandleOut = pd.HandleOut.toVec3()
		}
		s.Points[i] = p
	}
	return s, nil
}

// Save writes the drawing to path.
func (d *Drawing) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing drawing: %w", err)
	}
	return nil
}

// Marshal encodes the drawing document, including its full bake settings.
// Handles equal to their anchor are omitted.
func (d *Drawing) Marshal() ([]byte, error) {
	doc := struct {
		Name    string      `yaml:"name"`
		Width   float32     `yaml:"width"`
		Bake    bake.Config `yaml:"bake"`
		Strokes []strokeDoc `yaml:"strokes"`
	}{
		Name:    d.Name,
		Width:   d.Width,
		Bake:    d.Config,
		Strokes: make([]strokeDoc, len(d.Strokes)),
	}

	for i, s := range d.Strokes {
		sd := strokeDoc{Closed: s.Closed, Points: make([]pointDoc, len(s.Points))}
		for j, p := range s.Points {
			pd := pointDoc{Anchor: fromVec3(p.Anchor), Type: p.Type.String()}
			if p.HandleIn != p.Anchor {
				v := fromVec3(p.HandleIn)
				pd.HandleIn = &v
			}
			if p.HandleOut != p.Anchor {
				v := fromVec3(p.HandleOut)
				pd.HandleOut = &v
			}
			sd.Points[j] = pd
		}
		doc.Strokes[i] = sd
	}
	return encode(doc)
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return buf.Bytes(), nil
}

type bakedStrokeDoc struct {
	Loop   bool    `yaml:"loop"`
	Length float32 `yaml:"length"`
	Points []vec   `yaml:"points,flow"`
}

type bakedDoc struct {
	Name    string           `yaml:"name"`
	Width   float32          `yaml:"width"`
	Strokes []bakedStrokeDoc `yaml:"strokes"`
}

// MarshalBaked encodes the baked artifacts of the last Bake.
func (d *Drawing) MarshalBaked() ([]byte, error) {
	doc := bakedDoc{
		Name:    d.Name,
		Width:   d.Width,
		Strokes: make([]bakedStrokeDoc, len(d.baked)),
	}
	for i, b := range d.baked {
		sd := bakedStrokeDoc{Loop: b.Loop, Length: b.TotalLength, Points: make([]vec, len(b.Points))}
		for j, p := range b.Points {
			sd.Points[j] = fromVec3(p)
		}
		doc.Strokes[i] = sd
	}
	return encode(doc)
}

// SaveBaked writes the baked artifacts to path.
func (d *Drawing) SaveBaked(path string) error {
	data, err := d.MarshalBaked()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing baked drawing: %w", err)
	}
	return nil
}

// LoadBaked reads baked artifacts written by SaveBaked and rebuilds their
// arc-length tables.
func LoadBaked(path string) (name string, width float32, strokes []*bake.BakedStroke, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, nil, fmt.Errorf("reading baked drawing: %w", err)
	}
	var doc bakedDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", 0, nil, fmt.Errorf("parsing baked drawing: %w", err)
	}

	strokes = make([]*bake.BakedStroke, len(doc.Strokes))
	for i, sd := range doc.Strokes {
		pts := make([]math.Vec3, len(sd.Points))
		for j, v := range sd.Points {
			pts[j] = v.toVec3()
		}
		strokes[i] = bake.NewBakedStroke(pts, sd.Loop)
	}
	return doc.Name, doc.Width, strokes, nil
}
