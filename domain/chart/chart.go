package chart

import (
	"encoding/json"
	"fmt"
	"io"
)

// Document is the embeddable chart bundle: a single layout keyed by the id of the
// page element it renders into.
type Document struct {
	TargetID string `json:"target_id"`
	RootID   string `json:"root_id"`
	Doc      Doc    `json:"doc"`
}

// Doc holds the document title and its root layouts.
type Doc struct {
	Title string    `json:"title"`
	Roots []*Column `json:"roots"`
}

// Column stacks figures vertically.
type Column struct {
	Type     string    `json:"type"`
	ID       string    `json:"id"`
	Children []*Figure `json:"children"`
}

// Figure is one plot with its axes, ranges, decorations and glyphs.
type Figure struct {
	Type      string  `json:"type"`
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	XAxis     Axis    `json:"x_axis"`
	YAxis     Axis    `json:"y_axis"`
	XRange    Range   `json:"x_range"`
	YRange    Range   `json:"y_range"`
	Toolbar   Toolbar `json:"toolbar"`
	Tooltips  string  `json:"tooltips,omitempty"`
	XGrid     Grid    `json:"xgrid"`
	YGrid     Grid    `json:"ygrid"`
	Renderers []Glyph `json:"renderers"`
}

// Axis types.
const (
	AxisLinear      = "linear"
	AxisDatetime    = "datetime"
	AxisCategorical = "categorical"
)

// Axis configures one axis: label, scale type and tick formatting.
type Axis struct {
	Label                 string             `json:"axis_label"`
	Type                  string             `json:"type"`
	Formatter             *DatetimeFormatter `json:"formatter,omitempty"`
	DesiredNumTicks       int                `json:"desired_num_ticks,omitempty"`
	MajorLabelOrientation float64            `json:"major_label_orientation,omitempty"`
}

// DatetimeFormatter holds strftime patterns per tick resolution.
type DatetimeFormatter struct {
	Days string `json:"days,omitempty"`
}

// Range is either numeric (Start) or categorical (Factors).
type Range struct {
	Start   *float64 `json:"start,omitempty"`
	Factors []string `json:"factors,omitempty"`
}

// Toolbar lists the enabled tools. A nil Logo hides the logo.
type Toolbar struct {
	Tools []string `json:"tools"`
	Logo  *string  `json:"logo"`
}

// Grid line color; nil hides the lines.
type Grid struct {
	LineColor *string `json:"grid_line_color"`
}

// Glyph kinds.
const (
	GlyphLine = "Line"
	GlyphHBar = "HBar"
)

// Glyph is a renderer drawing Source columns. Line uses X/Y, HBar uses Y/Right/Height.
type Glyph struct {
	Type      string         `json:"type"`
	X         string         `json:"x,omitempty"`
	Y         string         `json:"y"`
	Right     string         `json:"right,omitempty"`
	Height    float64        `json:"height,omitempty"`
	LineWidth float64        `json:"line_width,omitempty"`
	Source    map[string]any `json:"source"`
}

const defaultGridColor = "#e5e5e5"

// Builder hands out deterministic model ids.
type Builder struct {
	next int
}

func NewBuilder() *Builder { return &Builder{next: 1000} }

func (b *Builder) id() string {
	b.next++
	return fmt.Sprintf("p%d", b.next)
}

// Figure returns an empty figure with default grid and a logo-less toolbar.
func (b *Builder) Figure(title string, tools ...string) *Figure {
	gc := defaultGridColor
	return &Figure{
		Type:      "Figure",
		ID:        b.id(),
		Title:     title,
		XAxis:     Axis{Type: AxisLinear},
		YAxis:     Axis{Type: AxisLinear},
		Toolbar:   Toolbar{Tools: append([]string{}, tools...)},
		XGrid:     Grid{LineColor: &gc},
		YGrid:     Grid{LineColor: &gc},
		Renderers: []Glyph{},
	}
}

// Column stacks figures top to bottom.
func (b *Builder) Column(children ...*Figure) *Column {
	return &Column{Type: "Column", ID: b.id(), Children: children}
}

// NewDocument wraps root so that it renders into the element with id targetID.
func NewDocument(targetID, title string, root *Column) *Document {
	return &Document{
		TargetID: targetID,
		RootID:   root.ID,
		Doc:      Doc{Title: title, Roots: []*Column{root}},
	}
}

// Encode writes d as JSON.
func (d *Document) Encode(w io.Writer) error {
	return json.NewEncoder(w).Encode(d)
}
