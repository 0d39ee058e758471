// Package document defines the declarative Document/Component tree that
// lowering consumes, and its JSON wire format.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/thereceipt/printcore/internal/errs"
)

// ComponentType is the closed tag of the Component sum type.
type ComponentType string

const (
	TypeText     ComponentType = "text"
	TypeHeader   ComponentType = "header"
	TypeBanner   ComponentType = "banner"
	TypeLineItem ComponentType = "line_item"
	TypeTotal    ComponentType = "total"
	TypeDivider  ComponentType = "divider"
	TypeSpacer   ComponentType = "spacer"
	TypeColumns  ComponentType = "columns"
	TypeTable    ComponentType = "table"
	TypeMarkdown ComponentType = "markdown"
	TypeQRCode   ComponentType = "qr_code"
	TypePDF417   ComponentType = "pdf417"
	TypeBarcode  ComponentType = "barcode"
	TypeImage    ComponentType = "image"
	TypePattern  ComponentType = "pattern"
	TypeCanvas   ComponentType = "canvas"
	TypeNVLogo   ComponentType = "nv_logo"
)

// DividerStyle is the closed set of rule styles.
type DividerStyle string

const (
	DividerDashed DividerStyle = "dashed"
	DividerSolid  DividerStyle = "solid"
	DividerDouble DividerStyle = "double"
	DividerEquals DividerStyle = "equals"
)

// Align is the text/component alignment enum used across the JSON schema.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Position is an absolute offset within a canvas, in dots.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BlendMode is the closed set of canvas child compositing modes.
type BlendMode string

const (
	BlendNormal     BlendMode = "normal"
	BlendMultiply   BlendMode = "multiply"
	BlendScreen     BlendMode = "screen"
	BlendOverlay    BlendMode = "overlay"
	BlendAdd        BlendMode = "add"
	BlendDifference BlendMode = "difference"
	BlendMin        BlendMode = "min"
	BlendMax        BlendMode = "max"
)

// TableColumn describes one column of a table component.
type TableColumn struct {
	Header string `json:"header"`
	Align  Align  `json:"align,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// Component is the closed tagged sum described in spec.md §3. Every
// component-specific field lives here flatly, mirroring the teacher's
// Command struct; unknown JSON fields are rejected at decode time.
type Component struct {
	Type ComponentType `json:"type"`

	// text / header / banner
	Content    string  `json:"content,omitempty"`
	Bold       bool    `json:"bold,omitempty"`
	Underline  bool    `json:"underline,omitempty"`
	Upperline  bool    `json:"upperline,omitempty"`
	Invert     bool    `json:"invert,omitempty"`
	UpsideDown bool    `json:"upside_down,omitempty"`
	Reduced    bool    `json:"reduced,omitempty"`
	Center     bool    `json:"center,omitempty"`
	Right      bool    `json:"right,omitempty"`
	Size       int     `json:"size,omitempty"` // 0-3
	SizeHW     [2]int  `json:"size_hw,omitempty"`
	Font       string  `json:"font,omitempty"` // "A", "B", "ibm"

	// line_item
	Name  string `json:"name,omitempty"`
	Price string `json:"price,omitempty"`
	Width int    `json:"width,omitempty"`

	// total
	Label  string `json:"label,omitempty"`
	Amount string `json:"amount,omitempty"`

	// divider
	Style DividerStyle `json:"style,omitempty"`

	// spacer
	MM    float64 `json:"mm,omitempty"`
	Lines int     `json:"lines,omitempty"`
	Units int     `json:"units,omitempty"`

	// columns
	Left  string `json:"left,omitempty"`
	Right2 string `json:"right_text,omitempty"`

	// table
	Headers    []string      `json:"headers,omitempty"`
	Rows       [][]string    `json:"rows,omitempty"`
	Columns    []TableColumn `json:"columns,omitempty"`
	Border     string        `json:"border,omitempty"`
	RowSeparators bool       `json:"row_separators,omitempty"`

	// markdown
	Markdown string `json:"markdown,omitempty"`

	// qr_code / pdf417 / barcode
	Payload         string `json:"payload,omitempty"`
	Format          string `json:"format,omitempty"`
	ErrorCorrection string `json:"error_correction,omitempty"`
	BarcodeHeight   int    `json:"barcode_height,omitempty"`
	BarcodeWidth    int    `json:"barcode_width,omitempty"`

	// image
	URL        string `json:"url,omitempty"`
	ImageAlign Align  `json:"align,omitempty"`
	DitherMode string `json:"dither,omitempty"`
	HeightCap  int    `json:"height_cap,omitempty"`

	// pattern
	Generator string                 `json:"generator,omitempty"`
	Params    map[string]interface{} `json:"params,omitempty"`
	Height    int                    `json:"height,omitempty"`
	Seed      int64                  `json:"seed,omitempty"`

	// canvas
	Children []Component `json:"children,omitempty"`

	// canvas children only
	Position *Position `json:"position,omitempty"`
	Blend    BlendMode  `json:"blend,omitempty"`
	Opacity  float64    `json:"opacity,omitempty"`

	// nv_logo
	Key   string  `json:"key,omitempty"`
	Scale float64 `json:"scale,omitempty"`
}

// Document is the root of the declarative model described in spec.md §3.
type Document struct {
	Components     []Component       `json:"document"`
	Cut            *bool             `json:"cut,omitempty"`
	Variables      map[string]string `json:"variables,omitempty"`
	ProfileName    string            `json:"profile,omitempty"`
}

// WantsCut reports whether the document should end with a Cut op. Defaults
// to true per spec.md §6.
func (d *Document) WantsCut() bool {
	if d.Cut == nil {
		return true
	}
	return *d.Cut
}

// Parse decodes a JSON document, rejecting unknown fields per spec.md §6.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.InvalidDocument, err, "failed to parse document JSON")
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks structural invariants of a Document.
func Validate(d *Document) error {
	if len(d.Components) == 0 {
		return errs.New(errs.InvalidDocument, "document must contain at least one component")
	}
	for i, c := range d.Components {
		if err := validateComponent(&c); err != nil {
			return errs.Wrap(errs.InvalidDocument, err, "component[%d]", i)
		}
	}
	return nil
}

func validateComponent(c *Component) error {
	switch c.Type {
	case TypeText, TypeHeader, TypeBanner, TypeLineItem, TypeTotal, TypeDivider,
		TypeSpacer, TypeColumns, TypeTable, TypeMarkdown, TypeQRCode, TypePDF417,
		TypeBarcode, TypeImage, TypePattern, TypeCanvas, TypeNVLogo:
	case "":
		return fmt.Errorf("component type is required")
	default:
		return fmt.Errorf("unknown component type: %s", c.Type)
	}
	if c.Type == TypeCanvas {
		for i := range c.Children {
			if err := validateComponent(&c.Children[i]); err != nil {
				return fmt.Errorf("children[%d]: %w", i, err)
			}
		}
	}
	if c.Type == TypeNVLogo && len(c.Key) != 2 {
		return fmt.Errorf("nv_logo key must be exactly 2 characters, got %q", c.Key)
	}
	return nil
}

// ToJSON re-serializes the document, used to check the round-trip property
// from spec.md §6 (key order may change, structure must not).
func (d *Document) ToJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
