// Package cell maps cell types to the renderers table and tree widgets use to
// create and paint their cells.
package cell

import (
	"sync"

	"github.com/pkg/errors"
)

// Class names given to every created element, chosen by CellData.Selectable.
const (
	ClassCell           = "cell"
	ClassCellSelectable = "cell-selectable"
)

// ErrInvalidRegistration is returned for renderers that are incomplete or
// whose cell type is already taken.
var ErrInvalidRegistration = errors.New("invalid cell renderer registration")

// Alignment flags for CellData.
type Alignment uint8

const (
	AlignLeft Alignment = 1 << iota
	AlignRight
	AlignHCenter
	AlignTop
	AlignBottom
)

// Has reports whether every flag in f is set.
func (a Alignment) Has(f Alignment) bool {
	return a&f == f
}

// Image scale modes.
const (
	ScaleNone = "NONE"
	ScaleFit  = "FIT"
	ScaleFill = "FILL"
)

// CellData describes the cell an element is created for.
type CellData struct {
	Selectable bool      `json:"selectable"`
	Wrap       bool      `json:"wrap"`
	Alignment  Alignment `json:"alignment"`
	ScaleMode  string    `json:"scaleMode"`
}

// Options are per-paint flags supplied by the widget.
type Options struct {
	MarkupEnabled bool `json:"markupEnabled"`
	Enabled       bool `json:"enabled"`
}

// CreateFunc creates the element for a cell.
type CreateFunc func(doc Document, data CellData) Element

// PaintFunc renders content into an element.
type PaintFunc func(el Element, content string, data CellData, opts Options)

// Renderer materialises cells of one type.
type Renderer struct {
	CellType    string
	ContentType string
	Create      CreateFunc
	Paint       PaintFunc

	doc    Document
	create CreateFunc
}

// CreateElement creates a positioned, classed element for data. Renderers
// that were never registered create their elements in HTMLDocument.
func (r *Renderer) CreateElement(data CellData) Element {
	if r.create == nil {
		return decorate(r.Create)(HTMLDocument{}, data)
	}
	return r.create(r.doc, data)
}

// RenderContent paints content into el.
func (r *Renderer) RenderContent(el Element, content string, data CellData, opts Options) {
	r.Paint(el, content, data, opts)
}

// Registry maps cell types to renderers. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	doc       Document
	renderers map[string]*Renderer
}

// NewRegistry creates an empty Registry creating elements in doc.
func NewRegistry(doc Document) *Registry {
	r := new(Registry)
	r.doc = doc
	r.renderers = make(map[string]*Renderer)
	return r
}

// NewDefaultRegistry creates a Registry holding the text and image renderers.
func NewDefaultRegistry(doc Document) *Registry {
	r := NewRegistry(doc)
	for _, renderer := range []*Renderer{TextRenderer(EscapeText), ImageRenderer()} {
		if err := r.Register(renderer); err != nil {
			panic(err)
		}
	}
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide Registry backed by HTMLDocument, creating
// it on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewDefaultRegistry(HTMLDocument{})
	})
	return defaultRegistry
}

// Register adds a copy of renderer. The copy's element factory additionally
// positions the element absolutely, hides overflow and sets the cell class.
func (r *Registry) Register(renderer *Renderer) error {
	if renderer == nil {
		return errors.WithMessage(ErrInvalidRegistration, "nil renderer")
	}
	if renderer.CellType == "" || renderer.ContentType == "" {
		return errors.WithMessagef(ErrInvalidRegistration, "renderer %q: cell type and content type are required", renderer.CellType)
	}
	if renderer.Paint == nil {
		return errors.WithMessagef(ErrInvalidRegistration, "renderer %q: no paint function", renderer.CellType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.renderers[renderer.CellType]; ok {
		return errors.WithMessagef(ErrInvalidRegistration, "renderer for cell type %q already registered", renderer.CellType)
	}
	entry := *renderer
	entry.doc = r.doc
	entry.create = decorate(renderer.Create)
	r.renderers[entry.CellType] = &entry
	return nil
}

// Lookup returns a copy of the renderer registered for cellType.
func (r *Registry) Lookup(cellType string) (*Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[cellType]
	if !ok {
		return nil, false
	}
	entry := *renderer
	return &entry, true
}

// Unregister removes the renderer for cellType.
func (r *Registry) Unregister(cellType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.renderers, cellType)
}

// All returns copies of the registered renderers keyed by cell type.
func (r *Registry) All() map[string]*Renderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make(map[string]*Renderer, len(r.renderers))
	for k, v := range r.renderers {
		entry := *v
		all[k] = &entry
	}
	return all
}

func decorate(inner CreateFunc) CreateFunc {
	if inner == nil {
		inner = createDiv
	}
	return func(doc Document, data CellData) Element {
		el := inner(doc, data)
		el.SetStyle("position", "absolute")
		el.SetStyle("overflow", "hidden")
		if data.Selectable {
			el.SetClass(ClassCellSelectable)
		} else {
			el.SetClass(ClassCell)
		}
		return el
	}
}

func createDiv(doc Document, _ CellData) Element {
	return doc.CreateElement("div")
}
