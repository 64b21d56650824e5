package cell

import (
	"strconv"
	"strings"
)

// markupKey caches the markup last written into an element.
const markupKey = "markup"

// disabledOpacity dims images of disabled cells.
const disabledOpacity = 0.3

// TextRenderer renders plain text or markup. escape turns plain text into
// markup.
func TextRenderer(escape func(string) string) *Renderer {
	return &Renderer{
		CellType:    "text",
		ContentType: "text",
		Create: func(doc Document, data CellData) Element {
			el := doc.CreateElement("div")
			switch {
			case data.Alignment.Has(AlignRight):
				el.SetStyle("text-align", "right")
			case data.Alignment.Has(AlignHCenter):
				el.SetStyle("text-align", "center")
			default:
				el.SetStyle("text-align", "left")
			}
			if !data.Wrap {
				el.SetStyle("white-space", "nowrap")
			}
			el.SetStyle("text-overflow", "ellipsis")
			return el
		},
		Paint: func(el Element, content string, _ CellData, opts Options) {
			if opts.MarkupEnabled {
				// Rewriting identical markup would reset the element's children.
				if last, ok := el.Data(markupKey); !ok || last != content {
					el.SetHTML(content)
					el.SetData(markupKey, content)
				}
				return
			}
			el.SetHTML(escape(content))
		},
	}
}

// ImageRenderer renders content as a background image URL.
func ImageRenderer() *Renderer {
	return &Renderer{
		CellType:    "image",
		ContentType: "image",
		Create: func(doc Document, data CellData) Element {
			el := doc.CreateElement("div")
			el.SetStyle("background-repeat", "no-repeat")
			horizontal, vertical := "center", "center"
			switch data.ScaleMode {
			case ScaleFit:
				el.SetStyle("background-size", "contain")
			case ScaleFill:
				el.SetStyle("background-size", "cover")
			default:
				if data.Alignment.Has(AlignLeft) {
					horizontal = "left"
				} else if data.Alignment.Has(AlignRight) {
					horizontal = "right"
				}
				if data.Alignment.Has(AlignTop) {
					vertical = "top"
				} else if data.Alignment.Has(AlignBottom) {
					vertical = "bottom"
				}
			}
			el.SetStyle("background-position", horizontal+" "+vertical)
			return el
		},
		Paint: func(el Element, content string, _ CellData, opts Options) {
			opacity := 1.0
			if !opts.Enabled {
				opacity = disabledOpacity
			}
			SetBackgroundImage(el, content, opacity)
		},
	}
}

// SetBackgroundImage shows src as the element's background. An empty src
// clears it.
func SetBackgroundImage(el Element, src string, opacity float64) {
	if src == "" {
		el.SetStyle("background-image", "")
		el.SetStyle("opacity", "")
		return
	}
	el.SetStyle("background-image", `url("`+strings.ReplaceAll(src, `"`, `%22`)+`")`)
	if opacity < 1 {
		el.SetStyle("opacity", strconv.FormatFloat(opacity, 'f', -1, 64))
	} else {
		el.SetStyle("opacity", "")
	}
}
