package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/matt-g-everett/cellfx/cell"
	"github.com/matt-g-everett/cellfx/fx"
)

// Api serves scheduler status, cell previews and transition curves.
type Api struct {
	scheduler *fx.Scheduler
	registry  *cell.Registry
	root      string
	mux       *http.ServeMux
}

// Status is the body of GET /status.
type Status struct {
	Ticking bool `json:"ticking"`
	Active  int  `json:"active"`
	Tick    int  `json:"tickMs"`
}

// CellType is an entry of GET /cells.
type CellType struct {
	CellType    string `json:"cellType"`
	ContentType string `json:"contentType"`
}

// NewApi creates an Api. Static files are served from root when it is set.
func NewApi(scheduler *fx.Scheduler, registry *cell.Registry, root string) *Api {
	a := new(Api)
	a.scheduler = scheduler
	a.registry = registry
	a.root = root
	a.mux = http.NewServeMux()
	a.mux.HandleFunc("/status", a.handleStatus)
	a.mux.HandleFunc("/cells", a.handleCells)
	a.mux.HandleFunc("/cells/preview", a.handlePreview)
	a.mux.HandleFunc("/transitions/", a.handleTransition)
	if root != "" {
		a.mux.Handle("/", http.FileServer(http.Dir(root)))
	}
	return a
}

// ServeHTTP dispatches to the Api routes.
func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Serve listens on addr until the server fails.
func (a *Api) Serve(addr string) error {
	log.Printf("Listening on %s...", addr)
	return http.ListenAndServe(addr, a)
}

func (a *Api) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, Status{
		Ticking: a.scheduler.Ticking(),
		Active:  a.scheduler.Len(),
		Tick:    int(a.scheduler.Interval().Milliseconds()),
	})
}

func (a *Api) handleCells(w http.ResponseWriter, r *http.Request) {
	all := a.registry.All()
	types := make([]CellType, 0, len(all))
	for _, renderer := range all {
		types = append(types, CellType{CellType: renderer.CellType, ContentType: renderer.ContentType})
	}
	sort.Slice(types, func(i, j int) bool { return types[i].CellType < types[j].CellType })
	writeJSON(w, types)
}

func (a *Api) handlePreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	renderer, ok := a.registry.Lookup(q.Get("type"))
	if !ok {
		http.Error(w, "unknown cell type", http.StatusNotFound)
		return
	}

	data := cell.CellData{
		Selectable: q.Get("selectable") == "true",
		Wrap:       q.Get("wrap") == "true",
		ScaleMode:  q.Get("scale"),
	}
	for _, align := range strings.Split(q.Get("align"), ",") {
		switch align {
		case "left":
			data.Alignment |= cell.AlignLeft
		case "right":
			data.Alignment |= cell.AlignRight
		case "center":
			data.Alignment |= cell.AlignHCenter
		case "top":
			data.Alignment |= cell.AlignTop
		case "bottom":
			data.Alignment |= cell.AlignBottom
		}
	}
	opts := cell.Options{
		MarkupEnabled: q.Get("markup") == "true",
		Enabled:       q.Get("enabled") != "false",
	}

	el := renderer.CreateElement(data)
	renderer.RenderContent(el, q.Get("content"), data, opts)
	node, ok := el.(*cell.Node)
	if !ok {
		http.Error(w, "cell type does not render to HTML", http.StatusNotImplemented)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(node.OuterHTML()))
}

func (a *Api) handleTransition(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/transitions/")
	fn, ok := fx.LookupTransition(name)
	if !ok {
		http.Error(w, "unknown transition", http.StatusNotFound)
		return
	}
	samples := 11
	if s := r.URL.Query().Get("samples"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 2 || n > 1000 {
			http.Error(w, "samples must be between 2 and 1000", http.StatusBadRequest)
			return
		}
		samples = n
	}
	writeJSON(w, fx.Sample(fn, samples))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
