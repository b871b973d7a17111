package hexmap

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
)

//go:embed templates/map.html.tmpl
var templatesFS embed.FS

// templateArgs carries pre-marshaled JSON into the HTML template. The
// payloads are our own encoding output, safe to embed as script data.
type templateArgs struct {
	Title    string
	Subtitle string
	Source   string

	ImpactJSON  template.JS
	HexJSON     template.JS
	GeoJSON     template.JS
	NamesJSON   template.JS
	MaxPctLabel string
}

// RenderHTML writes the interactive D3 map document.
func RenderHTML(w io.Writer, d *Data) error {
	tmpl, err := template.ParseFS(templatesFS, "templates/map.html.tmpl")
	if err != nil {
		return fmt.Errorf("parsing map template: %w", err)
	}

	impact, err := json.Marshal(d.Impact)
	if err != nil {
		return fmt.Errorf("encoding impact data: %w", err)
	}
	hexes, err := json.Marshal(d.Grid)
	if err != nil {
		return fmt.Errorf("encoding hex grid: %w", err)
	}
	geo, err := json.Marshal(d.Boundaries)
	if err != nil {
		return fmt.Errorf("encoding boundaries: %w", err)
	}
	names, err := json.Marshal(d.Names)
	if err != nil {
		return fmt.Errorf("encoding names: %w", err)
	}

	args := templateArgs{
		Title:       d.Title,
		Subtitle:    d.Subtitle,
		Source:      d.Source,
		ImpactJSON:  template.JS(impact),
		HexJSON:     template.JS(hexes),
		GeoJSON:     template.JS(geo),
		NamesJSON:   template.JS(names),
		MaxPctLabel: fmt.Sprintf("%.1f%%", d.MaxPct),
	}
	if err := tmpl.Execute(w, args); err != nil {
		return fmt.Errorf("rendering map: %w", err)
	}
	return nil
}

// WriteHTML renders the interactive map to a file.
func WriteHTML(path string, d *Data) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := RenderHTML(f, d); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
