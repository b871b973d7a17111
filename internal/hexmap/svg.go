package hexmap

import (
	"fmt"
	"html"
	"io"
	"math"
	"os"
	"sort"
	"strings"
)

// Static SVG rendering of the hex-cartogram view, for embedding where
// the interactive map cannot run.

const (
	svgWidth   = 800
	svgHeight  = 900
	svgPadding = 40
)

// RenderSVG writes a static hex cartogram. Cells are colored by each
// constituency's revenue share on the same scale as the HTML map;
// constituencies without data render in the zero color.
func RenderSVG(w io.Writer, d *Data) error {
	qMin, qMax, rMin, rMax := d.Grid.Bounds()

	// Pointy-top hexagons in an odd-r offset layout: odd rows shift
	// right by half a cell.
	cols := float64(qMax-qMin) + 2
	rows := float64(rMax-rMin) + 2
	size := math.Min(
		(svgWidth-2*svgPadding)/(cols*math.Sqrt(3)),
		(svgHeight-2*svgPadding)/(rows*1.5),
	)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`+"\n", svgWidth, svgHeight)
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", svgWidth, svgHeight)
	if d.Title != "" {
		fmt.Fprintf(&sb, `<text x="%d" y="24" font-family="sans-serif" font-size="16" fill="#374151">%s</text>`+"\n",
			svgPadding, html.EscapeString(d.Title))
	}

	// Deterministic output: draw in code order.
	codes := make([]string, 0, len(d.Grid.Hexes))
	for code := range d.Grid.Hexes {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		h := d.Grid.Hexes[code]
		offset := 0.0
		if h.R%2 != 0 {
			offset = 0.5
		}
		cx := svgPadding + (float64(h.Q-qMin)+offset+0.5)*size*math.Sqrt(3)
		cy := float64(svgHeight) - (svgPadding + (float64(h.R-rMin)+0.5)*size*1.5)

		fill := colorLow
		title := h.Name
		if datum, ok := d.Impact[h.Name]; ok {
			fill = Color(d.pctScale(datum.Pct))
			title = fmt.Sprintf("%s: %.2f%%", h.Name, datum.Pct)
		}

		fmt.Fprintf(&sb, `<polygon points="%s" fill="%s" stroke="#ffffff" stroke-width="1"><title>%s</title></polygon>`+"\n",
			hexPoints(cx, cy, size), fill, html.EscapeString(title))
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteSVG renders the static map to a file.
func WriteSVG(path string, d *Data) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := RenderSVG(f, d); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func hexPoints(cx, cy, size float64) string {
	pts := make([]string, 6)
	for i := 0; i < 6; i++ {
		angle := math.Pi / 180 * (60*float64(i) - 30)
		x := cx + size*math.Cos(angle)
		y := cy + size*math.Sin(angle)
		pts[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}
	return strings.Join(pts, " ")
}
