package mapgraph

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"
)

const (
	pageW      = 595.0
	pageH      = 842.0
	margin     = 40.0
	nodeRadius = 12.0
	titleSize  = 16
	labelSize  = 7
)

// RenderPDF draws the map as a printable A4 page: one row per layer, edges
// between connected nodes, cleared nodes filled, selectable nodes outlined in
// red, and the current node marked.
func RenderPDF(nodes []Node, currentID, title string) ([]byte, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("map has no nodes")
	}

	layers := 0
	perLayer := map[int][]int{}
	for i, n := range nodes {
		perLayer[n.Layer] = append(perLayer[n.Layer], i)
		layers = max(layers, n.Layer+1)
	}

	pos := make(map[string][2]float64, len(nodes))
	usableH := pageH - 2*margin - 80
	rowStep := usableH / float64(max(layers-1, 1))
	for layer := range layers {
		idx := perLayer[layer]
		colStep := (pageW - 2*margin) / float64(len(idx)+1)
		for col, i := range idx {
			x := margin + colStep*float64(col+1)
			// Layer 0 sits at the bottom of the page; the climb goes up.
			y := pageH - margin - 30 - rowStep*float64(layer)
			pos[nodes[i].ID] = [2]float64{x, y}
		}
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFillColor(240, 236, 226)
	pdf.Rect(0, 0, pageW, pageH, "F")

	pdf.SetTextColor(40, 30, 60)
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(margin, margin)
	if title == "" {
		title = "Run Map"
	}
	pdf.CellFormat(pageW-2*margin, 18, title, "", 0, "C", false, 0, "")

	pdf.SetDrawColor(120, 110, 140)
	pdf.SetLineWidth(1)
	for _, n := range nodes {
		from := pos[n.ID]
		for _, c := range n.Connections {
			to, ok := pos[c]
			if !ok {
				continue
			}
			pdf.Line(from[0], from[1], to[0], to[1])
		}
	}

	for _, n := range nodes {
		p := pos[n.ID]
		r, g, b := nodeColor(n.Type)
		pdf.SetFillColor(r, g, b)
		style := "D"
		if n.Cleared {
			style = "FD"
		}
		pdf.SetLineWidth(1)
		pdf.SetDrawColor(60, 50, 80)
		if n.Selectable {
			pdf.SetLineWidth(2.5)
			pdf.SetDrawColor(190, 40, 40)
		}
		pdf.Circle(p[0], p[1], nodeRadius, style)

		if n.ID == currentID {
			pdf.SetDrawColor(20, 20, 20)
			pdf.SetLineWidth(1)
			pdf.Circle(p[0], p[1], nodeRadius+5, "D")
		}

		pdf.SetFont("Helvetica", "", labelSize)
		pdf.SetTextColor(40, 30, 60)
		pdf.SetXY(p[0]-30, p[1]+nodeRadius+2)
		pdf.CellFormat(60, 8, strings.ToUpper(n.ID), "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render map pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func nodeColor(t NodeType) (int, int, int) {
	switch t {
	case NodeBattle:
		return 200, 90, 80
	case NodeEvent:
		return 110, 140, 210
	case NodeShop:
		return 220, 180, 70
	case NodeRest:
		return 110, 180, 120
	case NodeDungeon:
		return 120, 80, 150
	}
	return 160, 160, 160
}
