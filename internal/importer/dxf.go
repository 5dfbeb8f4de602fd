package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/goldsilver/internal/export"
	"github.com/piwi3910/goldsilver/internal/model"
)

// ImportDXF reads a marking from a drawing laid out like the DXF renderer's
// output: full-size closed squares are grid cells, circles are silver cells
// and smaller closed squares are gold cells. Cells are located by the center
// of each shape on a grid of export.DXFCellSize.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	type point struct{ x, y float64 }
	var cells, silver, gold []point
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			cx, cy, side := polylineBox(e.Vertices)
			if side >= export.DXFCellSize*0.9 {
				cells = append(cells, point{cx, cy})
			} else {
				gold = append(gold, point{cx, cy})
			}
		case *entity.Circle:
			silver = append(silver, point{e.Center[0], e.Center[1]})
		default:
			// Unsupported entity types are silently skipped
		}
	}

	if len(cells) == 0 {
		result.Errors = append(result.Errors, "No grid cells found in DXF file")
		return result
	}

	maxCol, maxRow := 0, 0
	for _, p := range cells {
		maxCol = max(maxCol, cellIndex(p.x))
		maxRow = max(maxRow, cellIndex(p.y))
	}
	m := Marking{Rows: maxRow + 1, Cols: maxCol + 1, Silver: []model.Cell{}, Gold: []model.Cell{}}
	g := m.Grid()

	// The drawing puts row 0 at the top, so rows count down from maxRow.
	locate := func(p point, kind string) (model.Cell, bool) {
		c := model.Cell{Row: maxRow - cellIndex(p.y), Col: cellIndex(p.x)}
		if !g.InBounds(c) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped %s marker at (%.2f, %.2f) outside the grid", kind, p.x, p.y))
			return c, false
		}
		return c, true
	}
	for _, p := range silver {
		if c, ok := locate(p, "silver"); ok {
			m.Silver = append(m.Silver, c)
		}
	}
	for _, p := range gold {
		if c, ok := locate(p, "gold"); ok {
			m.Gold = append(m.Gold, c)
		}
	}
	sortCells(g, m.Silver)
	sortCells(g, m.Gold)

	result.Marking = m
	return result
}

// polylineBox returns the center and the larger side of the bounding box of vertices.
func polylineBox(vertices [][]float64) (cx, cy, side float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range vertices {
		minX, maxX = math.Min(minX, v[0]), math.Max(maxX, v[0])
		minY, maxY = math.Min(minY, v[1]), math.Max(maxY, v[1])
	}
	return (minX + maxX) / 2, (minY + maxY) / 2, math.Max(maxX-minX, maxY-minY)
}

func cellIndex(v float64) int {
	return int(math.Floor(v / export.DXFCellSize))
}

func sortCells(g model.Grid, cells []model.Cell) {
	sort.Slice(cells, func(i, j int) bool { return g.Index(cells[i]) < g.Index(cells[j]) })
}
