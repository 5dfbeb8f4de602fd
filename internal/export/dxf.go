package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/goldsilver/internal/model"
)

// DXF layer names.
const (
	LayerGrid   = "GRID"
	LayerSilver = "SILVER"
	LayerGold   = "GOLD"
)

// DXFCellSize is the side length of one grid cell in drawing units.
const DXFCellSize = 10.0

// silverRadius and goldInset size the markers inside a cell.
const (
	silverRadius = DXFCellSize * 0.35
	goldInset    = DXFCellSize * 0.15
)

// DXFCellOrigin returns the lower-left corner of c. Row 0 is drawn at the top.
func DXFCellOrigin(rows int, c model.Cell) (x, y float64) {
	return float64(c.Col) * DXFCellSize, float64(rows-1-c.Row) * DXFCellSize
}

// ExportDXF writes every cell as a closed square on the GRID layer, a circle
// per silver cell on the SILVER layer and an inset square per gold cell on
// the GOLD layer.
func ExportDXF(path string, result model.Result) error {
	g := result.Grid()
	if g.Size() == 0 {
		return ErrNothingToRender
	}

	d := dxf.NewDrawing()

	d.AddLayer(LayerGrid, dxf.DefaultColor, dxf.DefaultLineType, true)
	for _, c := range g.Cells() {
		x, y := DXFCellOrigin(result.Rows, c)
		if err := square(d, x, y, DXFCellSize); err != nil {
			return fmt.Errorf("failed to draw cell %s: %w", c, err)
		}
	}

	d.AddLayer(LayerSilver, color.Cyan, dxf.DefaultLineType, true)
	for _, c := range result.Silver {
		x, y := DXFCellOrigin(result.Rows, c)
		if _, err := d.Circle(x+DXFCellSize/2, y+DXFCellSize/2, 0, silverRadius); err != nil {
			return fmt.Errorf("failed to draw silver cell %s: %w", c, err)
		}
	}

	d.AddLayer(LayerGold, color.Yellow, dxf.DefaultLineType, true)
	for _, c := range result.Gold {
		x, y := DXFCellOrigin(result.Rows, c)
		if err := square(d, x+goldInset, y+goldInset, DXFCellSize-2*goldInset); err != nil {
			return fmt.Errorf("failed to draw gold cell %s: %w", c, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

func square(d *drawing.Drawing, x, y, side float64) error {
	_, err := d.LwPolyline(true,
		[]float64{x, y},
		[]float64{x + side, y},
		[]float64{x + side, y + side},
		[]float64{x, y + side},
	)
	return err
}
