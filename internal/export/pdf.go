package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/goldsilver/internal/model"
)

// cellColor represents an RGB fill color.
type cellColor struct {
	R, G, B int
}

var (
	goldColor   = cellColor{R: 255, G: 204, B: 0}
	silverColor = cellColor{R: 192, G: 192, B: 192}
	emptyColor  = cellColor{R: 255, G: 255, B: 255}
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 10.0
	qrSize       = 40.0 // QR code size in mm
	qrGap        = 10.0 // space between grid and QR code
	legendHeight = 8.0
)

// ExportPDF draws the grid with gold and silver cells filled, a stats header,
// a color legend and a QR code carrying a JSON Summary of the result.
func ExportPDF(path string, result model.Result) error {
	if result.Grid().Size() == 0 {
		return ErrNothingToRender
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(fmt.Sprintf("Gold/silver cells %dx%d k=%d", result.Rows, result.Cols, result.K), true)
	pdf.AddPage()

	renderHeader(pdf, result)
	renderGrid(pdf, result)
	if err := renderQRCode(pdf, result); err != nil {
		return err
	}
	renderLegend(pdf)

	return pdf.OutputFileAndClose(path)
}

func renderHeader(pdf *fpdf.Fpdf, result model.Result) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Gold/silver cells: %d x %d grid, k = %d", result.Rows, result.Cols, result.K)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Status: %s | Gold: %d | Silver: %d | Backend: %s | Elapsed: %s",
		result.Status, result.GoldCount(), result.SilverCount(), result.Backend, result.Elapsed.Round(time.Millisecond))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")
}

// gridLayout returns the cell size and top-left corner that fit the grid into
// the drawing area left of the QR code.
func gridLayout(rows, cols int) (cell, offsetX, offsetY float64) {
	drawWidth := pageWidth - marginLeft - marginRight - qrSize - qrGap
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	cell = math.Min(drawWidth/float64(cols), drawHeight/float64(rows))
	offsetX = marginLeft + (drawWidth-cell*float64(cols))/2
	offsetY = drawAreaTop
	return cell, offsetX, offsetY
}

func renderGrid(pdf *fpdf.Fpdf, result model.Result) {
	cell, offsetX, offsetY := gridLayout(result.Rows, result.Cols)
	marking := result.Marking()

	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.2)
	for r, row := range marking {
		for c, mark := range row {
			col := emptyColor
			switch mark {
			case 'G':
				col = goldColor
			case 'S':
				col = silverColor
			}
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.Rect(offsetX+float64(c)*cell, offsetY+float64(r)*cell, cell, cell, "FD")
		}
	}

	// Letters only when the cells are large enough to hold them
	if cell >= 6 {
		pdf.SetFont("Helvetica", "B", math.Min(cell*1.5, 14))
		pdf.SetTextColor(40, 40, 40)
		for r, row := range marking {
			for c, mark := range row {
				if mark == '.' {
					continue
				}
				pdf.SetXY(offsetX+float64(c)*cell, offsetY+float64(r)*cell)
				pdf.CellFormat(cell, cell, string(mark), "", 0, "CM", false, 0, "")
			}
		}
		pdf.SetTextColor(0, 0, 0)
	}

	// Outer border
	pdf.SetLineWidth(0.6)
	pdf.Rect(offsetX, offsetY, cell*float64(result.Cols), cell*float64(result.Rows), "D")
}

func renderQRCode(pdf *fpdf.Fpdf, result model.Result) error {
	data, err := json.Marshal(Summarize(result))
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "qr_summary"
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))

	x := pageWidth - marginRight - qrSize
	pdf.ImageOptions(imgName, x, drawAreaTop, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x, drawAreaTop+qrSize+1)
	pdf.CellFormat(qrSize, 4, "Run "+shortID(result.RunID), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

func renderLegend(pdf *fpdf.Fpdf) {
	y := pageHeight - marginBottom - legendHeight + 2
	x := marginLeft
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.2)
	for _, item := range []struct {
		label string
		col   cellColor
	}{
		{"Gold", goldColor},
		{"Silver", silverColor},
		{"Unmarked", emptyColor},
	} {
		pdf.SetFillColor(item.col.R, item.col.G, item.col.B)
		pdf.Rect(x, y, 4, 4, "FD")
		pdf.SetXY(x+5, y)
		pdf.CellFormat(25, 4, item.label, "", 0, "L", false, 0, "")
		x += 32
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
