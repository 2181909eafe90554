package chart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

const (
	pageWidth   = 210.0
	pageHeight  = 148.0
	plotLeft    = 30.0
	plotTop     = 22.0
	plotRight   = 12.0
	plotBottom  = 24.0
	yTickCount  = 5
	barFraction = 0.6

	defaultBarColor  = "#3b82f6"
	defaultTickColor = "#6b7280"
	defaultGridColor = "#e5e7eb"
)

// PDFRenderer draws each chart as a PDF file under Dir. Destroying the
// handle removes the file.
type PDFRenderer struct {
	Dir string

	mu sync.Mutex
}

func NewPDFRenderer(dir string) (*PDFRenderer, error) {
	if dir == "" {
		return nil, errors.New("chart directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}
	return &PDFRenderer{Dir: dir}, nil
}

func (r *PDFRenderer) Draw(ctx context.Context, c BarChart) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	path := filepath.Join(r.Dir, fmt.Sprintf("%s-%s.pdf", sanitize(c.Surface), id))

	pdf := fpdf.New("L", "mm", "A5", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	drawBarChart(pdf, c)

	r.mu.Lock()
	err := pdf.OutputFileAndClose(path)
	r.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("write chart %s: %w", path, err)
	}

	return &fileHandle{id: id, surface: c.Surface, path: path}, nil
}

// Path returns the file behind h when h was drawn by a PDFRenderer.
func Path(h Handle) string {
	if fh, ok := h.(*fileHandle); ok {
		return fh.path
	}
	return ""
}

type fileHandle struct {
	id      string
	surface string
	path    string

	once sync.Once
	err  error
}

func (h *fileHandle) ID() string      { return h.id }
func (h *fileHandle) Surface() string { return h.surface }

func (h *fileHandle) Destroy() error {
	h.once.Do(func() {
		if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.err = err
		}
	})
	return h.err
}

func drawBarChart(pdf *fpdf.Fpdf, c BarChart) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	plotW := pageWidth - plotLeft - plotRight
	plotH := pageHeight - plotTop - plotBottom
	baseY := plotTop + plotH

	values := make([]float64, len(c.Series.Values))
	maxV := 0.0
	for i, v := range c.Series.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			v = 0
		}
		values[i] = v
		maxV = math.Max(maxV, v)
	}
	step := niceStep(maxV / yTickCount)
	top := step * yTickCount

	tick := parseHex(c.Style.TickColor, defaultTickColor)
	grid := parseHex(c.Style.GridColor, defaultGridColor)
	bar := parseHex(c.Style.BarColor, defaultBarColor)

	if c.Style.ShowLegend && c.Series.Label != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(tick[0], tick[1], tick[2])
		pdf.SetXY(plotLeft, 8)
		pdf.CellFormat(plotW, 8, tr(c.Series.Label), "", 0, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetLineWidth(0.2)
	for i := 0; i <= yTickCount; i++ {
		v := step * float64(i)
		y := baseY - plotH*v/top
		if c.Style.ShowYGrid {
			pdf.SetDrawColor(grid[0], grid[1], grid[2])
			pdf.Line(plotLeft, y, plotLeft+plotW, y)
		}
		pdf.SetTextColor(tick[0], tick[1], tick[2])
		pdf.SetXY(0, y-2)
		pdf.CellFormat(plotLeft-3, 4, strconv.FormatFloat(v, 'f', -1, 64), "", 0, "R", false, 0, "")
	}

	n := len(values)
	if n == 0 {
		return
	}
	slot := plotW / float64(n)
	barW := slot * barFraction
	radius := math.Min(c.Style.BorderRadius*0.25, barW/2)

	pdf.SetFillColor(bar[0], bar[1], bar[2])
	for i, v := range values {
		x := plotLeft + slot*float64(i) + (slot-barW)/2
		h := plotH * v / top
		roundedBar(pdf, x, baseY-h, barW, h, radius)

		if c.Style.ShowXGrid {
			pdf.SetDrawColor(grid[0], grid[1], grid[2])
			gx := plotLeft + slot*float64(i)
			pdf.Line(gx, plotTop, gx, baseY)
		}
		pdf.SetTextColor(tick[0], tick[1], tick[2])
		pdf.SetXY(plotLeft+slot*float64(i), baseY+3)
		pdf.CellFormat(slot, 5, tr(c.Labels[i]), "", 0, "C", false, 0, "")
	}
}

// roundedBar fills a bar whose top corners are rounded by r.
func roundedBar(pdf *fpdf.Fpdf, x, y, w, h, r float64) {
	if h <= 0 {
		return
	}
	if r <= 0 || h < r {
		pdf.Rect(x, y, w, h, "F")
		return
	}
	pdf.Rect(x, y+r, w, h-r, "F")
	pdf.Rect(x+r, y, w-2*r, r, "F")
	pdf.Circle(x+r, y+r, r, "F")
	pdf.Circle(x+w-r, y+r, r, "F")
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch f := raw / mag; {
	case f <= 1:
		return mag
	case f <= 2:
		return 2 * mag
	case f <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func parseHex(s, fallback string) [3]int {
	rgb, ok := hexRGB(s)
	if !ok {
		rgb, _ = hexRGB(fallback)
	}
	return rgb
}

func hexRGB(s string) ([3]int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return [3]int{}, false
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return [3]int{}, false
	}
	return [3]int{int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff)}, true
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
