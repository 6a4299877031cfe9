package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Canvas dimensions and plot margins, in pixels.
const (
	canvasW = 640
	canvasH = 480

	marginLeft   = 60
	marginRight  = 20
	marginTop    = 40
	marginBottom = 50
)

var (
	colBackground = color.RGBA{255, 255, 255, 255}
	colAxis       = color.RGBA{40, 40, 40, 255}
	colGrid       = color.RGBA{225, 225, 225, 255}
	colSeries     = color.RGBA{31, 119, 180, 255}
	colBarFill    = color.RGBA{72, 139, 194, 255}
	colText       = color.RGBA{20, 20, 20, 255}
)

// Render rasterizes the figure onto a fixed-size RGBA canvas.
func (f *Figure) Render() (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	draw.Draw(img, img.Bounds(), image.NewUniform(colBackground), image.Point{}, draw.Src)

	switch f.Kind {
	case Scatter:
		renderXY(img, f, false)
	case Line:
		renderXY(img, f, true)
	case Histogram:
		renderHistogram(img, f)
	case Bar:
		renderBar(img, f)
	case Heatmap:
		renderHeatmap(img, f)
	default:
		return nil, fmt.Errorf("unknown figure kind %q", f.Kind)
	}

	if f.Title != "" {
		drawTextCentered(img, canvasW/2, marginTop/2, f.Title)
	}
	if f.XLabel != "" {
		drawTextCentered(img, canvasW/2, canvasH-12, f.XLabel)
	}
	return img, nil
}

// plotArea is the pixel rectangle inside the margins.
func plotArea() image.Rectangle {
	return image.Rect(marginLeft, marginTop, canvasW-marginRight, canvasH-marginBottom)
}

// axisRange pads a data range so extreme points avoid the plot border, and
// widens degenerate ranges to unit width.
func axisRange(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo > hi {
		return 0, 1
	}
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// scale maps a data value to a pixel coordinate along [pxLo, pxHi].
func scale(v, lo, hi float64, pxLo, pxHi int) int {
	t := (v - lo) / (hi - lo)
	return pxLo + int(t*float64(pxHi-pxLo)+0.5)
}

func renderXY(img *image.RGBA, f *Figure, connect bool) {
	area := plotArea()
	xLo, xHi := axisRange(f.X)
	yLo, yHi := axisRange(f.Y)

	drawAxes(img, area, xLo, xHi, yLo, yHi)

	prevX, prevY := 0, 0
	for i := range f.X {
		px := scale(f.X[i], xLo, xHi, area.Min.X, area.Max.X)
		py := scale(f.Y[i], yLo, yHi, area.Max.Y, area.Min.Y)
		drawMarker(img, px, py)
		if connect && i > 0 {
			drawLine(img, prevX, prevY, px, py, colSeries)
		}
		prevX, prevY = px, py
	}
}

func renderHistogram(img *image.RGBA, f *Figure) {
	lo, hi := axisRange(f.Values)
	counts := make([]float64, f.Bins)
	width := (hi - lo) / float64(f.Bins)
	for _, v := range f.Values {
		idx := int((v - lo) / width)
		if idx >= f.Bins {
			idx = f.Bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}

	maxCount := 0.0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	area := plotArea()
	drawAxes(img, area, lo, hi, 0, maxCount)

	barW := float64(area.Dx()) / float64(f.Bins)
	for i, c := range counts {
		x0 := area.Min.X + int(float64(i)*barW)
		x1 := area.Min.X + int(float64(i+1)*barW) - 1
		y0 := scale(c, 0, maxCount, area.Max.Y, area.Min.Y)
		fillRect(img, image.Rect(x0, y0, x1, area.Max.Y), colBarFill)
		strokeRect(img, image.Rect(x0, y0, x1, area.Max.Y), colAxis)
	}
}

func renderBar(img *image.RGBA, f *Figure) {
	maxH := 0.0
	for _, h := range f.Heights {
		if h > maxH {
			maxH = h
		}
	}
	if maxH == 0 {
		maxH = 1
	}

	area := plotArea()
	drawAxes(img, area, 0, float64(len(f.Labels)), 0, maxH)

	slotW := float64(area.Dx()) / float64(len(f.Labels))
	for i, h := range f.Heights {
		x0 := area.Min.X + int((float64(i)+0.15)*slotW)
		x1 := area.Min.X + int((float64(i)+0.85)*slotW)
		y0 := scale(h, 0, maxH, area.Max.Y, area.Min.Y)
		fillRect(img, image.Rect(x0, y0, x1, area.Max.Y), colBarFill)
		strokeRect(img, image.Rect(x0, y0, x1, area.Max.Y), colAxis)
		drawTextCentered(img, (x0+x1)/2, area.Max.Y+16, clipLabel(f.Labels[i], 12))
	}
}

func renderHeatmap(img *image.RGBA, f *Figure) {
	n := len(f.Names)
	area := plotArea()
	cellW := float64(area.Dx()) / float64(n)
	cellH := float64(area.Dy()) / float64(n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x0 := area.Min.X + int(float64(j)*cellW)
			y0 := area.Min.Y + int(float64(i)*cellH)
			x1 := area.Min.X + int(float64(j+1)*cellW)
			y1 := area.Min.Y + int(float64(i+1)*cellH)
			rect := image.Rect(x0, y0, x1, y1)
			fillRect(img, rect, heatColor(f.Matrix[i][j]))
			strokeRect(img, rect, colGrid)
			drawTextCentered(img, (x0+x1)/2, (y0+y1)/2+4, fmt.Sprintf("%.2f", f.Matrix[i][j]))
		}
		cx := area.Min.X + int((float64(i)+0.5)*cellW)
		drawTextCentered(img, cx, area.Max.Y+16, clipLabel(f.Names[i], 10))
		drawText(img, 4, area.Min.Y+int((float64(i)+0.5)*cellH)+4, clipLabel(f.Names[i], 8))
	}
}

// heatColor maps a correlation value in [-1, 1] to a blue-white-red ramp.
func heatColor(v float64) color.RGBA {
	if math.IsNaN(v) {
		return color.RGBA{200, 200, 200, 255}
	}
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	if v >= 0 {
		t := v
		return color.RGBA{255, uint8(255 * (1 - t*0.7)), uint8(255 * (1 - t*0.8)), 255}
	}
	t := -v
	return color.RGBA{uint8(255 * (1 - t*0.8)), uint8(255 * (1 - t*0.7)), 255, 255}
}

func drawAxes(img *image.RGBA, area image.Rectangle, xLo, xHi, yLo, yHi float64) {
	// Gridlines with tick labels, then the axis frame on top.
	const ticks = 5
	for i := 0; i <= ticks; i++ {
		t := float64(i) / ticks

		gx := area.Min.X + int(t*float64(area.Dx()))
		drawLine(img, gx, area.Min.Y, gx, area.Max.Y, colGrid)
		drawTextCentered(img, gx, area.Max.Y+16, formatTick(xLo+t*(xHi-xLo)))

		gy := area.Max.Y - int(t*float64(area.Dy()))
		drawLine(img, area.Min.X, gy, area.Max.X, gy, colGrid)
		drawText(img, 6, gy+4, formatTick(yLo+t*(yHi-yLo)))
	}

	drawLine(img, area.Min.X, area.Min.Y, area.Min.X, area.Max.Y, colAxis)
	drawLine(img, area.Min.X, area.Max.Y, area.Max.X, area.Max.Y, colAxis)
}

func formatTick(v float64) string {
	if math.Abs(v) >= 1000 || (math.Abs(v) < 0.01 && v != 0) {
		return fmt.Sprintf("%.1e", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func clipLabel(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func drawMarker(img *image.RGBA, x, y int) {
	for dx := -2; dx <= 2; dx++ {
		for dy := -2; dy <= 2; dy++ {
			if dx*dx+dy*dy <= 5 {
				setPixel(img, x+dx, y+dy, colSeries)
			}
		}
	}
}

// drawLine draws a straight segment using Bresenham's algorithm.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		setPixel(img, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	drawLine(img, r.Min.X, r.Min.Y, r.Max.X, r.Min.Y, c)
	drawLine(img, r.Max.X, r.Min.Y, r.Max.X, r.Max.Y, c)
	drawLine(img, r.Max.X, r.Max.Y, r.Min.X, r.Max.Y, c)
	drawLine(img, r.Min.X, r.Max.Y, r.Min.X, r.Min.Y, c)
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func drawText(img *image.RGBA, x, y int, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func drawTextCentered(img *image.RGBA, cx, y int, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colText),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(s).Round()
	d.Dot = fixed.P(cx-w/2, y)
	d.DrawString(s)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
