package docsite

import (
	"bytes"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Plotter 生成 PNG 图像。
type Plotter interface {
	Plot(width, height int) ([]byte, error)
}

const plotDPI = 96

// SinePlotter 绘制 1 + sin(2πt)，t ∈ [0, 2)，步长 0.01。
type SinePlotter struct{}

func (SinePlotter) Plot(width, height int) ([]byte, error) {
	if width < 16 || height < 16 {
		return nil, fmt.Errorf("plot size %dx%d too small", width, height)
	}

	p := plot.New()
	p.Title.Text = "About as simple as it gets, folks"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "voltage (mV)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, 200)
	for i := range pts {
		t := float64(i) * 0.01
		pts[i].X = t
		pts[i].Y = 1 + math.Sin(2*math.Pi*t)
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("build line: %w", err)
	}
	p.Add(line)

	// 像素 -> vg.Length，按固定 DPI 换算
	w := vg.Length(width) * vg.Inch / plotDPI
	h := vg.Length(height) * vg.Inch / plotDPI
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(plotDPI))
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
