package chart

import (
	"errors"
	"fmt"
	"image/color"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
)

// Format is an output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ErrUnsupportedFormat is returned for output names without a known image
// extension.
var ErrUnsupportedFormat = errors.New("output image filename has to end with .png, .jpg or .jpeg")

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

const (
	margin     = 10.0
	titleSpace = 24.0
	axisSpace  = 22.0
	tickCount  = 4
	jpegQual   = 90
)

var palette = []color.RGBA{
	{R: 0x4e, G: 0x79, B: 0xa7, A: 0xff},
	{R: 0xf2, G: 0x8e, B: 0x2b, A: 0xff},
	{R: 0xe1, G: 0x57, B: 0x59, A: 0xff},
	{R: 0x76, G: 0xb7, B: 0xb2, A: 0xff},
	{R: 0x59, G: 0xa1, B: 0x4f, A: 0xff},
	{R: 0xed, G: 0xc9, B: 0x48, A: 0xff},
	{R: 0xb0, G: 0x7a, B: 0xa1, A: 0xff},
	{R: 0x9c, G: 0x75, B: 0x5f, A: 0xff},
}

// Render draws g at width x height pixels and encodes it to w.
func Render(w io.Writer, g *Gantt, format Format, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	if g.Title != "" {
		dc.DrawStringAnchored(g.Title, float64(width)/2, margin+titleSpace/2, 0.5, 0.5)
	}

	if g.Empty() {
		dc.DrawStringAnchored("no sessions found", float64(width)/2, float64(height)/2, 0.5, 0.5)
		return encode(w, dc, format)
	}

	labelWidth := 0.0
	for _, task := range g.Tasks {
		if lw, _ := dc.MeasureString(task.Name); lw > labelWidth {
			labelWidth = lw
		}
	}
	labelWidth = min(labelWidth+margin, float64(width)/3)

	left := margin + labelWidth
	right := float64(width) - margin
	top := margin + titleSpace
	bottom := float64(height) - margin - axisSpace
	if right <= left || bottom <= top {
		return encode(w, dc, format)
	}

	span := g.End.Sub(g.Start)
	if span <= 0 {
		span = time.Minute
	}
	x := func(t time.Time) float64 {
		return left + (right-left)*float64(t.Sub(g.Start))/float64(span)
	}

	rowHeight := (bottom - top) / float64(len(g.Tasks))
	barHeight := rowHeight * 0.6

	for i, task := range g.Tasks {
		rowTop := top + float64(i)*rowHeight
		mid := rowTop + rowHeight/2

		dc.SetRGB(0.94, 0.94, 0.94)
		dc.DrawRectangle(x(task.Start), rowTop+rowHeight*0.15, x(task.End)-x(task.Start), rowHeight*0.7)
		dc.Fill()

		c := palette[i%len(palette)]
		for _, sub := range task.Subtasks {
			x0, x1 := x(sub.Start), x(sub.End)
			if x1-x0 < 1 {
				x1 = x0 + 1
			}
			dc.SetColor(c)
			dc.DrawRectangle(x0, mid-barHeight/2, x1-x0, barHeight)
			dc.Fill()
			if sub.Open {
				dc.SetRGB(0, 0, 0)
				dc.SetLineWidth(1)
				dc.DrawRectangle(x0, mid-barHeight/2, x1-x0, barHeight)
				dc.Stroke()
			}
		}

		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(task.Name, margin, mid, 0, 0.5)
	}

	// Time axis.
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.SetLineWidth(1)
	dc.DrawLine(left, bottom, right, bottom)
	dc.Stroke()
	for i := 0; i <= tickCount; i++ {
		t := g.Start.Add(span * time.Duration(i) / tickCount)
		tx := x(t)
		dc.DrawLine(tx, bottom, tx, bottom+4)
		dc.Stroke()
		ax := 0.5
		switch i {
		case 0:
			ax = 0
		case tickCount:
			ax = 1
		}
		dc.DrawStringAnchored(t.Format("Jan 02 15:04"), tx, bottom+axisSpace/2+4, ax, 0.5)
	}

	return encode(w, dc, format)
}

func encode(w io.Writer, dc *gg.Context, format Format) error {
	switch format {
	case FormatPNG:
		return dc.EncodePNG(w)
	case FormatJPEG:
		return jpeg.Encode(w, dc.Image(), &jpeg.Options{Quality: jpegQual})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// WriteFile renders g into path, choosing the format from its extension.
// Existing files are truncated; overwrite policy belongs to the caller.
func WriteFile(path string, g *Gantt, width, height int) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}

	if err := Render(f, g, format, width, height); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}
	return nil
}
