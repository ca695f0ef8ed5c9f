package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"porosity-bot/internal/domain/entity"
	"porosity-bot/internal/domain/port"
)

// ImageAnnotator рисует рамки пор и подпись с классификацией.
type ImageAnnotator struct {
	BoxColor    color.Color
	TextColor   color.Color
	BackColor   color.Color // подложка под подписью, nil отключает
	LineWidth   int
	Offset      image.Point // отступ подписи от левого верхнего угла
	JPEGQuality int
}

// NewImageAnnotator создаёт аннотатор: красные рамки толщиной 2, подпись в (10,10).
func NewImageAnnotator() *ImageAnnotator {
	return &ImageAnnotator{
		BoxColor:    color.RGBA{R: 255, A: 255},
		TextColor:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
		BackColor:   color.RGBA{A: 160},
		LineWidth:   2,
		Offset:      image.Pt(10, 10),
		JPEGQuality: 90,
	}
}

// Annotate декодирует изображение, наносит рамки и подпись и кодирует
// результат в исходном формате.
func (a *ImageAnnotator) Annotate(imageData []byte, result *entity.AnalysisResult) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if result == nil {
		return nil, errors.New("analysis result is nil")
	}

	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	for _, box := range result.Boxes {
		a.drawRect(dst, box.Rect())
	}
	a.drawCaption(dst, result.Caption())

	var buf bytes.Buffer
	if err := a.encode(&buf, dst, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawRect рисует контур внутрь прямоугольника.
func (a *ImageAnnotator) drawRect(dst draw.Image, r image.Rectangle) {
	r = r.Canon()
	src := image.NewUniform(a.BoxColor)
	w := a.LineWidth
	if w < 1 {
		w = 1
	}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X+1, r.Min.Y+w),
		image.Rect(r.Min.X, r.Max.Y-w+1, r.Max.X+1, r.Max.Y+1),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y+1),
		image.Rect(r.Max.X-w+1, r.Min.Y, r.Max.X+1, r.Max.Y+1),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

func (a *ImageAnnotator) drawCaption(dst draw.Image, lines []string) {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	if a.BackColor != nil {
		d := &font.Drawer{Face: face}
		widest := 0
		for _, l := range lines {
			if w := d.MeasureString(l).Ceil(); w > widest {
				widest = w
			}
		}
		back := image.Rect(a.Offset.X-2, a.Offset.Y-2, a.Offset.X+widest+2, a.Offset.Y+lineHeight*len(lines)+2)
		draw.Draw(dst, back.Intersect(dst.Bounds()), image.NewUniform(a.BackColor), image.Point{}, draw.Over)
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(a.TextColor),
		Face: face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(a.Offset.X, a.Offset.Y+ascent+i*lineHeight)
		d.DrawString(l)
	}
}

func (a *ImageAnnotator) encode(buf *bytes.Buffer, img image.Image, format string) error {
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: a.JPEGQuality})
	case "png":
		err = png.Encode(buf, img)
	case "gif":
		err = gif.Encode(buf, img, nil)
	case "bmp":
		err = bmp.Encode(buf, img)
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

var _ port.Annotator = (*ImageAnnotator)(nil)
