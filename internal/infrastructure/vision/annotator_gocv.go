//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"

	"gocv.io/x/gocv"

	"porosity-bot/internal/domain/entity"
	"porosity-bot/internal/domain/port"
)

// GoCVAnnotator рисует рамки и подпись средствами OpenCV.
type GoCVAnnotator struct {
	BoxColor    color.RGBA
	TextColor   color.RGBA
	BackColor   color.RGBA
	LineWidth   int
	Offset      image.Point // отступ подписи от левого верхнего угла
	FontScale   float64
	JPEGQuality int
}

// NewGoCVAnnotator создаёт аннотатор: красные рамки толщиной 2, подпись в (10,10).
func NewGoCVAnnotator() (*GoCVAnnotator, error) {
	return &GoCVAnnotator{
		BoxColor:    color.RGBA{R: 255, A: 255},
		TextColor:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
		BackColor:   color.RGBA{R: 40, G: 40, B: 40, A: 255},
		LineWidth:   2,
		Offset:      image.Pt(10, 10),
		FontScale:   0.5,
		JPEGQuality: 90,
	}, nil
}

// Annotate наносит рамки и подпись и кодирует результат в исходном формате.
func (a *GoCVAnnotator) Annotate(imageData []byte, result *entity.AnalysisResult) ([]byte, error) {
	if result == nil {
		return nil, errors.New("analysis result is nil")
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	for _, box := range result.Boxes {
		gocv.Rectangle(&mat, box.Rect(), a.BoxColor, a.LineWidth)
	}
	a.drawCaption(&mat, result.Caption())

	return a.encode(mat, format)
}

func (a *GoCVAnnotator) drawCaption(mat *gocv.Mat, lines []string) {
	const (
		font      = gocv.FontHersheySimplex
		thickness = 1
		spacing   = 6
	)

	widest, height := 0, 0
	for _, l := range lines {
		size := gocv.GetTextSize(l, font, a.FontScale, thickness)
		widest = maxInt(widest, size.X)
		height = maxInt(height, size.Y)
	}
	lineHeight := height + spacing

	back := image.Rect(a.Offset.X-2, a.Offset.Y-2, a.Offset.X+widest+2, a.Offset.Y+lineHeight*len(lines)+2)
	gocv.Rectangle(mat, back, a.BackColor, -1)

	for i, l := range lines {
		// PutText принимает левый нижний угол строки
		org := image.Pt(a.Offset.X, a.Offset.Y+height+i*lineHeight)
		gocv.PutText(mat, l, org, font, a.FontScale, a.TextColor, thickness)
	}
}

func (a *GoCVAnnotator) encode(mat gocv.Mat, format string) ([]byte, error) {
	var (
		buf *gocv.NativeByteBuffer
		err error
	)
	switch format {
	case "jpeg":
		buf, err = gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{int(gocv.IMWriteJpegQuality), a.JPEGQuality})
	case "png":
		buf, err = gocv.IMEncode(gocv.PNGFileExt, mat)
	case "bmp":
		buf, err = gocv.IMEncode(gocv.FileExt(".bmp"), mat)
	case "gif":
		// OpenCV не пишет GIF, кодируем через image/gif
		img, err := mat.ToImage()
		if err != nil {
			return nil, fmt.Errorf("convert mat: %w", err)
		}
		var out bytes.Buffer
		if err := gif.Encode(&out, img, nil); err != nil {
			return nil, fmt.Errorf("encode gif: %w", err)
		}
		return out.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

var _ port.Annotator = (*GoCVAnnotator)(nil)
