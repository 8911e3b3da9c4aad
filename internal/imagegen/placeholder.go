package imagegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	placeholderSize = 1024
	placeholderTopY = 400
	labelScale      = 6
)

var placeholderBackground = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}

// RenderPlaceholder draws a square light-grey PNG with a centred "Chapter N"
// label, N being index+1.
func RenderPlaceholder(index int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	xdraw.Draw(img, img.Bounds(), &image.Uniform{C: placeholderBackground}, image.Point{}, xdraw.Src)

	label := fmt.Sprintf("Chapter %d", index+1)
	face := basicfont.Face7x13
	w := font.MeasureString(face, label).Ceil()
	h := face.Metrics().Height.Ceil()

	// basicfont is a 7x13 bitmap; draw it small then scale up.
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  small,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(label)

	sw, sh := w*labelScale, h*labelScale
	x := (placeholderSize - sw) / 2
	dst := image.Rect(x, placeholderTopY, x+sw, placeholderTopY+sh)
	xdraw.NearestNeighbor.Scale(img, dst, small, small.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
