// Package icon converts images into StatusNotifierItem pixmap buffers.
package icon

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/shelepuginivan/trayitem"
)

// Size is the edge length, in pixels, that icons are scaled to.
const Size = 32

// FromImage scales img to size x size and returns it as a pixmap buffer: an
// 8-byte header followed by ARGB32 pixels in network byte order.
func FromImage(img image.Image, size int) []byte {
	bounds := img.Bounds().Canon()
	if size <= 0 {
		size = max(bounds.Dx(), bounds.Dy())
	}

	src, ok := img.(*image.NRGBA)
	if !ok {
		src = image.NewNRGBA(bounds)
		draw.Draw(src, bounds, img, bounds.Min, draw.Src)
	}

	pixels := make([]byte, 0, 4*size*size)
	for y := range size {
		for x := range size {
			var c color.NRGBA
			if bounds.Dx() > 0 && bounds.Dy() > 0 {
				sx := bounds.Min.X + x*bounds.Dx()/size
				sy := bounds.Min.Y + y*bounds.Dy()/size
				c = src.NRGBAAt(sx, sy)
			}
			pixels = append(pixels, c.A, c.R, c.G, c.B)
		}
	}

	return trayitem.EncodePixmap(int32(size), int32(size), pixels)
}

// Decode reads a PNG image from r and converts it with [FromImage].
func Decode(r io.Reader, size int) ([]byte, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode icon: %w", err)
	}

	return FromImage(img, size), nil
}

// Load reads a PNG file and converts it with [FromImage].
func Load(path string, size int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open icon: %w", err)
	}
	defer f.Close()

	return Decode(f, size)
}

// Default returns the built-in icon: a filled circle.
func Default(size int, fill color.Color) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	r := size / 2
	for y := range size {
		for x := range size {
			dx, dy := x-r, y-r
			if dx*dx+dy*dy < r*r {
				img.Set(x, y, fill)
			}
		}
	}

	return FromImage(img, size)
}
