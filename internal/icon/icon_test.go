package icon

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelepuginivan/trayitem"
)

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0x44, G: 0x55, B: 0x66, A: 0x80})

	buf := FromImage(img, 2)

	pixmap, ok := trayitem.ParsePixmap(buf)
	require.True(t, ok)
	assert.Equal(t, int32(2), pixmap.Width)
	assert.Equal(t, int32(2), pixmap.Height)
	assert.Len(t, pixmap.Bytes, 16)

	// ARGB, network byte order.
	assert.Equal(t, []byte{0xff, 0x11, 0x22, 0x33}, pixmap.Bytes[0:4])
	assert.Equal(t, []byte{0x80, 0x44, 0x55, 0x66}, pixmap.Bytes[4:8])
}

func TestFromImage_Scales(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))

	pixmap, ok := trayitem.ParsePixmap(FromImage(img, Size))
	require.True(t, ok)
	assert.Equal(t, int32(Size), pixmap.Width)
	assert.Len(t, pixmap.Bytes, 4*Size*Size)

	pixmap, ok = trayitem.ParsePixmap(FromImage(img, 0))
	require.True(t, ok)
	assert.Equal(t, int32(64), pixmap.Width, "non-positive size keeps the source size")
}

func TestDecode(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xff, A: 0xff})

	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, img))

	path := filepath.Join(t.TempDir(), "icon.png")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o600))

	buf, err := Load(path, 4)
	require.NoError(t, err)

	pixmap, ok := trayitem.ParsePixmap(buf)
	require.True(t, ok)
	assert.Equal(t, []byte{0xff, 0xff, 0, 0}, pixmap.Bytes[0:4])

	_, err = Decode(bytes.NewReader([]byte("not a png")), 4)
	assert.ErrorContains(t, err, "decode icon")

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"), 4)
	assert.ErrorContains(t, err, "open icon")
}

func TestDefault(t *testing.T) {
	buf := Default(Size, color.NRGBA{R: 0x20, G: 0x80, B: 0xe0, A: 0xff})

	pixmap, ok := trayitem.ParsePixmap(buf)
	require.True(t, ok)
	assert.Equal(t, int32(Size), pixmap.Width)

	corner := pixmap.Bytes[0:4]
	assert.Equal(t, []byte{0, 0, 0, 0}, corner)

	center := (Size/2*Size + Size/2) * 4
	assert.Equal(t, []byte{0xff, 0x20, 0x80, 0xe0}, pixmap.Bytes[center:center+4])
}
