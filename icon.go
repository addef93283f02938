package trayitem

import "encoding/binary"

// PixmapHeaderSize is the size of the header of a pixmap buffer accepted by
// [Tray.SetIconPixmap].
const PixmapHeaderSize = 8

// Pixmap is a single icon image in the D-Bus (iiay) form.
type Pixmap struct {
	Width  int32
	Height int32

	// ARGB32 pixels in network byte order, row by row.
	Bytes []byte
}

// ParsePixmap decodes a pixmap buffer. Format of the buffer is as follows
//
//	<width><height><bytes>
//
// Where:
//   - <width>: width of the icon (int32, little endian)
//   - <height>: height of the icon (int32, little endian)
//   - <bytes>: raw pixels of the icon
//
// ParsePixmap reports false if buf is shorter than the header.
func ParsePixmap(buf []byte) (Pixmap, bool) {
	if len(buf) < PixmapHeaderSize {
		return Pixmap{}, false
	}

	return Pixmap{
		Width:  int32(binary.LittleEndian.Uint32(buf[0:4])),
		Height: int32(binary.LittleEndian.Uint32(buf[4:8])),
		Bytes:  buf[PixmapHeaderSize:],
	}, true
}

// EncodePixmap returns a pixmap buffer suitable for [Tray.SetIconPixmap].
func EncodePixmap(width, height int32, pixels []byte) []byte {
	buf := make([]byte, PixmapHeaderSize, PixmapHeaderSize+len(pixels))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(width))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(height))

	return append(buf, pixels...)
}

// pixmaps returns value of the IconPixmap property for buf.
func pixmaps(buf []byte) []Pixmap {
	pixmap, ok := ParsePixmap(buf)
	if !ok {
		return []Pixmap{}
	}

	// Copy, so that the reply does not alias the stored buffer.
	pixmap.Bytes = append([]byte{}, pixmap.Bytes...)

	return []Pixmap{pixmap}
}

// ToolTip is the D-Bus (sa(iiay)ss) form of the ToolTip property.
type ToolTip struct {
	IconName    string
	IconPixmap  []Pixmap
	Title       string
	Description string
}
