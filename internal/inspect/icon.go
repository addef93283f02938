package inspect

import (
	"errors"
	"fmt"

	"github.com/shelepuginivan/trayitem"
)

var errPixmapFormat = errors.New("malformed pixmap")

// DecodePixmaps converts the value of an a(iiay) property, as delivered by
// godbus, into pixmaps. Entries that are not (iiay) structs are dropped.
func DecodePixmaps(value any) ([]trayitem.Pixmap, error) {
	structs, ok := value.([][]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T, want a(iiay)", errPixmapFormat, value)
	}

	out := make([]trayitem.Pixmap, 0, len(structs))

	for _, fields := range structs {
		if p, err := decodePixmap(fields); err == nil {
			out = append(out, p)
		}
	}

	return out, nil
}

func decodePixmap(fields []any) (trayitem.Pixmap, error) {
	if len(fields) != 3 {
		return trayitem.Pixmap{}, fmt.Errorf("%w: %d fields", errPixmapFormat, len(fields))
	}

	w, wok := fields[0].(int32)
	h, hok := fields[1].(int32)
	data, dok := fields[2].([]byte)

	if !wok || !hok || !dok {
		return trayitem.Pixmap{}, fmt.Errorf("%w: signature is not (iiay)", errPixmapFormat)
	}

	return trayitem.Pixmap{Width: w, Height: h, Bytes: data}, nil
}
