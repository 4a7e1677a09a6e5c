//go:build !linux || !cgo

package media

import (
	"errors"
	"image"
)

var errHEICUnsupported = errors.New("heic photos need a linux cgo build")

func decodeHEIC([]byte) (image.Image, error) {
	return nil, errHEICUnsupported
}
