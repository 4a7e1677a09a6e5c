package media

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DishPhotoMaxSide = 1200
	DishThumbSide    = 300
	jpegQuality      = 85
)

var ErrUnsupportedImage = errors.New("unsupported image type")

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
	"image/heic": true,
	"image/heif": true,
}

// AllowedContentType reports whether a declared or sniffed type can be decoded.
func AllowedContentType(contentType string) bool {
	ct := strings.TrimSpace(strings.ToLower(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return allowedContentTypes[ct]
}

func DetectContentType(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if isHeifFamily(data) {
		return "image/heic"
	}
	sample := data
	if len(sample) > 512 {
		sample = sample[:512]
	}
	return http.DetectContentType(sample)
}

// isHeifFamily checks the ISO BMFF header: [size:4][ftyp:4][brand:4].
func isHeifFamily(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "hevc", "hevx", "mif1", "msf1", "heif":
		return true
	default:
		return false
	}
}

func decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if isHeifFamily(data) {
			heic, heicErr := decodeHEIC(data)
			if heicErr != nil {
				return nil, "", heicErr
			}
			return heic, "heic", nil
		}
		return nil, "", ErrUnsupportedImage
	}
	if format == "jpeg" {
		img = applyOrientation(img, data)
	}
	return img, format, nil
}

// applyOrientation honours the EXIF orientation tag. Missing or broken
// EXIF leaves the image as decoded.
func applyOrientation(img image.Image, data []byte) image.Image {
	ex, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return img
	}
	tag, err := ex.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orient, err := tag.Int(0)
	if err != nil {
		return img
	}
	switch orient {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

type DishPhoto struct {
	Full         []byte
	Thumb        []byte
	SourceFormat string
	Width        int
	Height       int
}

// PrepareDishPhoto produces the menu image (fit inside 1200px) and a
// 300px square thumbnail, both as JPEG.
func PrepareDishPhoto(data []byte) (DishPhoto, error) {
	img, format, err := decode(data)
	if err != nil {
		return DishPhoto{}, err
	}

	full, err := encodeJPEG(imaging.Fit(img, DishPhotoMaxSide, DishPhotoMaxSide, imaging.Lanczos))
	if err != nil {
		return DishPhoto{}, err
	}
	thumb, err := encodeJPEG(imaging.Fill(img, DishThumbSide, DishThumbSide, imaging.Center, imaging.Lanczos))
	if err != nil {
		return DishPhoto{}, err
	}

	b := img.Bounds()
	return DishPhoto{Full: full, Thumb: thumb, SourceFormat: format, Width: b.Dx(), Height: b.Dy()}, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
