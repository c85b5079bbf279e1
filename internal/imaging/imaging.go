package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
)

// MaxPixels caps width*height so the decoder never allocates a pixel buffer
// larger than a phone photo needs.
const MaxPixels = 40_000_000

var (
	ErrEmpty       = errors.New("image is empty")
	ErrUnsupported = errors.New("unsupported image format")
	ErrUndecodable = errors.New("image cannot be decoded")
	ErrTooLarge    = errors.New("image dimensions too large")
)

// Image is an uploaded raster that passed validation.
type Image struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// Validate sniffs data, checks the header dimensions against MaxPixels and
// only then fully decodes it. Only JPEG and PNG pass.
func Validate(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmpty
	}
	mt := mimetype.Detect(data)
	var want string
	switch {
	case mt.Is(MIMEJPEG):
		want = "jpeg"
	case mt.Is(MIMEPNG):
		want = "png"
	default:
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupported, mt.String())
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Image{}, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if format != want {
		return Image{}, fmt.Errorf("%w: sniffed %s, decoded %s", ErrUnsupported, want, format)
	}
	b := img.Bounds()
	return Image{
		Data:     data,
		MIMEType: "image/" + want,
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}
