package processing

import (
	"bytes"
	"image"
	"image/jpeg"
	"io"

	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
)

const (
	mediumQuality = 80
	thumbQuality  = 70
)

// Derivatives holds the two generated variants of an uploaded original plus
// the original's decoded dimensions. Both variants are re-encoded as JPEG.
type Derivatives struct {
	Medium *bytes.Buffer
	Thumb  *bytes.Buffer
	Width  int
	Height int
}

// Generate produces the medium (bounded to maxSize on the longest side, never
// enlarged) and thumbnail (thumbSize square center crop) variants. The caller
// saves all three files as one set or none at all.
func Generate(reader io.Reader, maxSize, thumbSize uint) (*Derivatives, error) {
	src, _, err := image.Decode(reader)
	if err != nil {
		return nil, err
	}
	result := &Derivatives{
		Medium: &bytes.Buffer{},
		Thumb:  &bytes.Buffer{},
		Width:  src.Bounds().Dx(),
		Height: src.Bounds().Dy(),
	}

	medium := resize.Thumbnail(maxSize, maxSize, src, resize.Lanczos3)
	if err = jpeg.Encode(result.Medium, medium, &jpeg.Options{Quality: mediumQuality}); err != nil {
		return nil, err
	}

	thumb := squareCrop(src, thumbSize)
	if err = jpeg.Encode(result.Thumb, thumb, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, err
	}
	return result, nil
}

// squareCrop scales the image so its shorter side equals size, then crops the
// center.
func squareCrop(src image.Image, size uint) image.Image {
	bounds := src.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())
	if width == 0 || height == 0 {
		return src
	}
	// Scale the shorter side to the target, keeping aspect ratio
	if width < height {
		src = resize.Resize(size, 0, src, resize.Lanczos3)
	} else {
		src = resize.Resize(0, size, src, resize.Lanczos3)
	}
	bounds = src.Bounds()
	x0 := bounds.Min.X + (bounds.Dx()-int(size))/2
	y0 := bounds.Min.Y + (bounds.Dy()-int(size))/2
	crop := image.Rect(x0, y0, x0+int(size), y0+int(size)).Intersect(bounds)

	out := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	for y := 0; y < crop.Dy(); y++ {
		for x := 0; x < crop.Dx(); x++ {
			out.Set(x, y, src.At(crop.Min.X+x, crop.Min.Y+y))
		}
	}
	return out
}
