package processing

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"
)

func encodedTestImage(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, img, nil); err != nil {
		t.Fatalf("cannot encode test image: %v", err)
	}
	return buf
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		height      int
		wantMediumW int
		wantMediumH int
	}{
		{name: "landscape", width: 2048, height: 1024, wantMediumW: 1024, wantMediumH: 512},
		{name: "portrait", width: 1024, height: 2048, wantMediumW: 512, wantMediumH: 1024},
		{name: "small image is not enlarged", width: 640, height: 480, wantMediumW: 640, wantMediumH: 480},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(encodedTestImage(t, tt.width, tt.height), 1024, 200)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if got.Width != tt.width || got.Height != tt.height {
				t.Errorf("original dimensions = %dx%d, want %dx%d", got.Width, got.Height, tt.width, tt.height)
			}
			medium, err := jpeg.Decode(got.Medium)
			if err != nil {
				t.Fatalf("cannot decode medium: %v", err)
			}
			if medium.Bounds().Dx() != tt.wantMediumW || medium.Bounds().Dy() != tt.wantMediumH {
				t.Errorf("medium = %dx%d, want %dx%d",
					medium.Bounds().Dx(), medium.Bounds().Dy(), tt.wantMediumW, tt.wantMediumH)
			}
			thumb, err := jpeg.Decode(got.Thumb)
			if err != nil {
				t.Fatalf("cannot decode thumb: %v", err)
			}
			if thumb.Bounds().Dx() != 200 || thumb.Bounds().Dy() != 200 {
				t.Errorf("thumb = %dx%d, want 200x200", thumb.Bounds().Dx(), thumb.Bounds().Dy())
			}
		})
	}
}

func TestGenerateRejectsGarbage(t *testing.T) {
	if _, err := Generate(bytes.NewReader([]byte("not an image")), 1024, 200); err == nil {
		t.Error("Generate() accepted non-image data")
	}
}
