package metadata

import (
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// exifStrategy decodes embedded EXIF via goexif. Handles JPEG and
// well-formed TIFF files.
type exifStrategy struct{}

func (exifStrategy) name() string { return "exif" }

func (exifStrategy) extract(path string) (partial, error) {
	f, err := os.Open(path)
	if err != nil {
		return partial{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return partial{}, err
	}

	var p partial
	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		if value, ok := tagString(x, field); ok {
			if taken, ok := parseEXIFTime(value); ok {
				p.taken = taken
				break
			}
		}
	}
	if model, ok := tagString(x, exif.Model); ok {
		p.camera = model
	}
	if lens, ok := tagString(x, exif.LensModel); ok {
		p.lens = lens
	}
	return p, nil
}

func tagString(x *exif.Exif, field exif.FieldName) (string, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return "", false
	}
	value, err := tag.StringVal()
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}
