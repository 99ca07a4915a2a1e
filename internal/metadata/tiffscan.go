package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/tiff"
)

// TIFF baseline tag ids carried in IFD0 of TIFF-container RAW files.
const (
	tagMake     = 0x010F
	tagModel    = 0x0110
	tagDateTime = 0x0132
)

var errNotTIFFContainer = errors.New("not a tiff container")

// tiffScanStrategy walks the raw IFD chain of TIFF-container files. RAW
// formats frequently trip the high-level EXIF decoder over maker notes while
// IFD0 still carries make, model, and datetime.
type tiffScanStrategy struct{}

func (tiffScanStrategy) name() string { return "tiffscan" }

func (tiffScanStrategy) extract(path string) (partial, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := tiffContainerExtensions[ext]; !ok {
		return partial{}, errNotTIFFContainer
	}

	f, err := os.Open(path)
	if err != nil {
		return partial{}, err
	}
	defer f.Close()

	t, err := tiff.Decode(f)
	if err != nil {
		return partial{}, err
	}

	var p partial
	var maker, model string
	for _, dir := range t.Dirs {
		for _, tag := range dir.Tags {
			switch tag.Id {
			case tagMake:
				if maker == "" {
					maker, _ = tag.StringVal()
				}
			case tagModel:
				if model == "" {
					model, _ = tag.StringVal()
				}
			case tagDateTime:
				if p.taken.IsZero() {
					if value, err := tag.StringVal(); err == nil {
						if taken, ok := parseEXIFTime(value); ok {
							p.taken = taken
						}
					}
				}
			}
		}
	}

	p.camera = combineMakeModel(maker, model)
	return p, nil
}

// combineMakeModel prefixes the model with the maker unless the model already
// repeats it, matching how exiftool presents camera names.
func combineMakeModel(maker, model string) string {
	maker = strings.TrimSpace(maker)
	model = strings.TrimSpace(model)
	switch {
	case model == "":
		return ""
	case maker == "" || strings.Contains(model, maker):
		return model
	default:
		return maker + " " + model
	}
}
