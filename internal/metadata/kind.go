package metadata

import (
	"path/filepath"
	"strings"
)

// Kind is the three-way file classification used for the optional kind path
// segment. The string value doubles as the folder name.
type Kind string

const (
	KindRaw       Kind = "raw"
	KindProcessed Kind = "jpg"
	KindOther     Kind = "other"
)

var processedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".heic": {},
	".heif": {},
	".png":  {},
}

var rawExtensions = map[string]struct{}{
	".arw":  {},
	".cr2":  {},
	".cr3":  {},
	".nef":  {},
	".orf":  {},
	".rw2":  {},
	".raf":  {},
	".dng":  {},
	".srw":  {},
	".pef":  {},
	".tif":  {},
	".tiff": {},
}

// tiffContainerExtensions lists RAW formats carried in a TIFF container,
// where a raw IFD scan can recover tags the EXIF decoder rejects.
var tiffContainerExtensions = map[string]struct{}{
	".tif":  {},
	".tiff": {},
	".nef":  {},
	".arw":  {},
	".dng":  {},
	".cr2":  {},
	".orf":  {},
	".rw2":  {},
	".srw":  {},
	".pef":  {},
}

// Classify maps a file path to its kind purely by extension.
func Classify(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := rawExtensions[ext]; ok {
		return KindRaw
	}
	if _, ok := processedExtensions[ext]; ok {
		return KindProcessed
	}
	return KindOther
}

// IsSupported reports whether the extension is on the scan allow-list
// (the union of the processed and raw tables).
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := rawExtensions[ext]; ok {
		return true
	}
	_, ok := processedExtensions[ext]
	return ok
}
