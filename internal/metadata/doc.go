// Package metadata resolves capture metadata (timestamp, camera, lens, file
// kind) for image files.
//
// Resolution runs an ordered list of independent strategies (embedded EXIF
// decode, a low-level TIFF tag scan, and the external exiftool binary) and
// keeps, per field, the first non-empty value found in that order. Strategy
// failures are silent: a strategy that cannot read a file simply contributes
// nothing. Resolution is total; when no strategy yields a timestamp the file
// modification time is used, and the current time as the last resort.
package metadata
