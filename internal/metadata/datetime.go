package metadata

import (
	"strings"
	"time"
)

// exifTimeLayouts covers the datetime spellings seen in EXIF fields across
// camera vendors, with and without a timezone suffix.
var exifTimeLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
	"2006:01:02 15:04:05-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006:01:02 15:04:05-0700",
	"2006-01-02 15:04:05-0700",
}

// parseEXIFTime converts an EXIF datetime string to a local wall-clock time.
// Timezone offsets are dropped: the capture time as the photographer saw it
// decides the date folder.
func parseEXIFTime(value string) (time.Time, bool) {
	value = strings.TrimRight(strings.TrimSpace(value), "\x00")
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range exifTimeLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), true
	}
	return time.Time{}, false
}
