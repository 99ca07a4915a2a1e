package metadata

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{"/sd/DCIM/DSC001.ARW", KindRaw},
		{"/sd/DCIM/IMG_0001.cr3", KindRaw},
		{"/sd/DCIM/scan.tiff", KindRaw},
		{"/sd/DCIM/DSC001.JPG", KindProcessed},
		{"/sd/DCIM/pic.heic", KindProcessed},
		{"/sd/DCIM/shot.png", KindProcessed},
		{"/sd/DCIM/clip.mp4", KindOther},
		{"/sd/DCIM/noext", KindOther},
	}
	for _, tc := range cases {
		if got := Classify(tc.path); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestIsSupported(t *testing.T) {
	supported := []string{"a.jpg", "b.NEF", "c.HeIc", "d.rw2", "e.tiff"}
	for _, path := range supported {
		if !IsSupported(path) {
			t.Errorf("IsSupported(%q) = false, want true", path)
		}
	}
	unsupported := []string{"a.mp4", "b.txt", "c.xmp", "noext"}
	for _, path := range unsupported {
		if IsSupported(path) {
			t.Errorf("IsSupported(%q) = true, want false", path)
		}
	}
}

func TestParseEXIFTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024:02:29 13:45:01", time.Date(2024, 2, 29, 13, 45, 1, 0, time.Local), true},
		{"2024-02-29 13:45:01", time.Date(2024, 2, 29, 13, 45, 1, 0, time.Local), true},
		{"2024:02:29 13:45:01+09:00", time.Date(2024, 2, 29, 13, 45, 1, 0, time.Local), true},
		{"2024:02:29 13:45:01\x00", time.Date(2024, 2, 29, 13, 45, 1, 0, time.Local), true},
		{"0000:00:00 00:00:00", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := parseEXIFTime(tc.in)
		if ok != tc.ok {
			t.Errorf("parseEXIFTime(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && !got.Equal(tc.want) {
			t.Errorf("parseEXIFTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCombineMakeModel(t *testing.T) {
	cases := []struct {
		maker, model, want string
	}{
		{"SONY", "ILCE-7M4", "SONY ILCE-7M4"},
		{"NIKON CORPORATION", "NIKON Z 6", "NIKON Z 6"},
		{"", "X-T5", "X-T5"},
		{"Canon", "", ""},
	}
	for _, tc := range cases {
		if got := combineMakeModel(tc.maker, tc.model); got != tc.want {
			t.Errorf("combineMakeModel(%q, %q) = %q, want %q", tc.maker, tc.model, got, tc.want)
		}
	}
}
