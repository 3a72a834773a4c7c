package scan

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ScanDate returns the EXIF DateTime of an image as RFC 3339. Scanners that
// write no EXIF block yield false.
func ScanDate(p string) (string, bool) {
	f, err := os.Open(p)
	if err != nil {
		return "", false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return "", false
	}
	when, err := x.DateTime()
	if err != nil || when.IsZero() {
		return "", false
	}
	return when.Format(time.RFC3339), true
}
