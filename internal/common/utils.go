package common

import (
	"fmt"
	"time"
)

// TimestampedFilename builds "<prefix>_YYYYMMDD_HHMMSS.<ext>" names for
// download attachments.
func TimestampedFilename(prefix, ext string, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, t.Format("20060102_150405"), ext)
}
