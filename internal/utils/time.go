package utils

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/meetmate/internal/constants"
)

// labelLayouts are the accepted spellings of a wall-clock time typed by a user
var labelLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
	"15:04",
}

// SlotLabel quantizes t to the label of the hour it falls in.
// Minutes and seconds are discarded, so 3:59 PM maps to "3:00 PM".
func SlotLabel(t time.Time) string {
	hour := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	return hour.Format(constants.SlotLabelFormat)
}

// NormalizeLabel rewrites user input such as "9am", "09:00 am" or "15:00" into the
// canonical slot label form ("9:00 AM", "3:00 PM"). Input that is not a recognizable
// time is returned trimmed and unchanged.
func NormalizeLabel(input string) string {
	trimmed := strings.TrimSpace(input)
	upper := strings.ToUpper(trimmed)
	for _, layout := range labelLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return t.Format(constants.SlotLabelFormat)
		}
	}
	return trimmed
}

// ExpandPath resolves a leading "~" to the current user's home directory
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
