package simplot

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/banshee-data/simview/internal/fsutil"
	"github.com/banshee-data/simview/internal/timeutil"
)

// FileName returns a filesystem-safe file name for a series.
// e.g. "Sim input" with format "png" gives "sim_input.png".
func FileName(name, ext string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	base := strings.Trim(b.String(), "._")
	if base == "" {
		base = "series"
	}
	return base + "." + ext
}

// MakeOutputDir returns a timestamped directory for one run's plots:
// <baseDir>/<YYYYMMDD_HHMMSS>. If that directory already exists, as when two
// runs start within the same second, a numeric suffix is added (_2, _3, ...).
func MakeOutputDir(fsys fsutil.FileSystem, baseDir string, now time.Time) string {
	dir := filepath.Join(baseDir, timeutil.FormatStamp(now))
	if !fsys.Exists(dir) {
		return dir
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", dir, i)
		if !fsys.Exists(candidate) {
			return candidate
		}
	}
}
