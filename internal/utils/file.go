package utils

import (
	"path/filepath"
	"strings"

	"github.com/menta2k/spatial-annotator/internal/config"
)

// HasImageExtension reports whether filename ends in one of the given
// canvas formats. "jpg" and "jpeg" are interchangeable.
func HasImageExtension(filename string, formats []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "jpg" {
		ext = "jpeg"
	}
	for _, f := range formats {
		f = strings.ToLower(f)
		if f == "jpg" {
			f = "jpeg"
		}
		if ext != "" && f == ext {
			return true
		}
	}
	return false
}

// OutputPath names the annotated copy of input:
// <output_dir>/<prefix><stem><suffix>.<format>
func OutputPath(input string, out config.OutputConfig, format string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(out.OutputDir, out.Prefix+stem+out.Suffix+"."+format)
}
