package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

const maxFileNameLen = 128

var errInvalidFileName = errors.New("invalid file name")

// SanitizeFileName reduces an uploaded attachment name to a safe base name:
// directories are dropped, control characters removed and long names cut
// while keeping the extension.
func SanitizeFileName(name string) (string, error) {
	s := strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	if strings.Contains(s, "..") {
		return "", errInvalidFileName
	}
	s = path.Base(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == "/" {
		return "", errInvalidFileName
	}
	if len(s) > maxFileNameLen {
		ext := path.Ext(s)
		if len(ext) > 16 {
			ext = ""
		}
		s = strings.ToValidUTF8(s[:maxFileNameLen-len(ext)], "") + ext
	}
	return s, nil
}
