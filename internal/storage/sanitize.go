package storage

import (
	"regexp"
	"strings"
)

// defaultName is used when sanitization leaves nothing of the original name.
const defaultName = "document"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._ -]+`)

// SanitizeFilename normalizes a supplied filename to a safe on-disk name:
// directory components are stripped and every run of characters outside
// [A-Za-z0-9._ -] is replaced with an underscore.
func SanitizeFilename(filename string) string {
	name := filename
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(unsafeChars.ReplaceAllString(name, "_"))
	if name == "" {
		return defaultName
	}
	return name
}
