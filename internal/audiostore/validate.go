package audiostore

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	apperr "github.com/nguyentantai21042004/lecture-flow/internal/errors"
)

const (
	maxClassNameLen   = 40
	invalidClassChars = "<>:/\\|?*\"'\n\t"
)

// ValidateClassName checks that name can be used as a class folder.
func ValidateClassName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return apperr.NewValidation("class name is required")
	}
	if trimmed != name {
		return apperr.NewValidation("class name must not start or end with spaces")
	}
	if strings.ContainsAny(name, invalidClassChars) {
		return apperr.NewValidation("class name has invalid characters")
	}
	if name == "." || name == ".." {
		return apperr.NewValidation("class name has invalid characters")
	}
	if utf8.RuneCountInString(name) > maxClassNameLen {
		return apperr.NewValidation(fmt.Sprintf("class name too long (max %d)", maxClassNameLen))
	}
	return nil
}

// ValidateAudioName checks that filename is a bare, accepted audio file name.
func ValidateAudioName(filename string) error {
	if filename == "" || filepath.Base(filename) != filename || strings.ContainsAny(filename, "/\\") {
		return apperr.NewValidation(fmt.Sprintf("invalid audio filename: %q", filename))
	}
	if !IsAccepted(filename) {
		ext := filepath.Ext(filename)
		if ext == "" {
			ext = "(none)"
		}
		return apperr.NewValidation(fmt.Sprintf("unsupported audio format: %s", ext))
	}
	return nil
}
