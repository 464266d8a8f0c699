package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidateReferenceName validates the target of a call> or require>
// directive. Relative segments are allowed since workflows commonly call
// siblings, but the name must be non-empty and printable.
func ValidateReferenceName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidReference, "reference target cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidReference, "reference target too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidReference, "reference target contains invalid control characters")
		}
	}

	if strings.HasPrefix(name, "/") {
		return New(ErrCodeInvalidReference, "reference target must be relative: %q", name)
	}

	return nil
}

// ValidateFormats checks every requested output format against supported.
func ValidateFormats(formats, supported []string) error {
	for _, f := range formats {
		if !slices.Contains(supported, f) {
			return New(ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", f, strings.Join(supported, ", "))
		}
	}
	return nil
}

// ValidateTieBreak checks the resolver tie-break policy name.
func ValidateTieBreak(policy string) error {
	switch policy {
	case "first", "last":
		return nil
	}
	return New(ErrCodeInvalidConfig, "invalid tie-break policy: %q (must be 'first' or 'last')", policy)
}

// ValidateExtension checks a definition file extension such as ".dig".
func ValidateExtension(ext string) error {
	if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
		return New(ErrCodeInvalidConfig, "extension must start with a dot: %q", ext)
	}
	if strings.ContainsAny(ext, "/\\") {
		return New(ErrCodeInvalidConfig, "extension cannot contain path separators: %q", ext)
	}
	return nil
}
