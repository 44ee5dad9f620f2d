package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateComponentName validates a component name before it is used as a
// directory name under the official download root.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateComponentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidComponent, "component name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidComponent, "component name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidComponent, "component name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidComponent, "component name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateFileName validates a download file name taken from the last path
// segment of a URL. It must be a plain basename that is safe to join under
// the component's repos directory.
func ValidateFileName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFileName, "file name cannot be empty")
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidFileName, "file name cannot be %q", name)
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidFileName, "file name cannot contain path separators")
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidFileName, "file name contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL is absolute with an http or https scheme and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "parse %q", rawURL)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}

	if u.Host == "" {
		return New(ErrCodeInvalidURL, "URL must have a host")
	}

	return nil
}
