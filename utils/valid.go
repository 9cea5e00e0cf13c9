// utils/valid.go
package utils

import (
	"errors"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// allowed extensions for motorcycle photos
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// SanitizeInput sanitizes user input to prevent XSS and injection attacks
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = html.EscapeString(input)

	// Remove control characters
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	return input
}

// SanitizeEmail sanitizes and validates an email address
func SanitizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return "", errors.New("invalid email format")
	}
	return email, nil
}

// ValidateImageFile validates extension and size of an uploaded photo.
func ValidateImageFile(filename string, size int64) error {
	if size > 10*1024*1024 {
		return errors.New("file too large, maximum size is 10MB")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return errors.New("unsupported image format, allowed: jpg, jpeg, png, webp")
	}
	return nil
}

// ValidatePDFFile validates an uploaded inventory document.
func ValidatePDFFile(filename string, size int64) error {
	if size > 20*1024*1024 {
		return errors.New("file too large, maximum size is 20MB")
	}
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return errors.New("inventory uploads must be PDF documents")
	}
	return nil
}
