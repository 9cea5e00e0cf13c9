// utils/file_utils.go
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	uploadBaseDir = "uploads"
	thumbnailSize = 320
)

// InitializeStorage creates the directories for uploaded files.
func InitializeStorage() error {
	dirs := []string{
		uploadBaseDir,
		filepath.Join(uploadBaseDir, "motorcycles"),
		filepath.Join(uploadBaseDir, "thumbnails"),
		filepath.Join(uploadBaseDir, "profiles"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return nil
}

// SaveMotorcycleImage stores an uploaded model photo under a fresh uuid
// filename and writes a resized thumbnail next to it. Returns the relative
// paths of both.
func SaveMotorcycleImage(data []byte, originalName string) (imagePath, thumbPath string, err error) {
	if err := ValidateImageFile(originalName, int64(len(data))); err != nil {
		return "", "", err
	}
	if err := InitializeStorage(); err != nil {
		return "", "", err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	fullPath := filepath.Join(uploadBaseDir, "motorcycles", name)

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to save image: %v", err)
	}

	img, err := imaging.Open(fullPath)
	if err != nil {
		os.Remove(fullPath)
		return "", "", fmt.Errorf("uploaded file is not a readable image: %v", err)
	}

	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	thumbFull := filepath.Join(uploadBaseDir, "thumbnails", name)
	if err := imaging.Save(thumb, thumbFull); err != nil {
		os.Remove(fullPath)
		return "", "", fmt.Errorf("failed to save thumbnail: %v", err)
	}

	return "/" + fullPath, "/" + thumbFull, nil
}

// RemoveStoredFile deletes a previously saved upload, ignoring missing files.
func RemoveStoredFile(relPath string) {
	if relPath == "" {
		return
	}
	os.Remove(strings.TrimPrefix(relPath, "/"))
}
