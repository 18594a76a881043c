package storage

import (
	"log"
	"os"
)

// DeleteFile removes an uploaded image from disk. Fire-and-forget: a file
// that is already gone or unremovable is logged, never an error to the
// caller.
func DeleteFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to delete file %s: %v", path, err)
	}
}

// DeleteFiles removes a batch of image paths.
func DeleteFiles(paths []string) {
	for _, p := range paths {
		DeleteFile(p)
	}
}
