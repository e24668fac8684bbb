// Package storage writes downloaded images and run manifests to disk.
//
// Every write goes through a temporary file in the destination directory
// which is renamed over the final name once fully written. A failed write
// leaves no file behind and never touches an existing file of the same name.
//
// The Manager never creates its directory. Callers that want the directory
// to exist create it themselves before the first Save.
//
// Usage:
//
//	manager := storage.NewManager("downloads")
//	n, path, err := manager.Save("0.png", bytes.NewReader(data))
//	if err != nil {
//	    log.Printf("Failed to save image: %v", err)
//	}
package storage
