package main

import (
	"os"
	"path/filepath"
)

// findStatic locates the static directory relative to the working directory,
// the same way templates are located.
func findStatic() string {
	for _, c := range []string{"static", "../static", "../../static"} {
		if fi, err := os.Stat(c); err == nil && fi.IsDir() {
			return filepath.Clean(c)
		}
	}
	return "static"
}
