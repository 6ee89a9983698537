package config

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvHome overrides the directory relative runtime paths are anchored to.
const EnvHome = "CMS_HOME"

// HomeDir is where relative data and static paths resolve: $CMS_HOME when
// set, else the working directory.
func HomeDir() string {
	if home := strings.TrimSpace(os.Getenv(EnvHome)); home != "" {
		return home
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// ResolveRuntimePath anchors p (or fallback when p is empty) under HomeDir.
// Absolute paths and sqlite memory or URI names pass through.
func ResolveRuntimePath(p, fallback string) string {
	target := strings.TrimSpace(p)
	if target == "" {
		target = fallback
	}
	switch {
	case target == ":memory:", strings.HasPrefix(target, "file:"):
		return target
	case filepath.IsAbs(target):
		return filepath.Clean(target)
	}
	return filepath.Join(HomeDir(), target)
}
