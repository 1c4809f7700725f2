package storage

import (
	"os"
	"path/filepath"
)

// Local writes files under a public directory served by the HTTP layer.
type Local struct {
	Root string // e.g. "./public"
}

func NewLocal(root string) *Local { return &Local{Root: root} }

func (l *Local) Save(key string, data []byte, _ string) (string, error) {
	dst := filepath.Join(l.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}
	return "/" + key, nil
}
