package cache

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const snapshotFile = "snapshot.yml"

// Manager handles the local snapshot cache.
type Manager struct {
	baseDir string
}

// New creates a cache Manager rooted at baseDir.
func New(baseDir string) *Manager {
	return &Manager{baseDir: baseDir}
}

// Dir returns the cache directory for one store.
// Layout: <baseDir>/<store-slug>/
func (m *Manager) Dir(storeURL string) string {
	return filepath.Join(m.baseDir, slug(storeURL))
}

// Path returns the snapshot path for a store.
func (m *Manager) Path(storeURL string) string {
	return filepath.Join(m.Dir(storeURL), snapshotFile)
}

// Exists reports whether a snapshot is cached for the store.
func (m *Manager) Exists(storeURL string) bool {
	_, err := os.Stat(m.Path(storeURL))
	return err == nil
}

// EnsureDir creates the store's cache directory.
func (m *Manager) EnsureDir(storeURL string) error {
	return os.MkdirAll(m.Dir(storeURL), 0750)
}

// Remove deletes the cached snapshot and its checksum if they exist.
func (m *Manager) Remove(storeURL string) error {
	for _, p := range []string{m.Path(storeURL), checksumPath(m.Path(storeURL))} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// slug turns a store URL into a single safe path element,
// e.g. http://127.0.0.1:8080/api -> 127.0.0.1-8080-api.
func slug(storeURL string) string {
	s := storeURL
	if u, err := url.Parse(storeURL); err == nil && u.Host != "" {
		s = u.Host + u.Path
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "default"
	}
	return out
}
