package cache

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/util"
)

// ErrNoSnapshot is returned by Load when nothing is cached for the store.
var ErrNoSnapshot = errors.New("no cached snapshot")

// Save writes snap as the store's snapshot. The file and its checksum are
// replaced atomically, so a reader never sees a partial snapshot.
func (m *Manager) Save(storeURL string, snap catalog.Snapshot) (string, error) {
	if err := m.EnsureDir(storeURL); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}
	data, err := catalog.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	destPath := m.Path(storeURL)
	if err := util.WriteFileAtomic(destPath, data); err != nil {
		return "", fmt.Errorf("writing to cache: %w", err)
	}
	sum := util.SHA256Bytes(data)
	if err := util.WriteFileAtomic(checksumPath(destPath), []byte(sum+"\n")); err != nil {
		return "", err
	}
	return destPath, nil
}

// Load reads the store's snapshot, verifying its checksum when present.
func (m *Manager) Load(storeURL string) (catalog.Snapshot, error) {
	path := m.Path(storeURL)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return catalog.Snapshot{}, ErrNoSnapshot
		}
		return catalog.Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	want, err := readChecksum(path)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	if err := VerifyFile(path, want); err != nil {
		return catalog.Snapshot{}, err
	}
	return catalog.Parse(data)
}
