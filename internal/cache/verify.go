package cache

import (
	"fmt"
	"os"
	"strings"

	"github.com/blackwell-systems/shelfboard/internal/util"
)

func checksumPath(path string) string { return path + ".sha256" }

// readChecksum returns the recorded sha256 for path, or "" when none was
// written.
func readChecksum(path string) (string, error) {
	b, err := os.ReadFile(checksumPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading checksum: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// VerifyFile checks the sha256 of the file at path against expected.
// Returns nil if they match or expected is empty (skip check).
func VerifyFile(path, expectedSHA256 string) error {
	if expectedSHA256 == "" {
		return nil
	}
	got, err := util.SHA256File(path)
	if err != nil {
		return fmt.Errorf("computing checksum: %w", err)
	}
	if got != expectedSHA256 {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expectedSHA256, got)
	}
	return nil
}
