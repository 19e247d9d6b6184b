// Package integrity computes content digests for local asset files.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/airsync/airsync/util/common/errors"
)

// chunkSize is the read buffer used when streaming a file through the
// digest. Assets run into the tens of gigabytes, so the file is never
// loaded into memory in one piece.
const chunkSize = 1 << 20

// FileSHA256 streams the file at path through SHA-256 in fixed-size chunks
// and returns the lowercase hex digest.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.NewFileError(path, "open", err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", errors.NewFileError(path, "read", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Equal compares two hex digests case-insensitively. Registries are not
// consistent about digest casing, so "AB12" and "ab12" are the same hash.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}
