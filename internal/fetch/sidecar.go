package fetch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/airsync/airsync/util/common/errors"
)

// SidecarSuffix is appended to an asset's filename to form the path of its
// provenance record.
const SidecarSuffix = ".metadata.json"

// Sidecar is the provenance record persisted next to each downloaded asset.
// It is written once per successful download and overwritten on every
// re-download; the update command reads it back to re-resolve the asset.
type Sidecar struct {
	// URN is the original identifier string, verbatim.
	URN string `json:"urn"`

	// Datetime is the fetch completion time in ISO-8601 (RFC 3339).
	Datetime string `json:"datetime"`
}

// SidecarPath returns the sidecar path for an asset path.
func SidecarPath(assetPath string) string {
	return assetPath + SidecarSuffix
}

// WriteSidecar persists the record beside the asset. Callers must only
// invoke this after the asset's byte stream is fully flushed; the sidecar
// is the durable proof-of-fetch consumed by later reconciliation runs.
func WriteSidecar(assetPath, urn string, fetchedAt time.Time) error {
	record := Sidecar{
		URN:      urn,
		Datetime: fetchedAt.UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling sidecar")
	}
	path := SidecarPath(assetPath)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewFileError(path, "write", err)
	}
	return nil
}

// ReadSidecar loads a sidecar record from path.
func ReadSidecar(path string) (Sidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sidecar{}, errors.NewFileError(path, "read", err)
	}
	var record Sidecar
	if err := json.Unmarshal(data, &record); err != nil {
		return Sidecar{}, errors.NewFileError(path, "parse", err)
	}
	return record, nil
}
