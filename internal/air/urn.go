// Package air parses AIR URNs, the identifier scheme used by the model
// registry. An AIR URN names one version of one model asset:
//
//	urn:air:{ecosystem}:{type}:{source}:{modelId}@{versionId}[:{layer}[.{format}]]
//
// Example: urn:air:sd1:checkpoint:civitai:1234@5678
package air

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedIdentifier indicates the input string is not a valid AIR URN.
// Use errors.Is() to check for it.
var ErrMalformedIdentifier = errors.New("air: malformed identifier")

const (
	delimiter  = ":"
	versionSep = "@"

	// Segment positions within the colon-delimited URN.
	segEcosystem = 2
	segType      = 3
	segSource    = 4
	segID        = 5

	// minSegments is the smallest segment count that can carry all
	// mandatory fields. Anything past segID is the optional layer.
	minSegments = 6
)

// Identifier is the parsed form of an AIR URN. It is constructed once by
// Parse and never mutated.
type Identifier struct {
	// Raw is the original URN string, preserved verbatim so that
	// re-resolution from a sidecar record is deterministic.
	Raw string

	// Ecosystem is the model family tag, e.g. "sd1" or "flux-dev".
	Ecosystem string

	// Type is the resource type tag, e.g. "checkpoint" or "lora".
	Type string

	// Source is the registry/provider name, e.g. "civitai".
	Source string

	// ModelID and VersionID select the model and the version within it.
	ModelID   int
	VersionID int

	// Layer is the optional trailing segment, e.g. "fp16".
	Layer string

	// Format is derived by splitting Layer on its first dot,
	// e.g. "fp16.safetensors" yields Layer "fp16", Format "safetensors".
	Format string
}

// String returns the verbatim URN the identifier was parsed from.
func (id Identifier) String() string { return id.Raw }

// Parse splits an AIR URN into its fields. It returns
// ErrMalformedIdentifier when the segment count is too small, the id
// segment lacks the "@" version separator, either id fails to parse as a
// non-negative integer, or a mandatory field is empty. No case or
// whitespace normalization is performed.
func Parse(s string) (Identifier, error) {
	parts := strings.Split(s, delimiter)
	if len(parts) < minSegments {
		return Identifier{}, ErrMalformedIdentifier
	}
	if !strings.Contains(parts[segID], versionSep) {
		return Identifier{}, ErrMalformedIdentifier
	}

	modelPart, versionPart, _ := strings.Cut(parts[segID], versionSep)
	modelID, err := parseID(modelPart)
	if err != nil {
		return Identifier{}, ErrMalformedIdentifier
	}
	versionID, err := parseID(versionPart)
	if err != nil {
		return Identifier{}, ErrMalformedIdentifier
	}

	id := Identifier{
		Raw:       s,
		Ecosystem: parts[segEcosystem],
		Type:      parts[segType],
		Source:    parts[segSource],
		ModelID:   modelID,
		VersionID: versionID,
	}
	if id.Ecosystem == "" || id.Type == "" || id.Source == "" {
		return Identifier{}, ErrMalformedIdentifier
	}

	if len(parts) > minSegments {
		layer := strings.Join(parts[minSegments:], delimiter)
		if before, after, found := strings.Cut(layer, "."); found {
			id.Layer = before
			id.Format = after
		} else {
			id.Layer = layer
		}
	}

	return id, nil
}

// parseID parses a non-negative decimal integer.
func parseID(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrMalformedIdentifier
	}
	return n, nil
}
