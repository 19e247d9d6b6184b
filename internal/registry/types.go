package registry

// VersionRecord describes one model version as declared by the registry.
// The file order is significant: the first entry is the canonical asset.
type VersionRecord struct {
	ID    int
	Files []FileEntry
}

// FileEntry is one downloadable file of a version, with the registry's
// declared SHA-256 content hash.
type FileEntry struct {
	Name        string
	DownloadURL string
	ContentHash string
}

// Wire shapes of GET {base}/models/{id}. The hash field name is
// case-sensitive on the wire ("SHA256") and is mapped to the generic
// ContentHash on the way in.

type wireModel struct {
	ID            int           `json:"id"`
	ModelVersions []wireVersion `json:"modelVersions"`
}

type wireVersion struct {
	ID    int        `json:"id"`
	Files []wireFile `json:"files"`
}

type wireFile struct {
	Name        string     `json:"name"`
	DownloadURL string     `json:"downloadUrl"`
	Hashes      wireHashes `json:"hashes"`
}

type wireHashes struct {
	SHA256 string `json:"SHA256"`
}

func (v wireVersion) record() VersionRecord {
	rec := VersionRecord{ID: v.ID, Files: make([]FileEntry, 0, len(v.Files))}
	for _, f := range v.Files {
		rec.Files = append(rec.Files, FileEntry{
			Name:        f.Name,
			DownloadURL: f.DownloadURL,
			ContentHash: f.Hashes.SHA256,
		})
	}
	return rec
}
