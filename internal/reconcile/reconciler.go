// Package reconcile decides, per registry-declared file, whether the local
// copy is correct, and drives a re-download when it is not.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/airsync/airsync/internal/air"
	"github.com/airsync/airsync/internal/fetch"
	"github.com/airsync/airsync/internal/integrity"
	"github.com/airsync/airsync/internal/layout"
	"github.com/airsync/airsync/internal/registry"
	cerrors "github.com/airsync/airsync/util/common/errors"
)

// ErrNoFiles indicates the selected version declares no downloadable files.
var ErrNoFiles = errors.New("reconcile: version has no downloadable files")

// Config carries the placement settings for a reconciliation run.
type Config struct {
	// BaseDir is the root under which assets are placed.
	BaseDir string

	// Structured enables the ComfyUI-style directory layout.
	Structured bool

	// All reconciles every file of the version. When false only the first
	// (canonical) file entry is acted upon.
	All bool
}

// Result summarizes one run.
type Result struct {
	Downloaded int
	Skipped    int
}

// Reconciler orchestrates registry lookup, integrity checking, and fetching.
type Reconciler struct {
	registry *registry.Client
	fetcher  *fetch.Fetcher
	cfg      Config
	log      zerolog.Logger
}

// New creates a Reconciler sharing the orchestrator's registry client and
// fetcher.
func New(reg *registry.Client, fetcher *fetch.Fetcher, cfg Config, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		registry: reg,
		fetcher:  fetcher,
		cfg:      cfg,
		log:      log,
	}
}

// Run resolves the identifier against the registry and reconciles the
// version's files sequentially, in registry-declared order. The first fetch
// failure aborts the remaining files: partial success is never reported as
// overall success.
func (r *Reconciler) Run(ctx context.Context, id air.Identifier) (Result, error) {
	runLog := r.log.With().
		Str("run_id", uuid.New().String()).
		Str("urn", id.Raw).
		Logger()

	record, err := r.registry.Version(ctx, id.ModelID, id.VersionID)
	if err != nil {
		return Result{}, err
	}
	if len(record.Files) == 0 {
		return Result{}, fmt.Errorf("model %d version %d: %w", id.ModelID, id.VersionID, ErrNoFiles)
	}

	files := record.Files
	if !r.cfg.All {
		files = files[:1]
	}

	dir := filepath.Join(r.cfg.BaseDir, layout.Resolve(id.Type, id.Ecosystem, r.cfg.Structured))

	var res Result
	for _, entry := range files {
		target := filepath.Join(dir, entry.Name)
		fileLog := runLog.With().Str("file", entry.Name).Str("target", target).Logger()

		switch state, err := r.inspect(target, entry); {
		case err != nil:
			return res, err

		case state == fileCurrent:
			fileLog.Info().Msg("file is up to date")
			pterm.Success.Println(entry.Name + " is up to date")
			res.Skipped++

		case state == fileMissing:
			fileLog.Info().Msg("downloading missing file")
			pterm.Info.Println("downloading missing file " + entry.Name)
			if err := r.fetcher.Download(ctx, entry.DownloadURL, target, id.Raw); err != nil {
				return res, err
			}
			res.Downloaded++

		case state == fileStale:
			fileLog.Warn().Msg("hash mismatch, updating")
			pterm.Warning.Println("hash mismatch, updating " + entry.Name)
			if err := r.fetcher.Download(ctx, entry.DownloadURL, target, id.Raw); err != nil {
				return res, err
			}
			res.Downloaded++
		}
	}

	return res, nil
}

type fileState int

const (
	fileMissing fileState = iota
	fileCurrent
	fileStale
)

// inspect classifies the local copy at target against the registry-declared
// hash. Digests compare case-insensitively.
func (r *Reconciler) inspect(target string, entry registry.FileEntry) (fileState, error) {
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return fileMissing, nil
		}
		return fileMissing, cerrors.NewFileError(target, "stat", err)
	}

	digest, err := integrity.FileSHA256(target)
	if err != nil {
		return fileMissing, err
	}
	if integrity.Equal(digest, entry.ContentHash) {
		return fileCurrent, nil
	}
	return fileStale, nil
}
