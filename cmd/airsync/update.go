package main

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/airsync/airsync/internal/air"
	"github.com/airsync/airsync/internal/fetch"
	"github.com/airsync/airsync/internal/reconcile"
	cerrors "github.com/airsync/airsync/util/common/errors"
	"github.com/airsync/airsync/util/common/progress"
	"github.com/airsync/airsync/util/templates"
)

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <path>",
		Short: "Re-sync assets from their sidecar records",
		Long: templates.LongDesc(`
      Re-sync previously pulled assets using the identifiers recorded in
      their sidecar files.

      The path may be a single sidecar (or the asset it describes), or a
      directory, which is scanned recursively for *.metadata.json files.
      Each recorded identifier is resolved again and every file of its
      version is brought up to date next to the sidecar.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sidecars, err := collectSidecars(args[0])
			if err != nil {
				return err
			}
			if len(sidecars) == 0 {
				return fmt.Errorf("no sidecar files found under %s", args[0])
			}

			// One HTTP client and one progress bar serve the whole run.
			httpClient := &http.Client{}
			bar := progress.NewBar()
			defer bar.Done()

			var downloaded, skipped int
			for _, path := range sidecars {
				sc, err := fetch.ReadSidecar(path)
				if err != nil {
					return err
				}
				id, err := air.Parse(sc.URN)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				// Files belong next to their sidecar regardless of the
				// configured layout.
				rec := newReconciler(httpClient, bar, reconcile.Config{
					BaseDir: filepath.Dir(path),
					All:     true,
				})
				result, err := rec.Run(cmd.Context(), id)
				if err != nil {
					return err
				}
				downloaded += result.Downloaded
				skipped += result.Skipped
			}

			fmt.Printf("Done: %d sidecars, %d downloaded, %d up to date\n",
				len(sidecars), downloaded, skipped)
			return nil
		},
	}

	return cmd
}

var sidecarGlob = glob.MustCompile("**"+fetch.SidecarSuffix, '/')

// collectSidecars resolves a path argument to the sidecar files it covers.
func collectSidecars(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, cerrors.NewFileError(path, "stat", err)
	}

	if !info.IsDir() {
		if strings.HasSuffix(path, fetch.SidecarSuffix) {
			return []string{path}, nil
		}
		// Treat the argument as the asset itself.
		return []string{fetch.SidecarPath(path)}, nil
	}

	var found []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && sidecarGlob.Match(filepath.ToSlash(p)) {
			found = append(found, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
