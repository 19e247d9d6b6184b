package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/airsync/airsync/config"
	"github.com/airsync/airsync/internal/air"
	"github.com/airsync/airsync/internal/fetch"
	"github.com/airsync/airsync/internal/reconcile"
	"github.com/airsync/airsync/internal/registry"
	"github.com/airsync/airsync/util/common/progress"
	"github.com/airsync/airsync/util/templates"
)

func pullCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "pull <urn>",
		Short: "Sync the asset an AIR identifier points at",
		Long: templates.LongDesc(`
      Resolve an AIR identifier (urn:air:...) against the registry and make
      the referenced version's files current under the base directory.

      Present files with a matching digest are skipped; missing or stale
      files are downloaded. By default only the version's primary file is
      considered; pass --all to sync every file the version lists.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := air.Parse(args[0])
			if err != nil {
				return err
			}

			bar := progress.NewBar()
			defer bar.Done()
			rec := newReconciler(&http.Client{}, bar, reconcile.Config{
				BaseDir:    config.Global.BaseDir,
				Structured: config.Global.ComfyLayout,
				All:        all,
			})

			result, err := rec.Run(cmd.Context(), id)
			if err != nil {
				return err
			}
			bar.Done()

			fmt.Printf("Done: %d downloaded, %d up to date\n", result.Downloaded, result.Skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Sync every file of the version, not just the primary one")

	return cmd
}

// newReconciler wires the registry client and fetcher from the global
// configuration onto the single HTTP client constructed per invocation.
func newReconciler(httpClient *http.Client, bar *progress.Bar, cfg reconcile.Config) *reconcile.Reconciler {
	reg := registry.NewClient(config.Global.RegistryURL, httpClient, logger)
	fetcher := fetch.New(httpClient, config.Global.AuthToken, logger,
		fetch.WithProgress(bar.Update))

	return reconcile.New(reg, fetcher, cfg, logger)
}
