package main

import (
	"fmt"
	"os"
	"time"

	"so101builder/internal/app"
	"so101builder/internal/catalog"
	"so101builder/internal/config"
	"so101builder/internal/docs"
	"so101builder/internal/logger"

	"github.com/spf13/cobra"
)

const refreshConcurrency = 4

// env is built once per invocation, before any subcommand runs.
type env struct {
	app *app.App
}

func newRoot() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "so101ctl",
		Short:         "Admin tasks for the SO-101 setup builder",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogMode)
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			e.app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.app != nil {
				e.app.Log.Sync()
				e.app.Close()
			}
		},
	}
	root.AddCommand(
		seedCmd(e),
		syncDocsCmd(e),
		refreshPricesCmd(e),
		purgeSetupsCmd(e),
	)
	return root
}

func seedCmd(e *env) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert categories, vendors, components and sample prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := loadSeed(file)
			if err != nil {
				return err
			}
			report, err := catalog.ApplySeed(cmd.Context(), e.app.Repos.Catalog, seed, e.app.Log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "categories=%d vendors=%d components=%d prices=%d skipped=%d\n",
				report.Categories, report.Vendors, report.Components, report.Prices, report.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Seed YAML file (defaults to the built-in catalog)")
	return cmd
}

func loadSeed(file string) (*catalog.Seed, error) {
	if file == "" {
		return catalog.DefaultSeed()
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return catalog.ParseSeed(raw)
}

func syncDocsCmd(e *env) *cobra.Command {
	var root, manifestFile string
	cmd := &cobra.Command{
		Use:   "sync-docs",
		Short: "Sync LeRobot markdown docs into the documentation table",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := loadManifest(manifestFile)
			if err != nil {
				return err
			}
			report, err := docs.Sync(cmd.Context(), e.app.Repos.Docs, root, manifest, e.app.Log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created=%d updated=%d skipped=%d\n",
				report.Created, report.Updated, report.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "Path to a LeRobot checkout")
	cmd.Flags().StringVar(&manifestFile, "manifest", "", "Docs manifest YAML (defaults to the built-in list)")
	_ = cmd.MarkFlagRequired("root")
	return cmd
}

func loadManifest(file string) (*docs.Manifest, error) {
	if file == "" {
		return docs.DefaultManifest()
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return docs.ParseManifest(raw)
}

func refreshPricesCmd(e *env) *cobra.Command {
	var (
		componentIDs []int
		watch        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "refresh-prices",
		Short: "Refresh stored offers from web price search",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			run := func() error {
				ids := componentIDs
				if len(ids) == 0 {
					all, err := e.app.Repos.Catalog.ListComponentIDs(ctx)
					if err != nil {
						return err
					}
					ids = all
				}
				summary, err := e.app.Services.Pricing.RefreshAll(ctx, ids, refreshConcurrency)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "components=%d updated=%d failed=%d\n",
					summary.Components, summary.PricesUpdated, summary.Failed)
				return nil
			}

			if err := run(); err != nil || watch <= 0 {
				return err
			}

			ticker := time.NewTicker(watch)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := run(); err != nil {
						if ctx.Err() != nil {
							return nil
						}
						e.app.Log.Warn("price refresh run failed", "error", err)
					}
				}
			}
		},
	}
	cmd.Flags().IntSliceVar(&componentIDs, "component-id", nil, "Only refresh these components")
	cmd.Flags().DurationVar(&watch, "watch", 0, "Repeat at this interval until interrupted")
	return cmd
}

func purgeSetupsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-setups",
		Short: "Delete wizard setups past their expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := e.app.Services.Setups.PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged=%d\n", n)
			return nil
		},
	}
}
