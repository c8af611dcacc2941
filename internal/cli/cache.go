package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ptsim/truthcore/internal/store"
)

// CacheOptions holds flags for the cache subcommands.
type CacheOptions struct {
	*RootOptions
	Database string
}

// NewCacheCommand creates the `cache` command group: get and invalidate.
// Building a derived artifact requires a generator registered elsewhere in
// the process (see store.BuildFunc); the CLI only inspects and evicts.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and invalidate the derived-artifact cache",
	}
	cmd.AddCommand(newCacheGetCommand(rootOpts))
	cmd.AddCommand(newCacheInvalidateCommand(rootOpts))
	return cmd
}

func newCacheGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}
	var fingerprint string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Look up a derived-artifact manifest by fingerprint",
		Long: `Look up a derived-artifact manifest by its content-addressed fingerprint.

Example:
  tectctl cache get --db ./truthcore.db --fingerprint 9f2c...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheGet(opts, fingerprint, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "artifact fingerprint (required)")
	_ = cmd.MarkFlagRequired("fingerprint")
	return cmd
}

func runCacheGet(opts *CacheOptions, fingerprint string, cmd *cobra.Command) error {
	ctx := context.Background()
	st, err := store.Open(opts.Database, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	manifest, ok, err := st.GetManifest(ctx, fingerprint)
	if err != nil {
		return WrapExitError(ExitCommandError, "manifest lookup failed", err)
	}
	if !ok {
		return formatter.Success(map[string]any{"fingerprint": fingerprint, "found": false})
	}
	return formatter.Success(map[string]any{
		"found":             true,
		"fingerprint":       manifest.Fingerprint,
		"generator_id":      manifest.GeneratorID,
		"generator_version": manifest.GeneratorVersion,
		"inputs_digest":     fmt.Sprintf("%x", manifest.InputsDigest),
		"payload_hash":      fmt.Sprintf("%x", manifest.PayloadHash),
		"size":              manifest.Size,
		"created_at_ns":     manifest.CreatedAtUnixNs,
	})
}

func newCacheInvalidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}
	var fingerprint string

	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Evict a derived-artifact manifest and its payload from the cache",
		Long: `Evict a derived-artifact manifest and its payload, forcing the next
get-or-build for this fingerprint to rebuild.

Example:
  tectctl cache invalidate --db ./truthcore.db --fingerprint 9f2c...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheInvalidate(opts, fingerprint, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "artifact fingerprint (required)")
	_ = cmd.MarkFlagRequired("fingerprint")
	return cmd
}

func runCacheInvalidate(opts *CacheOptions, fingerprint string, cmd *cobra.Command) error {
	ctx := context.Background()
	st, err := store.Open(opts.Database, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if err := st.InvalidateArtifact(ctx, fingerprint); err != nil {
		return WrapExitError(ExitCommandError, "invalidate failed", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(map[string]any{"fingerprint": fingerprint, "invalidated": true})
}
