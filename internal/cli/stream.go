package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ptsim/truthcore/internal/ir"
	"github.com/ptsim/truthcore/internal/store"
)

// StreamOptions holds flags shared by the stream subcommands.
type StreamOptions struct {
	*RootOptions
	Database string
	identityFlags
}

// NewStreamCommand creates the `stream` command group: head and append.
func NewStreamCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Inspect and append to event streams",
	}
	cmd.AddCommand(newStreamHeadCommand(rootOpts))
	cmd.AddCommand(newStreamAppendCommand(rootOpts))
	return cmd
}

func newStreamHeadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StreamOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "head",
		Short: "Print the current head (sequence, hash) of a stream",
		Long: `Print the current head of a stream.

Example:
  tectctl stream head --db ./truthcore.db --variant v1 --branch main --domain plate.boundary --model baseline`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStreamHead(opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	addIdentityFlags(cmd, &opts.identityFlags)
	return cmd
}

func runStreamHead(opts *StreamOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	st, err := store.Open(opts.Database, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	stream := opts.stream()
	if err := stream.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid stream identity", err)
	}

	head, err := st.GetHead(ctx, stream)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read head", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(map[string]any{
		"stream":   stream.Key(),
		"sequence": head.Sequence,
		"hash":     fmt.Sprintf("%x", head.Hash),
	})
}

// StreamAppendOptions holds flags for `stream append`.
type StreamAppendOptions struct {
	*RootOptions
	Database     string
	DraftsPath   string
	TickPolicy   string
	ExpectedHead int64
	AnyHead      bool
	identityFlags
}

func newStreamAppendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StreamAppendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "append",
		Short: "Append a batch of event drafts from a JSON file to a stream",
		Long: `Append event drafts read from a JSON file to a stream.

The file holds an array of objects: {"tick": <int>, "kind": "<PayloadKind>", "fields": {...}}.

Exit codes:
  0 - append succeeded
  1 - tick policy rejected the batch, or optimistic-concurrency precondition failed
  2 - command error (bad file, bad database, invalid stream identity)

Example:
  tectctl stream append --db ./truthcore.db --variant v1 --branch main \
    --domain plate.boundary --model baseline --file drafts.json --any-head`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStreamAppend(opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.DraftsPath, "file", "", "path to a JSON file of event drafts (required)")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().StringVar(&opts.TickPolicy, "tick-policy", "Allow", "tick ordering policy: Allow|Warn|Reject")
	cmd.Flags().BoolVar(&opts.AnyHead, "any-head", true, "append without an optimistic-concurrency precondition")
	cmd.Flags().Int64Var(&opts.ExpectedHead, "expected-sequence", 0, "expected head sequence (ignored if --any-head)")
	addIdentityFlags(cmd, &opts.identityFlags)
	return cmd
}

func runStreamAppend(opts *StreamAppendOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	data, err := os.ReadFile(opts.DraftsPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read drafts file", err)
	}
	drafts, err := decodeDrafts(data)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to decode drafts", err)
	}

	tickPolicy, err := ir.ParseTickPolicy(opts.TickPolicy)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --tick-policy", err)
	}

	st, err := store.Open(opts.Database, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	stream := opts.stream()
	if err := stream.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid stream identity", err)
	}

	appendOpts := ir.AppendOptions{
		TickPolicy:   tickPolicy,
		ExpectedHead: ir.ExpectedHead{AnyHead: opts.AnyHead, Sequence: opts.ExpectedHead},
	}

	head, err := st.Append(ctx, stream, drafts, appendOpts)
	if err != nil {
		return WrapExitError(ExitFailure, "append rejected", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(map[string]any{
		"stream":    stream.Key(),
		"appended":  len(drafts),
		"sequence":  head.Sequence,
		"head_hash": fmt.Sprintf("%x", head.Hash),
	})
}
