package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ptsim/truthcore/internal/materializer"
	"github.com/ptsim/truthcore/internal/store"
)

// SnapshotOptions holds flags for the snapshot subcommands.
type SnapshotOptions struct {
	*RootOptions
	Database string
	Kind     string // "topology" | "kinematics"
	identityFlags
}

// NewSnapshotCommand creates the `snapshot` command group: save and get-latest.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Materialize and persist, or look up, a cutover snapshot",
	}
	cmd.AddCommand(newSnapshotSaveCommand(rootOpts))
	cmd.AddCommand(newSnapshotGetLatestCommand(rootOpts))
	return cmd
}

func newSnapshotSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}
	var tick int64

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Materialize a view at a tick and persist it as a snapshot",
		Long: `Materialize a topology or kinematics view at a tick and persist it as
a snapshot, so later materializations at or after this tick can replay
only the events appended since.

Example:
  tectctl snapshot save --db ./truthcore.db --kind topology --tick 1000 \
    --variant v1 --branch main --domain plate.boundary --model baseline`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotSave(opts, tick, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "snapshot kind: topology|kinematics (required)")
	_ = cmd.MarkFlagRequired("kind")
	cmd.Flags().Int64Var(&tick, "tick", 0, "tick to materialize and capture at (required)")
	_ = cmd.MarkFlagRequired("tick")
	addIdentityFlags(cmd, &opts.identityFlags)
	return cmd
}

func runSnapshotSave(opts *SnapshotOptions, tick int64, cmd *cobra.Command) error {
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

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	switch opts.Kind {
	case "topology":
		snap, err := materializer.MaterializeTopology(ctx, st, stream, tick)
		if err != nil {
			return WrapExitError(ExitCommandError, "materialization failed", err)
		}
		if err := materializer.SaveTopologySnapshot(ctx, st, snap); err != nil {
			return WrapExitError(ExitCommandError, "failed to save snapshot", err)
		}
		return formatter.Success(map[string]any{
			"stream": stream.Key(), "kind": "topology", "tick": tick,
			"last_sequence_at_capture": snap.LastSequenceAtCapture,
		})
	case "kinematics":
		view, err := materializer.MaterializeKinematics(ctx, st, stream, tick)
		if err != nil {
			return WrapExitError(ExitCommandError, "materialization failed", err)
		}
		if err := materializer.SaveKinematicsSnapshot(ctx, st, view); err != nil {
			return WrapExitError(ExitCommandError, "failed to save snapshot", err)
		}
		return formatter.Success(map[string]any{
			"stream": stream.Key(), "kind": "kinematics", "tick": tick,
			"last_sequence_at_capture": view.LastSequenceAtCapture,
		})
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown --kind %q: must be topology or kinematics", opts.Kind))
	}
}

func newSnapshotGetLatestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}
	var beforeTick int64

	cmd := &cobra.Command{
		Use:   "get-latest",
		Short: "Look up the latest snapshot at or before a tick",
		Long: `Look up the latest persisted snapshot at or before a tick, without
replaying any events past it.

Example:
  tectctl snapshot get-latest --db ./truthcore.db --kind topology --before-tick 1000 \
    --variant v1 --branch main --domain plate.boundary --model baseline`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotGetLatest(opts, beforeTick, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "snapshot kind: topology|kinematics (required)")
	_ = cmd.MarkFlagRequired("kind")
	cmd.Flags().Int64Var(&beforeTick, "before-tick", 0, "upper bound tick, inclusive (required)")
	_ = cmd.MarkFlagRequired("before-tick")
	addIdentityFlags(cmd, &opts.identityFlags)
	return cmd
}

func runSnapshotGetLatest(opts *SnapshotOptions, beforeTick int64, cmd *cobra.Command) error {
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

	var kind store.SnapshotKind
	switch opts.Kind {
	case "topology":
		kind = store.SnapshotKindTopology
	case "kinematics":
		kind = store.SnapshotKindKinematics
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown --kind %q: must be topology or kinematics", opts.Kind))
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	snap, ok, err := st.GetLatestBefore(ctx, stream, kind, beforeTick)
	if err != nil {
		return WrapExitError(ExitCommandError, "snapshot lookup failed", err)
	}
	if !ok {
		return formatter.Success(map[string]any{"stream": stream.Key(), "found": false})
	}
	return formatter.Success(map[string]any{
		"stream": stream.Key(), "found": true,
		"tick":                     snap.Tick,
		"last_sequence_at_capture": snap.LastSequenceAtCapture,
		"body_size":                len(snap.Body),
	})
}
