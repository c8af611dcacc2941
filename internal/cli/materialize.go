package cli

import (
	"context"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ptsim/truthcore/internal/ir"
	"github.com/ptsim/truthcore/internal/materializer"
	"github.com/ptsim/truthcore/internal/store"
)

// MaterializeOptions holds flags for the materialize subcommands.
type MaterializeOptions struct {
	*RootOptions
	Database   string
	TargetTick int64
	identityFlags
}

// NewMaterializeCommand creates the `materialize` command group: topology
// and kinematics.
func NewMaterializeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Fold an event stream into a typed state view at a target tick",
	}
	cmd.AddCommand(newMaterializeTopologyCommand(rootOpts))
	cmd.AddCommand(newMaterializeKinematicsCommand(rootOpts))
	return cmd
}

func addMaterializeFlags(cmd *cobra.Command, opts *MaterializeOptions) {
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().Int64Var(&opts.TargetTick, "tick", 0, "target tick to materialize at (required)")
	_ = cmd.MarkFlagRequired("tick")
	addIdentityFlags(cmd, &opts.identityFlags)
}

func newMaterializeTopologyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MaterializeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "topology",
		Short: "Materialize a TopologySnapshot at a target tick",
		Long: `Materialize a TopologySnapshot: plates, boundaries, and junctions as of
a target tick, breaking (tick, sequence) ties by sequence ascending.

Example:
  tectctl materialize topology --db ./truthcore.db --variant v1 --branch main \
    --domain plate.boundary --model baseline --tick 1000`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterializeTopology(opts, cmd)
		},
	}
	addMaterializeFlags(cmd, opts)
	return cmd
}

func runMaterializeTopology(opts *MaterializeOptions, cmd *cobra.Command) error {
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

	snap, err := materializer.MaterializeTopology(ctx, st, stream, opts.TargetTick)
	if err != nil {
		return WrapExitError(ExitCommandError, "materialization failed", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(topologyView(snap))
}

func newMaterializeKinematicsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MaterializeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "kinematics",
		Short: "Materialize a KinematicsView at a target tick",
		Long: `Materialize a KinematicsView: motion segments and model assignments as
of a target tick.

Example:
  tectctl materialize kinematics --db ./truthcore.db --variant v1 --branch main \
    --domain plate.kinematics --model baseline --tick 1000`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterializeKinematics(opts, cmd)
		},
	}
	addMaterializeFlags(cmd, opts)
	return cmd
}

func runMaterializeKinematics(opts *MaterializeOptions, cmd *cobra.Command) error {
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

	view, err := materializer.MaterializeKinematics(ctx, st, stream, opts.TargetTick)
	if err != nil {
		return WrapExitError(ExitCommandError, "materialization failed", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(kinematicsView(view))
}

// topologyView/kinematicsView flatten the map-keyed ir types into
// id-sorted slices so JSON output is stable across runs.

func topologyView(snap *ir.TopologySnapshot) map[string]any {
	plateIDs := make([]string, 0, len(snap.Plates))
	for id := range snap.Plates {
		plateIDs = append(plateIDs, id)
	}
	sort.Strings(plateIDs)
	plates := make([]*ir.Plate, 0, len(plateIDs))
	for _, id := range plateIDs {
		plates = append(plates, snap.Plates[id])
	}

	boundaryIDs := make([]string, 0, len(snap.Boundaries))
	for id := range snap.Boundaries {
		boundaryIDs = append(boundaryIDs, id)
	}
	sort.Strings(boundaryIDs)
	boundaries := make([]*ir.Boundary, 0, len(boundaryIDs))
	for _, id := range boundaryIDs {
		boundaries = append(boundaries, snap.Boundaries[id])
	}

	junctionIDs := make([]string, 0, len(snap.Junctions))
	for id := range snap.Junctions {
		junctionIDs = append(junctionIDs, id)
	}
	sort.Strings(junctionIDs)
	junctions := make([]*ir.Junction, 0, len(junctionIDs))
	for _, id := range junctionIDs {
		junctions = append(junctions, snap.Junctions[id])
	}

	return map[string]any{
		"stream":                   snap.Stream.Key(),
		"target_tick":              snap.TargetTick,
		"last_sequence_at_capture": snap.LastSequenceAtCapture,
		"plates":                   plates,
		"boundaries":               boundaries,
		"junctions":                junctions,
	}
}

func kinematicsView(view *ir.KinematicsView) map[string]any {
	segKeys := make([]string, 0, len(view.Segments))
	for k := range view.Segments {
		segKeys = append(segKeys, k)
	}
	sort.Strings(segKeys)
	segments := make([]*ir.MotionSegment, 0, len(segKeys))
	for _, k := range segKeys {
		segments = append(segments, view.Segments[k])
	}

	plateIDs := make([]string, 0, len(view.ModelAssignments))
	for id := range view.ModelAssignments {
		plateIDs = append(plateIDs, id)
	}
	sort.Strings(plateIDs)
	assignments := make([]map[string]string, 0, len(plateIDs))
	for _, id := range plateIDs {
		assignments = append(assignments, map[string]string{"plate_id": id, "model_id": view.ModelAssignments[id]})
	}

	return map[string]any{
		"stream":                   view.Stream.Key(),
		"target_tick":              view.TargetTick,
		"last_sequence_at_capture": view.LastSequenceAtCapture,
		"segments":                 segments,
		"model_assignments":        assignments,
	}
}
