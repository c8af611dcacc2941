package cli

import (
	"github.com/spf13/cobra"

	"github.com/ptsim/truthcore/internal/ir"
)

// identityFlags holds the --variant/--branch/--level/--domain/--model
// flags shared by every command that addresses a single stream.
type identityFlags struct {
	VariantID string
	BranchID  string
	Level     int32
	Domain    string
	Model     string
}

func addIdentityFlags(cmd *cobra.Command, f *identityFlags) {
	cmd.Flags().StringVar(&f.VariantID, "variant", "", "stream variant id (required)")
	cmd.Flags().StringVar(&f.BranchID, "branch", "", "stream branch id (required)")
	cmd.Flags().Int32Var(&f.Level, "level", 0, "stream level")
	cmd.Flags().StringVar(&f.Domain, "domain", "", "stream domain, dotted path (required)")
	cmd.Flags().StringVar(&f.Model, "model", "", "stream model (required)")
	_ = cmd.MarkFlagRequired("variant")
	_ = cmd.MarkFlagRequired("branch")
	_ = cmd.MarkFlagRequired("domain")
	_ = cmd.MarkFlagRequired("model")
}

func (f identityFlags) stream() ir.StreamIdentity {
	return ir.StreamIdentity{
		VariantID: f.VariantID,
		BranchID:  f.BranchID,
		Level:     f.Level,
		Domain:    f.Domain,
		Model:     f.Model,
	}
}
