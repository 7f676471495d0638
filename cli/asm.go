package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/raptor-lang/Raptortime/vm/asm"
)

// newAsmCommand builds the "asm" subcommand: assemble a line-oriented
// text fixture into a complete .crapt artifact, for hand-authoring test
// programs without packing the binary format by hand.
func newAsmCommand() *cobra.Command {
	var varCount uint32

	cmd := &cobra.Command{
		Use:   "asm in.ras out.crapt",
		Short: "assemble a text listing into a RaptorScript artifact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]

			src, err := os.ReadFile(in)
			if err != nil {
				return errors.Wrapf(err, "reading %s", in)
			}

			data, err := asm.AssembleArtifact(varCount, string(src))
			if err != nil {
				return errors.Wrapf(err, "assembling %s", in)
			}

			if err := os.WriteFile(out, data, 0o644); err != nil {
				return errors.Wrapf(err, "writing %s", out)
			}

			log.Debug("assembled %s into %s (%d bytes)", in, out, len(data))
			return nil
		},
	}

	cmd.Flags().Uint32Var(&varCount, "vars", 0, "number of global variable slots in the artifact header")

	return cmd
}
