package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/raptor-lang/Raptortime/vm"
	"github.com/raptor-lang/Raptortime/vmlog"
)

// version is reported by -v/--version.
const version = "0.1.0"

// NewRootCommand builds the "raptorscript" root command: load an input
// artifact and run it, with optional per-instruction tracing.
func NewRootCommand() *cobra.Command {
	var (
		debug   bool
		input   string
		maxCall int
	)

	cmd := &cobra.Command{
		Use:     "raptorscript",
		Short:   "RaptorScript Runtime/Interpreter",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			vmlog.SetDefault(vmlog.FromEnv())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				log.Warn("no input file given, nothing to run")
				return nil
			}

			if debug {
				vmlog.SetDefault(vmlog.New(zerolog.DebugLevel))
			}

			data, err := loadFile(input, debug)
			if err != nil {
				return err
			}

			ev, err := vm.Load(data)
			if err != nil {
				return err
			}
			ev.Debug = debug
			ev.MaxCallDepth = maxCall

			if debug {
				ev.DisassembleAll(os.Stdout)
				ev.DumpState(os.Stdout)
			}

			return ev.Run()
		},
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "print every interpreted instruction")
	cmd.Flags().StringVarP(&input, "input", "i", "", "input bytecode file (.crap or .crapt)")
	cmd.Flags().IntVar(&maxCall, "max-call-depth", 0, "bound the call stack depth (0 = unbounded)")

	cmd.AddCommand(newAsmCommand())

	return cmd
}
