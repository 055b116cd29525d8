package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arm-asl/aslcore/internal/ast"
	"github.com/arm-asl/aslcore/internal/backend"
	"github.com/arm-asl/aslcore/internal/backend/native"
	"github.com/arm-asl/aslcore/internal/config"
	"github.com/arm-asl/aslcore/internal/fixtures"
	"github.com/arm-asl/aslcore/internal/instr"
	"github.com/arm-asl/aslcore/internal/interp"
)

var traceRun bool

var runCmd = &cobra.Command{
	Use:   "run <fixture>",
	Short: "Run a named fixture's main and print its return value",
	Long: `Run executes one of internal/fixtures' named programs against the native
backend, evaluates main, and prints its return value (or the formatted
fatal error on failure).

Examples:
  aslrun run for-loop-sum
  aslrun run --trace try-catch`,
	Args: cobra.ExactArgs(1),
	RunE: runFixture,
}

func init() {
	runCmd.Flags().BoolVar(&traceRun, "trace", false, "attach a text instrumentation sink and print one line per rule firing")
	rootCmd.AddCommand(runCmd)
}

func runFixture(cmd *cobra.Command, args []string) error {
	name := args[0]
	fx, ok := fixtures.Get(name)
	if !ok {
		return fmt.Errorf("unknown fixture %q (see `aslrun list`)", name)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var sink instr.Sink = instr.NoopSink{}
	if traceRun {
		sink = instr.NewTextSink(os.Stderr)
	}

	b := native.New()
	it := interp.New(b, sink, cfg.Unroll)
	it.Out = os.Stdout

	seed := make(map[string]backend.Value, len(cfg.Seed))
	for name, s := range cfg.Seed {
		v, err := b.FromLiteral(ast.StringLiteral{Value: s})
		if err != nil {
			return fmt.Errorf("seed %q: %w", name, err)
		}
		seed[name] = v
	}

	global, err := interp.BuildGlobalEnv(it, fx.Program, fx.Static, seed)
	if err != nil {
		return fmt.Errorf("building global environment: %w", err)
	}

	v, err := interp.RunMain(it, global)
	if err != nil {
		return err
	}

	fmt.Println(b.DebugValue(v))
	return nil
}
