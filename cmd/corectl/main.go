// Command corectl is a developer harness for exercising
// internal/bridge directly, in-process, without building the
// -buildmode=c-shared corebridge artifact — for manual smoke testing of
// the completion/diagnostics/definition/type/reparse/eviction paths
// spec.md §6.1 describes.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/clangcore/corecc/internal/bridge"
	"github.com/clangcore/corecc/internal/parser"
	"github.com/clangcore/corecc/internal/unit"
)

var (
	logLevel       string
	compileArgs    string
	reparseOnEmpty bool

	b *bridge.Bridge
)

func main() {
	root := &cobra.Command{
		Use:   "corectl",
		Short: "Exercise the clang completion/diagnostics bridge directly",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
			b = bridge.New(unit.Options{ReparseOnEmpty: reparseOnEmpty})
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&compileArgs, "args", "", "Comma-separated compiler arguments")
	root.PersistentFlags().BoolVar(&reparseOnEmpty, "reparse-on-empty", false, "Reparse when a completion query returns no results")

	root.AddCommand(
		completeCmd(),
		diagnosticsCmd(),
		definitionCmd(),
		typeCmd(),
		findUsesCmd(),
		reparseCmd(),
		evictCmd(),
		evictAllCmd(),
		memCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func setupLogging() {
	log.SetFlags(log.LstdFlags)
	log.SetPrefix(fmt.Sprintf("corectl[%s] ", logLevel))
}

func splitArgs() []string {
	if compileArgs == "" {
		return nil
	}
	return strings.Split(compileArgs, ",")
}

// resolveFile canonicalizes a file argument before it reaches the
// registry, which keys its cache on whatever string it's given and
// never normalizes it itself (that's the caller's job).
func resolveFile(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func printList(h bridge.Handle) {
	n := b.StringListLen(h)
	for i := 0; i < n; i++ {
		s, ok := b.StringListAt(h, i)
		if ok {
			fmt.Println(s)
		}
	}
	b.StringListFree(h)
}

func printString(h bridge.Handle) {
	s, ok := b.StringValue(h)
	if !ok {
		return
	}
	fmt.Println(s)
	b.StringFree(h)
}

func lineColArgs(args []string) (uint, uint, error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("expected <line> <col>")
	}
	line, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return 0, 0, err
	}
	col, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return 0, 0, err
	}
	return uint(line), uint(col), nil
}

func completeCmd() *cobra.Command {
	var prefix string
	var timeoutMs int

	cmd := &cobra.Command{
		Use:   "complete <file> <line> <col>",
		Short: "Run completion at a location",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, col, err := lineColArgs(args[1:])
			if err != nil {
				return err
			}

			h := b.GetCompletions(resolveFile(args[0]), splitArgs(), line, col, prefix, time.Duration(timeoutMs)*time.Millisecond, nil)
			printList(h)

			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Completion prefix filter")
	cmd.Flags().IntVar(&timeoutMs, "timeout-ms", 200, "Milliseconds to wait for the async completion slot")

	return cmd
}

func diagnosticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnostics <file>",
		Short: "Reparse and list diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printList(b.GetDiagnostics(resolveFile(args[0]), splitArgs()))
			return nil
		},
	}
}

func definitionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "definition <file> <line> <col>",
		Short: "Resolve the definition at a location",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, col, err := lineColArgs(args[1:])
			if err != nil {
				return err
			}
			printString(b.GetDefinition(resolveFile(args[0]), splitArgs(), line, col))
			return nil
		},
	}
}

func typeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "type <file> <line> <col>",
		Short: "Resolve the canonical type at a location",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, col, err := lineColArgs(args[1:])
			if err != nil {
				return err
			}
			printString(b.GetType(resolveFile(args[0]), splitArgs(), line, col))
			return nil
		},
	}
}

func findUsesCmd() *cobra.Command {
	var searchPath string

	cmd := &cobra.Command{
		Use:   "find-uses <file> <line> <col>",
		Short: "List references to the symbol at a location",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, col, err := lineColArgs(args[1:])
			if err != nil {
				return err
			}
			file := resolveFile(args[0])
			if searchPath == "" {
				searchPath = file
			} else {
				searchPath = resolveFile(searchPath)
			}
			printList(b.FindUses(file, splitArgs(), line, col, searchPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&searchPath, "search-path", "", "File to search for references (defaults to <file>)")

	return cmd
}

func reparseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reparse <file>",
		Short: "Force a reparse from disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b.Reparse(resolveFile(args[0]), splitArgs(), (*parser.Buffer)(nil))
			return nil
		},
	}
}

func evictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evict <file>",
		Short: "Background-evict one translation unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b.FreeTU(resolveFile(args[0]))
			return nil
		},
	}
}

func evictAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evict-all",
		Short: "Evict every open translation unit and refresh the shared index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b.FreeAll()
			return nil
		},
	}
}

func memCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mem <file>",
		Short: "Print libclang resource usage for a translation unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printList(b.GetMemoryUsage(resolveFile(args[0]), splitArgs()))
			return nil
		},
	}
}

func init() {
	if os.Getenv("CORECC_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	}
}
