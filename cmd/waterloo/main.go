// Command waterloo adds PEP 484 type comments to Python 2 source files,
// derived from the types documented in their docstrings.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	waterloo "github.com/anentropic/python-waterloo"
	"github.com/anentropic/python-waterloo/internal/types"
)

var (
	configPath        string
	write             bool
	showDiff          bool
	allowUntypedArgs  bool
	requireReturnType bool
	collisionPolicy   string
	unpathedPolicy    string
	verbosity         int

	rootCmd = &cobra.Command{
		Use:           "waterloo",
		Short:         "Convert docstring type annotations to PEP 484 type comments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	annotateCmd = &cobra.Command{
		Use:   "annotate [path...]",
		Short: "Annotate the given .py files or directories (dry run unless --write)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnnotate,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a waterloo.toml settings file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v debug, -vv trace)")

	annotateCmd.Flags().BoolVarP(&write, "write", "w", false, "write annotated files back in place")
	annotateCmd.Flags().BoolVar(&showDiff, "show-diff", false, "print a diff of each changed file")
	annotateCmd.Flags().BoolVar(&allowUntypedArgs, "allow-untyped-args", false, "annotate functions whose args have no documented types")
	annotateCmd.Flags().BoolVar(&requireReturnType, "require-return-type", false, "skip functions without a documented return type")
	annotateCmd.Flags().StringVar(&collisionPolicy, "collision-policy", "", "IMPORT, NO_IMPORT or FAIL")
	annotateCmd.Flags().StringVar(&unpathedPolicy, "unpathed-policy", "", "IGNORE, WARN or FAIL")

	rootCmd.AddCommand(annotateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func buildLogger() *slog.Logger {
	if verbosity == 0 {
		return nil
	}
	level := slog.LevelDebug
	if verbosity > 1 {
		level = types.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func buildSettings(cmd *cobra.Command) (waterloo.Settings, error) {
	settings := waterloo.DefaultSettings()
	if configPath != "" {
		loaded, err := waterloo.LoadSettings(configPath)
		if err != nil {
			return settings, err
		}
		settings = loaded
	}
	// flags given on the command line override the file
	if cmd.Flags().Changed("allow-untyped-args") {
		settings.AllowUntypedArgs = allowUntypedArgs
	}
	if cmd.Flags().Changed("require-return-type") {
		settings.RequireReturnType = requireReturnType
	}
	if collisionPolicy != "" {
		settings.ImportCollisionPolicy = collisionPolicy
	}
	if unpathedPolicy != "" {
		settings.UnpathedTypePolicy = unpathedPolicy
	}
	return settings, settings.Validate()
}

func buildSource(paths []string) (waterloo.Source, error) {
	var sources []waterloo.Source
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			sources = append(sources, waterloo.MustDirTree(path))
		} else {
			files = append(files, path)
		}
	}
	if len(files) > 0 {
		sources = append(sources, waterloo.Files(files...))
	}
	if len(sources) == 1 {
		return sources[0], nil
	}
	return waterloo.Multi(sources...), nil
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	settings, err := buildSettings(cmd)
	if err != nil {
		return err
	}
	source, err := buildSource(args)
	if err != nil {
		return err
	}

	report, err := waterloo.Annotate(context.Background(), source,
		waterloo.WithLogger(buildLogger()),
		waterloo.WithSettings(settings),
		waterloo.WithWrite(write),
	)
	if err != nil {
		return err
	}

	report.Print(os.Stdout, showDiff)

	for i := range report.Files {
		if report.Files[i].Err != nil {
			return fmt.Errorf("%d file(s) could not be processed", countFileErrors(report))
		}
	}
	return nil
}

func countFileErrors(report *waterloo.Report) int {
	n := 0
	for i := range report.Files {
		if report.Files[i].Err != nil {
			n++
		}
	}
	return n
}
