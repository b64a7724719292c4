// Package cli provides the command-line interface for envssh.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/treykane/envssh/internal/appconfig"
	"github.com/treykane/envssh/internal/apperr"
	"github.com/treykane/envssh/internal/catalog"
	"github.com/treykane/envssh/internal/connect"
	"github.com/treykane/envssh/internal/doctor"
	"github.com/treykane/envssh/internal/envfile"
	"github.com/treykane/envssh/internal/model"
	"github.com/treykane/envssh/internal/util"
	"gopkg.in/yaml.v3"
)

// NewRootCommand creates the root cobra command. Without a subcommand it
// runs the interactive pipeline.
func NewRootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "envssh",
		Short:         "Pick an environment and a server, then ssh to it",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := connect.DefaultOptions(cmd.OutOrStdout())
			opts.Logger = slog.Default()
			return connect.Run(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline steps to stderr")

	root.AddCommand(newListCmd())
	root.AddCommand(newDoctorCmd())
	return root
}

// Execute runs the command tree with os.Args and returns the process exit
// status. A non-zero ssh exit is passed through without extra output.
func Execute() int {
	return run(NewRootCommand(), os.Stderr)
}

func run(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	slog.Debug("run failed", "kind", apperr.KindOf(err), "detail", apperr.DebugMessage(err))
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(stderr, "error: "+apperr.UserMessage(err, true))
	}
	return apperr.ExitCode(err)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newListCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list [environment]",
		Short: "List environments, or the servers of one environment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case "table", "json", "yaml":
			default:
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
			}
			out := cmd.OutOrStdout()
			cfg, err := appconfig.Load(appconfig.DefaultConfigPath)
			if err != nil {
				if apperr.Is(err, apperr.SetupRequired) {
					fmt.Fprintf(out, "Created an example config at %s. Update it and run again.\n", appconfig.DefaultConfigPath)
					return nil
				}
				return err
			}
			envs, err := catalog.Scan(cfg.ServersDir)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return writeEnvironments(out, output, envs)
			}
			env, err := findEnvironment(envs, args[0])
			if err != nil {
				return err
			}
			servers, err := envfile.LoadFile(env.Path, util.DefaultPort)
			if err != nil {
				return err
			}
			return writeServers(out, output, servers)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func findEnvironment(envs []model.Environment, name string) (model.Environment, error) {
	for _, e := range envs {
		if e.Name == name {
			return e, nil
		}
	}
	return model.Environment{}, fmt.Errorf("environment not found: %s", name)
}

func writeEnvironments(w io.Writer, format string, envs []model.Environment) error {
	switch format {
	case "json":
		return writeJSON(w, envs)
	case "yaml":
		return writeYAML(w, envs)
	}
	fmt.Fprintf(w, "%-24s %s\n", "ENVIRONMENT", "PATH")
	for _, e := range envs {
		fmt.Fprintf(w, "%-24s %s\n", e.Name, apperr.RedactMessage(e.Path))
	}
	return nil
}

func writeServers(w io.Writer, format string, servers []model.Server) error {
	switch format {
	case "json":
		return writeJSON(w, servers)
	case "yaml":
		return writeYAML(w, servers)
	}
	fmt.Fprintf(w, "%-24s %-16s %-32s %-8s\n", "SERVER", "USER", "HOST", "PORT")
	for _, s := range servers {
		fmt.Fprintf(w, "%-24s %-16s %-32s %-8d\n", s.Name, util.EmptyDash(s.Username), util.EmptyDash(s.Host), s.Port)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func newDoctorCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the ssh binary, config file and environment files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := doctor.Run(doctor.Options{
				ConfigPath:  appconfig.DefaultConfigPath,
				DefaultPort: util.DefaultPort,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, report)
			}
			if len(report.Issues) == 0 {
				fmt.Fprintln(out, "no issues found")
				return nil
			}
			for _, issue := range report.Issues {
				fmt.Fprintf(out, "[%s] %s %s: %s\n", strings.ToUpper(string(issue.Severity)), issue.Check, apperr.RedactMessage(issue.Target), apperr.RedactMessage(issue.Message))
				fmt.Fprintf(out, "       %s\n", issue.Recommendation)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}
