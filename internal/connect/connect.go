// Package connect runs the envssh pipeline: read the config, pick an
// environment, pick a server, and hand the resolved target to ssh.
//
// Every stage either succeeds or ends the run; nothing is retried and no
// stage is skipped. The one early success is first-run setup, when the
// config file is created from a template and nothing else happens.
package connect

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/treykane/envssh/internal/appconfig"
	"github.com/treykane/envssh/internal/apperr"
	"github.com/treykane/envssh/internal/catalog"
	"github.com/treykane/envssh/internal/envfile"
	"github.com/treykane/envssh/internal/model"
	"github.com/treykane/envssh/internal/selector"
	"github.com/treykane/envssh/internal/sshclient"
	"github.com/treykane/envssh/internal/util"
)

const (
	environmentLabel = "Select an environment"
	serverLabel      = "Select a server"
)

// Options are the pipeline inputs. Zero fields other than Selector,
// Launcher and Stdout fall back to the package defaults.
type Options struct {
	ConfigPath          string
	DefaultPort         int
	EnvironmentPageSize int
	ServerPageSize      int

	Selector selector.Selector
	Launcher sshclient.Launcher
	// Stdout receives the setup notice and the connection line.
	Stdout io.Writer
	Logger *slog.Logger
}

// DefaultOptions returns options for a real terminal run.
func DefaultOptions(stdout io.Writer) Options {
	return Options{
		ConfigPath:          appconfig.DefaultConfigPath,
		DefaultPort:         util.DefaultPort,
		EnvironmentPageSize: util.EnvironmentPageSize,
		ServerPageSize:      util.ServerPageSize,
		Selector:            selector.Terminal{},
		Launcher:            sshclient.New(),
		Stdout:              stdout,
	}
}

// Resolution is what the two prompts settled on.
type Resolution struct {
	Environment model.Environment
	Server      model.Server
	Target      model.Target
}

// Run executes the whole pipeline and blocks until the ssh session ends.
func Run(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()
	res, err := Resolve(opts)
	if err != nil {
		if apperr.Is(err, apperr.SetupRequired) {
			return nil
		}
		return err
	}

	c := sshclient.Client{}
	fmt.Fprintf(opts.Stdout, "Connection string: %s\n", c.CommandLine(res.Target))
	opts.Logger.Debug("launching ssh", "args", c.ConnectArgs(res.Target))
	return opts.Launcher.RunInteractive(ctx, res.Target)
}

// Resolve runs every stage up to, but not including, the ssh launch.
// On first run it prints the setup notice and returns an
// apperr.SetupRequired error.
func Resolve(opts Options) (Resolution, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	cfg, err := appconfig.Load(opts.ConfigPath)
	if err != nil {
		if apperr.Is(err, apperr.SetupRequired) {
			fmt.Fprintf(opts.Stdout, "Config file %s not found!\n", opts.ConfigPath)
			fmt.Fprintln(opts.Stdout, "Created an example. Please update the file and run this command again.")
		}
		return Resolution{}, err
	}
	log.Debug("config loaded", "path", opts.ConfigPath, "servers_dir", cfg.ServersDir)

	envs, err := catalog.Scan(cfg.ServersDir)
	if err != nil {
		return Resolution{}, err
	}
	log.Debug("catalog scanned", "environments", len(envs))

	envIdx, err := choose(opts.Selector, selector.Prompt{
		Label:       environmentLabel,
		Items:       catalog.Names(envs),
		PageSize:    opts.EnvironmentPageSize,
		ClearScreen: true,
	})
	if err != nil {
		return Resolution{}, err
	}
	env := envs[envIdx]
	log.Debug("environment selected", "name", env.Name, "path", env.Path)

	servers, err := envfile.LoadFile(env.Path, opts.DefaultPort)
	if err != nil {
		return Resolution{}, err
	}

	names := make([]string, len(servers))
	for i, s := range servers {
		names[i] = s.Name
	}
	srvIdx, err := choose(opts.Selector, selector.Prompt{
		Label:    serverLabel,
		Items:    names,
		PageSize: opts.ServerPageSize,
	})
	if err != nil {
		return Resolution{}, err
	}
	srv := servers[srvIdx]
	log.Debug("server selected", "name", srv.Name)

	return Resolution{Environment: env, Server: srv, Target: srv.Target()}, nil
}

// choose runs one prompt. An empty list fails before the selector is
// invoked, and an index outside the list is rejected.
func choose(sel selector.Selector, p selector.Prompt) (int, error) {
	if len(p.Items) == 0 {
		return -1, apperr.New(apperr.SelectionError, p.Label+": nothing to choose from", nil)
	}
	idx, err := sel.SelectOne(p)
	if err != nil {
		return -1, err
	}
	if idx < 0 || idx >= len(p.Items) {
		return -1, apperr.New(apperr.SelectionError, fmt.Sprintf("%s: index %d out of range", p.Label, idx), nil)
	}
	return idx, nil
}

func (o Options) withDefaults() Options {
	if o.ConfigPath == "" {
		o.ConfigPath = appconfig.DefaultConfigPath
	}
	if o.DefaultPort == 0 {
		o.DefaultPort = util.DefaultPort
	}
	if o.Selector == nil {
		o.Selector = selector.Terminal{}
	}
	if o.Launcher == nil {
		o.Launcher = sshclient.New()
	}
	if o.Stdout == nil {
		o.Stdout = io.Discard
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
