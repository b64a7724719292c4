// Package doctor reports problems that would stop or confuse a run before
// the operator reaches the prompts.
//
// Unlike the pipeline, doctor keeps going after a bad environment file so
// that one report covers the whole servers directory.
package doctor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/treykane/envssh/internal/appconfig"
	"github.com/treykane/envssh/internal/catalog"
	"github.com/treykane/envssh/internal/envfile"
	"github.com/treykane/envssh/internal/model"
	"github.com/treykane/envssh/internal/sshclient"
	"github.com/treykane/envssh/internal/util"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Issue struct {
	Severity       Severity `json:"severity"`
	Check          string   `json:"check"`
	Target         string   `json:"target"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r Report) HasHigh() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityHigh {
			return true
		}
	}
	return false
}

// Options selects the files to inspect.
type Options struct {
	ConfigPath  string
	DefaultPort int
}

// Run executes local diagnostics. It never writes files: a missing config
// is reported, not bootstrapped.
func Run(opts Options) (Report, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = appconfig.DefaultConfigPath
	}
	if opts.DefaultPort == 0 {
		opts.DefaultPort = util.DefaultPort
	}
	issues := []Issue{}

	if err := sshclient.EnsureSSHBinary(); err != nil {
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "ssh-binary",
			Target:         "PATH",
			Message:        err.Error(),
			Recommendation: "install OpenSSH client and ensure `ssh` is on PATH",
		})
	}

	cfgPath, err := appconfig.ExpandHome(opts.ConfigPath)
	if err != nil {
		return Report{}, err
	}
	if _, err := os.Stat(cfgPath); err != nil {
		msg := fmt.Sprintf("cannot access config: %v", err)
		if errors.Is(err, fs.ErrNotExist) {
			msg = "config file does not exist"
		}
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "config-missing",
			Target:         cfgPath,
			Message:        msg,
			Recommendation: "run envssh once to create an example config, then set servers_dir",
		})
		return finish(issues), nil
	}
	cfg, err := appconfig.Load(cfgPath)
	if err != nil {
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "config-invalid",
			Target:         cfgPath,
			Message:        err.Error(),
			Recommendation: "fix the file so it sets servers_dir to a quoted path string",
		})
		return finish(issues), nil
	}
	if !strings.HasSuffix(cfg.ServersDir, string(filepath.Separator)) {
		issues = append(issues, Issue{
			Severity:       SeverityLow,
			Check:          "servers-dir-separator",
			Target:         cfg.ServersDir,
			Message:        "servers_dir does not end in a path separator",
			Recommendation: "add a trailing / so environment paths join cleanly",
		})
	}

	envs, err := catalog.Scan(cfg.ServersDir)
	if err != nil {
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "catalog",
			Target:         cfg.ServersDir,
			Message:        err.Error(),
			Recommendation: "create the directory or point servers_dir at an existing one",
		})
		return finish(issues), nil
	}
	if len(envs) == 0 {
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "catalog-empty",
			Target:         cfg.ServersDir,
			Message:        "no .json environment files found",
			Recommendation: "add at least one environment file with a databases object",
		})
	}
	issues = append(issues, duplicateNameIssues(envs)...)
	issues = append(issues, permissionIssues(cfgPath, cfg.ServersDir, envs)...)

	for _, env := range envs {
		servers, err := envfile.LoadFile(env.Path, opts.DefaultPort)
		if err != nil {
			issues = append(issues, Issue{
				Severity:       SeverityHigh,
				Check:          "environment-parse",
				Target:         env.Path,
				Message:        err.Error(),
				Recommendation: "each databases entry needs string username and server fields",
			})
			continue
		}
		if len(servers) == 0 {
			issues = append(issues, Issue{
				Severity:       SeverityMedium,
				Check:          "environment-empty",
				Target:         env.Path,
				Message:        "databases object has no servers",
				Recommendation: "add a server or remove the file",
			})
		}
		issues = append(issues, portIssues(env, servers)...)
	}

	return finish(issues), nil
}

func portIssues(env model.Environment, servers []model.Server) []Issue {
	var issues []Issue
	for _, s := range servers {
		if err := util.ValidatePort(s.Port); err != nil {
			issues = append(issues, Issue{
				Severity:       SeverityMedium,
				Check:          "server-port",
				Target:         env.Name + "/" + s.Name,
				Message:        err.Error(),
				Recommendation: "set port to a number or numeric string between 1 and 65535",
			})
		}
	}
	return issues
}

func duplicateNameIssues(envs []model.Environment) []Issue {
	seen := map[string][]string{}
	for _, e := range envs {
		seen[e.Name] = append(seen[e.Name], e.Path)
	}
	var issues []Issue
	for name, paths := range seen {
		if len(paths) < 2 {
			continue
		}
		issues = append(issues, Issue{
			Severity:       SeverityMedium,
			Check:          "duplicate-environment-name",
			Target:         name,
			Message:        fmt.Sprintf("environment name is used by %d files: %s", len(paths), strings.Join(paths, ", ")),
			Recommendation: "rename files so each environment name is unique",
		})
	}
	return issues
}

func finish(issues []Issue) Report {
	sort.Slice(issues, func(i, j int) bool {
		ri := severityRank(issues[i].Severity)
		rj := severityRank(issues[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if issues[i].Check != issues[j].Check {
			return issues[i].Check < issues[j].Check
		}
		if issues[i].Target != issues[j].Target {
			return issues[i].Target < issues[j].Target
		}
		return issues[i].Message < issues[j].Message
	})
	return Report{Issues: issues}
}

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}
