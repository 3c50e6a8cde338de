package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/spf13/cobra"

	"github.com/Apurer/petstore-contract-tests/internal/contract"
)

type commandParams struct {
	envFile  string
	baseURL  string
	filters  contract.RegexFilters
	offline  bool
	debug    bool
	debugAll bool
}

func (p *commandParams) bindPersistent(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.envFile, "env-file", ".env", "file of KEY=value pairs loaded before the environment is read")
	cmd.PersistentFlags().Var(&p.filters.MustMatch, "run", "regex pattern(s) of \"group/case\" ids to run")
	cmd.PersistentFlags().Var(&p.filters.MustNotMatch, "skip", "regex pattern(s) of \"group/case\" ids to skip")
}

func (p *commandParams) bindRun(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.baseURL, "base-url", "", "pet store root, overrides PETSTORE_BASE_URL")
	cmd.Flags().BoolVar(&p.offline, "mock", false, "run against an in-process reference server instead of a remote store")
	cmd.Flags().BoolVar(&p.debug, "debug", false, "print request and response details of failed tests")
	cmd.Flags().BoolVar(&p.debugAll, "debug-all", false, "print request and response details of all tests")
}

func (p *commandParams) loadConfig() (*contract.Config, error) {
	cfg, err := contract.LoadConfig(p.envFile)
	if err != nil {
		return nil, err
	}
	if p.baseURL != "" {
		cfg.BaseURL = p.baseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// rerunCommand builds the command line that repeats only the failed tests.
func (p *commandParams) rerunCommand(program string, results contract.Results) string {
	var b commandBuilder
	b.add(program, "run")
	if p.offline {
		b.add("--mock")
	} else if p.baseURL != "" {
		b.add("--base-url", p.baseURL)
	}
	if p.envFile != ".env" {
		b.add("--env-file", p.envFile)
	}
	for _, f := range results.Failures {
		b.add("--run", "^"+regexp.QuoteMeta(f.TestID.String())+"$")
	}
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

func describeTarget(cfg *contract.Config, offline bool) string {
	if offline {
		return fmt.Sprintf("in-process reference server at %s", cfg.BaseURL)
	}
	return cfg.BaseURL
}
