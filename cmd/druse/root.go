package main

import (
	"github.com/chazu/druse/pkg/crystal"
	"github.com/chazu/druse/pkg/engine"
	"github.com/spf13/cobra"
)

// cli carries the resolved configuration from the root command to its
// subcommands.
type cli struct {
	configPath string
	logLevel   string
	winding    string
	strict     bool
	cfg        Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "druse",
		Short:         "Generate convex crystal polyhedra from seed faces and point-group symmetry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default ./"+DefaultConfigFile+" if present)")
	pf.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&c.winding, "winding", "", "face winding: outward or inward")
	pf.BoolVar(&c.strict, "strict", false, "fail on topology anomalies instead of recovering")

	root.AddCommand(newGenerateCmd(c), newEvalCmd(c), newGroupsCmd())
	return root
}

// setup loads the config file, applies flag overrides and installs the
// logger.
func (c *cli) setup(cmd *cobra.Command) error {
	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		path = DefaultConfigFile
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if flags.Changed("winding") {
		cfg.Winding = c.winding
	}
	if flags.Changed("strict") {
		cfg.Strict = c.strict
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	c.cfg = cfg

	log := cfg.logger(cmd.ErrOrStderr())
	crystal.SetLogger(log)
	engine.SetLogger(log)
	return nil
}
