package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xyproto/rowed"
	"github.com/xyproto/rowed/internal/config"
	"github.com/xyproto/rowed/internal/log"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "editor [filename]",
		Short:         "A minimal terminal text editor",
		Long:          `Open a file in a raw-mode terminal editor. Ctrl-S saves, Ctrl-Q quits.`,
		Version:       rowed.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, cfgFile)
			if err != nil {
				return err
			}
			return runEditor(cfg, args)
		},
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: "+config.DefaultDir()+"/config.yaml)")
	root.PersistentFlags().Int("tab-stop", 0, "columns per tab stop")
	root.PersistentFlags().String("log-file", "", "write a debug log to this file")
	root.PersistentFlags().Bool("debug", false, "log at debug level")

	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, cfgFile)
			if err != nil {
				return err
			}
			out, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	return root
}

// loadConfig reads the config file and applies any flags given on the
// command line on top of it.
func loadConfig(cmd *cobra.Command, path string) (config.Config, error) {
	cfg, _, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("tab-stop") {
		cfg.TabStop, _ = flags.GetInt("tab-stop")
	}
	if flags.Changed("log-file") {
		cfg.Log.File, _ = flags.GetString("log-file")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func runEditor(cfg config.Config, args []string) error {
	if cfg.Log.File != "" {
		level, _ := log.ParseLevel(cfg.Log.Level)
		closeLog, err := log.Init(cfg.Log.File, level)
		if err != nil {
			return err
		}
		defer closeLog()
	}

	e := rowed.New(cfg)
	if len(args) == 1 {
		if err := e.Open(args[0]); err != nil {
			return err
		}
	}
	log.Info(log.CatTerm, "starting", "version", rowed.Version, "file", e.Buffer().Filename())
	return e.Run(rowed.NewTerminal(os.Stdin, os.Stdout))
}
