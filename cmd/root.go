package cmd

import (
	"fmt"
	"os"

	"github.com/Builder-Lawyers/builder-admin/internal/infra/config"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/logger"
	"github.com/spf13/cobra"
)

type RootOptions struct {
	ConfigPath string
	cfg        *config.Config
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "builder-admin",
		Short: "Admin service for client sites and their installations",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if _, err = logger.New(cfg.Log.Dir, cfg.Log.Tee, cfg.Log.Level); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config.yaml (default conf/config.yaml)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))

	return cmd
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
