package cmd

import (
	infradb "github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, rootOpts.cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err = infradb.Migrate(ctx, pool); err != nil {
				return err
			}
			version, err := infradb.MigrationVersion(ctx, pool)
			if err != nil {
				return err
			}
			zap.S().Infow("schema is up to date", "version", version)
			return nil
		},
	}
}
