package cmd

import (
	"encoding/json"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type SessionOptions struct {
	*RootOptions
	Email string
	Name  string
	Role  string
	Purge bool
}

// NewSessionCommand issues a session token for a user, creating the user
// when needed. Login flows live outside this service.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Issue a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, opts.cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			handlers, _, err := Init(ctx, opts.cfg, db.NewUoWFactory(pool))
			if err != nil {
				return err
			}

			if opts.Purge {
				purged, err := handlers.Auth.PurgeExpiredSessions(ctx)
				if err != nil {
					return err
				}
				zap.S().Infow("expired sessions purged", "count", purged)
			}

			token, expiresAt, err := handlers.Auth.CreateSession(ctx, opts.Email, opts.Name, consts.Role(opts.Role))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dto.CreateSessionResponse{Token: token, ExpiresAt: expiresAt})
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "user email (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "user display name")
	cmd.Flags().StringVar(&opts.Role, "role", string(consts.RoleStaff), "ADMIN, STAFF or VIEWER")
	cmd.Flags().BoolVar(&opts.Purge, "purge-expired", false, "delete expired sessions first")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
