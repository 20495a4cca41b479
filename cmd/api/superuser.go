package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/clinic-api/internal/repository/postgres"
	authService "github.com/jwalitptl/clinic-api/internal/service/auth"
	"github.com/jwalitptl/clinic-api/pkg/auth"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

// newCreateSuperuserCmd creates the first admin account. Admins cannot
// register through the API.
func newCreateSuperuserCmd() *cobra.Command {
	var email, username, password string

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("CLINIC_SUPERUSER_PASSWORD")
			}
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password (or CLINIC_SUPERUSER_PASSWORD) are required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := postgres.NewDB(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := authService.NewService(
				postgres.NewRepositories(db).Users,
				auth.NewJWTService(auth.Config{Secret: cfg.JWT.Secret, RefreshSecret: cfg.JWT.RefreshSecret}),
				security.NewBcryptHasher(bcrypt.DefaultCost),
			)
			user, err := svc.CreateSuperuser(cmd.Context(), email, username, password)
			if err != nil {
				return err
			}
			log.Info().Str("user_id", user.ID.String()).Str("email", user.Email).Msg("superuser created")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&username, "username", "", "admin username (defaults to the email)")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	return cmd
}
