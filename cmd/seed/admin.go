package main

import (
	"github.com/spf13/cobra"

	"storefront/internal/auth"
	"storefront/internal/repository"
	"storefront/internal/service"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create the admin account if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		gormDB, err := openDB()
		if err != nil {
			return err
		}

		username := firstNonEmpty(adminUsername, cfg.AdminUsername)
		email := firstNonEmpty(adminEmail, cfg.AdminEmail)
		password := firstNonEmpty(adminPassword, cfg.AdminPassword)

		// Sessions are never issued here so no redis client is needed.
		authService := service.NewAuthService(
			repository.NewStore(gormDB).Users(),
			auth.NewJWTService(cfg.JWTSecret, cfg.SessionTTL),
			auth.NewSessionStore(nil),
			false,
			log,
		)
		user, created, err := authService.EnsureAdmin(cmd.Context(), username, email, password)
		if err != nil {
			return err
		}
		if created {
			log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("admin created")
		} else {
			log.Info().Str("username", user.Username).Msg("admin already exists")
		}
		return nil
	},
}

func init() {
	adminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username (default ADMIN_USERNAME)")
	adminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email (default ADMIN_EMAIL)")
	adminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password (default ADMIN_PASSWORD)")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
