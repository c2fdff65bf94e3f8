package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"playnote/backend/internal/auth"
	"playnote/backend/internal/config"
	"playnote/backend/internal/database"
	"playnote/backend/pkg/jwt"
)

func newRootCommand() *cobra.Command {
	var envDir string

	root := &cobra.Command{
		Use:           "playnotectl",
		Short:         "PlayNote operator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envDir, "env-dir", "", "directory holding the .env file (default: working directory)")

	loadConfig := func() (*config.Config, error) {
		if envDir != "" {
			return config.Load(envDir)
		}
		return config.Load()
	}

	root.AddCommand(
		newMigrateCommand(loadConfig),
		newSeedCommand(loadConfig),
		newHashPasswordCommand(),
		newTokenCommand(loadConfig),
	)
	return root
}

type configLoader func() (*config.Config, error)

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	db, err := database.Open(database.Options{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseURL})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newMigrateCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the games and ratings tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if _, err := openDatabase(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newSeedCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo games when the games table is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			added, err := database.Seed(db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d games\n", added)
			return nil
		},
	}
}

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for a users file entry",
		Long:  "Print a bcrypt hash for a users file entry. Without an argument the password is read from the first line of stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newTokenCommand(load configLoader) *cobra.Command {
	var subject jwt.Subject

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token with the configured secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is required")
			}

			issuer := jwt.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
			token, _, err := issuer.Issue(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject.ID, "sub", "1", "subject (user id)")
	cmd.Flags().StringVar(&subject.GivenName, "given-name", "", "given name claim")
	cmd.Flags().StringVar(&subject.FamilyName, "family-name", "", "family name claim")
	cmd.Flags().StringVar(&subject.Role, "role", "", "role claim, e.g. admin")
	return cmd
}
