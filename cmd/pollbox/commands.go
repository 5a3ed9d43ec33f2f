/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tomoncle/pollbox/app"
	"github.com/tomoncle/pollbox/config"
	"github.com/tomoncle/pollbox/database"
)

const defaultConfigPath = "configs/config.yaml"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "pollbox",
		Short:         "Poll and vote service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath,
		"path to the YAML config file; environment variables override it")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		app.ConfigureLogging(cfg.Log)
		return cfg, nil
	}

	root.AddCommand(newServeCmd(load), newMigrateCmd(load), newSeedCmd(load), newEnvCmd())
	return root
}

type loader func() (*config.Config, error)

func newServeCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			return application.Run(ctx)
		},
	}
}

// withMigrator opens the database without migrating and hands fn its
// migration manager.
func withMigrator(ctx context.Context, load loader, fn func(*database.MigrationManager) error) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	migrate := false
	db, err := app.OpenDatabase(ctx, cfg, &migrate)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db.Migrator())
}

func newMigrateCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), load, func(mm *database.MigrationManager) error {
				if err := mm.RunMigrations(cmd.Context()); err != nil {
					return err
				}
				return printStatus(cmd, mm)
			})
		},
	}

	down := &cobra.Command{
		Use:   "down [version]",
		Short: "Roll back the given migration, or the latest one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), load, func(mm *database.MigrationManager) error {
				if len(args) == 1 {
					if err := mm.Rollback(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s\n", args[0])
					return nil
				}
				version, err := mm.RollbackLast(cmd.Context())
				if err != nil {
					return err
				}
				if version == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing to roll back")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s\n", version)
				return nil
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), load, func(mm *database.MigrationManager) error {
				return printStatus(cmd, mm)
			})
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

func printStatus(cmd *cobra.Command, mm *database.MigrationManager) error {
	applied, err := mm.AppliedMigrations(cmd.Context())
	if err != nil {
		return err
	}
	done := make(map[string]database.Migration, len(applied))
	for _, m := range applied {
		done[m.Version] = m
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED AT")
	for _, m := range mm.Migrations() {
		appliedAt := "pending"
		if rec, ok := done[m.Version]; ok {
			appliedAt = rec.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Version, m.Name, appliedAt)
	}
	return tw.Flush()
}

func newSeedCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Run the SQL seed files for the configured environment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), load, func(mm *database.MigrationManager) error {
				return mm.InitData(cmd.Context())
			})
		},
	}
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Describe the environment variables read at startup",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Usage())
		},
	}
}
