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

package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/pollbox/api"
	"github.com/tomoncle/pollbox/config"
	"github.com/tomoncle/pollbox/database"
	"github.com/tomoncle/pollbox/model"
	"github.com/tomoncle/pollbox/poll"
	"github.com/tomoncle/pollbox/user"
	"github.com/tomoncle/pollbox/utils"
	"github.com/tomoncle/pollbox/vote"
)

// App owns the database connection and the HTTP server built on it.
type App struct {
	cfg    *config.Config
	db     *database.BaseDatabaseFactory
	server *http.Server
	logger *logrus.Logger
}

// ConfigureLogging applies the log settings of cfg to every logger.
func ConfigureLogging(cfg config.LogConfig) {
	utils.ConfigureConsoleLogFormat(cfg.Format)
	utils.ConfigureLogLevel(cfg.Level)
}

// OpenDatabase connects with the poll models and foreign keys registered.
func OpenDatabase(ctx context.Context, cfg *config.Config, runMigrations *bool) (*database.BaseDatabaseFactory, error) {
	return database.Open(ctx, &cfg.Database, database.OpenOptions{
		Logger:        database.NewLogger("DATABASE"),
		Models:        model.Models(),
		ForeignKeys:   model.ForeignKeys(),
		RunMigrations: runMigrations,
	})
}

// New connects to the database, migrating when configured, and wires the
// repositories, services and routes.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	ConfigureLogging(cfg.Log)

	db, err := OpenDatabase(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}
	bunDB := db.GetDB()

	users := user.NewRepository(bunDB)
	handler := api.New(
		user.NewService(users),
		poll.NewService(poll.NewRepository(bunDB), users),
		vote.NewService(vote.NewRepository(bunDB)),
		db,
		utils.NewLogger("HTTP"),
	).Handler(cfg.HTTP.CORSOrigins)

	return &App{
		cfg: cfg,
		db:  db,
		server: &http.Server{
			Addr:         cfg.HTTP.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		},
		logger: utils.NewLogger(cfg.App.Name),
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Database() *database.BaseDatabaseFactory {
	return a.db
}

// Run serves on the configured address until ctx is done, then shuts the
// server down and closes the database.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		_ = a.db.Close()
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("addr", ln.Addr().String()).Info("HTTP server is running")
		errCh <- a.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		_ = a.db.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("HTTP server is stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return errors.Join(a.server.Shutdown(shutdownCtx), a.db.Close())
}

// Close releases the database without serving.
func (a *App) Close() error {
	return a.db.Close()
}
