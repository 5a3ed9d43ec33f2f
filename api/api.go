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

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/pollbox/database"
	"github.com/tomoncle/pollbox/poll"
	"github.com/tomoncle/pollbox/user"
	"github.com/tomoncle/pollbox/vote"
)

// BasePath prefixes every route.
const BasePath = "/api/v1"

// HealthChecker reports the state of the database behind the API.
type HealthChecker interface {
	GetHealthStatus(ctx context.Context) *database.HealthStatus
}

// API holds the services the handlers delegate to.
type API struct {
	users  *user.Service
	polls  *poll.Service
	votes  *vote.Service
	health HealthChecker
	logger *logrus.Logger
}

// New returns the API; a nil logger uses the logrus standard logger.
func New(users *user.Service, polls *poll.Service, votes *vote.Service, health HealthChecker, logger *logrus.Logger) *API {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &API{users: users, polls: polls, votes: votes, health: health, logger: logger}
}

// Handler returns the router with request id, access log, panic recovery
// and CORS for origins applied.
func (a *API) Handler(origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler)
	a.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers all endpoints under BasePath on r.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route(BasePath, func(r chi.Router) {
		r.Get("/health", a.healthHandler)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", a.listUsersHandler)
			r.Post("/", a.createUserHandler)
			r.Get("/{id}", a.getUserHandler)
			r.Patch("/{id}", a.updateUserHandler)
			r.Delete("/{id}", a.deleteUserHandler)
			r.Get("/{id}/polls", a.listUserPollsHandler)
			r.Post("/{id}/polls", a.createPollHandler)
		})

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", a.listPollsHandler)
			r.Get("/all", a.allPollsHandler)
			r.Get("/{id}", a.getPollHandler)
			r.Patch("/{id}", a.updatePollHandler)
			r.Delete("/{id}", a.deletePollHandler)
		})

		r.Route("/votes", func(r chi.Router) {
			r.Get("/", a.listVotesHandler)
			r.Post("/", a.castVoteHandler)
			r.Get("/{id}", a.getVoteHandler)
			r.Delete("/{id}", a.deleteVoteHandler)
		})
	})
}

func (a *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	if a.health == nil {
		a.writeJSON(w, http.StatusOK, map[string]bool{"healthy": true})
		return
	}
	status := a.health.GetHealthStatus(r.Context())
	code := http.StatusOK
	if status == nil || !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	a.writeJSON(w, code, status)
}
