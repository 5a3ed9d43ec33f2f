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
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tomoncle/pollbox/database"
	"github.com/tomoncle/pollbox/dto"
	"github.com/tomoncle/pollbox/poll"
	"github.com/tomoncle/pollbox/utils"
)

func (a *API) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.WithError(err).Warn("failed to encode response")
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, dto.ErrorResponse{Message: message})
}

// writeServiceError maps an error returned by a service to a status code:
// validation 422, missing owner 404, constraint violations 409, else 500.
func (a *API) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		a.writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{Message: "validation failed", Errors: verr.Errors})
		return
	}
	if errors.Is(err, poll.ErrOwnerNotFound) {
		a.writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if ok, kind := database.IsSqlError(err); ok && kind.IsConstraintViolation() {
		a.writeError(w, http.StatusConflict, kind.String())
		return
	}
	a.logger.WithError(err).WithField(utils.FieldURI, r.RequestURI).Error("request failed")
	a.writeError(w, http.StatusInternalServerError, "internal server error")
}

func (a *API) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// pathID parses the {id} URL parameter, writing 400 when it is not a UUID.
func (a *API) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// queryPage reads ?page=, defaulting to the first page.
func (a *API) queryPage(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid page")
		return 0, false
	}
	return page, true
}

func queryString(r *http.Request, key string) *string {
	q := r.URL.Query()
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}
