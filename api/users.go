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
	"net/http"

	"github.com/tomoncle/pollbox/dto"
)

func (a *API) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := a.queryPage(w, r)
	if !ok {
		return
	}
	query := dto.UserQuery{Email: queryString(r, "email"), Name: queryString(r, "name")}
	result, err := a.users.Search(r.Context(), query, page)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

func (a *API) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	created, err := a.users.Create(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, created)
}

func (a *API) getUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	found, err := a.users.FindOne(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	if found == nil {
		a.writeError(w, http.StatusNotFound, "user not found")
		return
	}
	a.writeJSON(w, http.StatusOK, found)
}

func (a *API) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	updated, err := a.users.Update(r.Context(), id, req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	if updated == nil {
		a.writeError(w, http.StatusNotFound, "user not found")
		return
	}
	a.writeJSON(w, http.StatusOK, updated)
}

func (a *API) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	deleted, err := a.users.Remove(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, dto.DeleteResponse{Deleted: deleted})
}
