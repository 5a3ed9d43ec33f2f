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

	"github.com/google/uuid"
	"github.com/tomoncle/pollbox/dto"
)

// listPollsHandler handles GET /polls?page=&visibility=&ownerUserId=.
func (a *API) listPollsHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := a.queryPage(w, r)
	if !ok {
		return
	}
	query := dto.PollQuery{Visibility: queryString(r, "visibility")}
	if raw := queryString(r, "ownerUserId"); raw != nil {
		owner, err := uuid.Parse(*raw)
		if err != nil {
			a.writeError(w, http.StatusBadRequest, "invalid ownerUserId")
			return
		}
		query.OwnerUserID = &owner
	}
	result, err := a.polls.Search(r.Context(), query, page)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

func (a *API) allPollsHandler(w http.ResponseWriter, r *http.Request) {
	polls, err := a.polls.FindAll(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, polls)
}

func (a *API) listUserPollsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	page, ok := a.queryPage(w, r)
	if !ok {
		return
	}
	result, err := a.polls.ListByOwner(r.Context(), id, page)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

// createPollHandler handles POST /users/{id}/polls; the poll and its
// options are stored together or not at all.
func (a *API) createPollHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := a.pathID(w, r)
	if !ok {
		return
	}
	var req dto.CreatePollRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	created, err := a.polls.Create(r.Context(), owner, req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, created)
}

func (a *API) getPollHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	found, err := a.polls.FindOne(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	if found == nil {
		a.writeError(w, http.StatusNotFound, "poll not found")
		return
	}
	a.writeJSON(w, http.StatusOK, found)
}

func (a *API) updatePollHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	var req dto.UpdatePollRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	updated, err := a.polls.Update(r.Context(), id, req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	if updated == nil {
		a.writeError(w, http.StatusNotFound, "poll not found")
		return
	}
	a.writeJSON(w, http.StatusOK, updated)
}

func (a *API) deletePollHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	deleted, err := a.polls.Remove(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, dto.DeleteResponse{Deleted: deleted})
}
