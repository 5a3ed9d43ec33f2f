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

func (a *API) listVotesHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := a.queryPage(w, r)
	if !ok {
		return
	}
	result, err := a.votes.Search(r.Context(), page)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

func (a *API) castVoteHandler(w http.ResponseWriter, r *http.Request) {
	created, err := a.votes.Cast(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, created)
}

func (a *API) getVoteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	found, err := a.votes.FindOne(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	if found == nil {
		a.writeError(w, http.StatusNotFound, "vote not found")
		return
	}
	a.writeJSON(w, http.StatusOK, found)
}

func (a *API) deleteVoteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	deleted, err := a.votes.Remove(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, dto.DeleteResponse{Deleted: deleted})
}
