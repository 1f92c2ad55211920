// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/acidburn0zzz/treesync/internal/logger"
	"github.com/acidburn0zzz/treesync/models"
)

type typeStatus struct {
	Type         string `json:"type"`
	HasUserNodes bool   `json:"has_user_nodes"`
	Failed       bool   `json:"failed"`
	FailureCause string `json:"failure_cause,omitempty"`
}

type syncStatusResponse struct {
	BackendState string       `json:"backend_state"`
	Types        []typeStatus `json:"types"`
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	response := syncStatusResponse{
		BackendState: h.controller.BackendInitializationStateString(),
	}

	types := make([]models.ModelType, 0, len(h.processors))
	for dataType := range h.processors {
		types = append(types, dataType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	for _, dataType := range types {
		proc := h.processors[dataType]
		status := typeStatus{Type: dataType.String()}
		if cause, failed := h.failedTypes.Message(dataType); failed {
			status.Failed = true
			status.FailureCause = cause
		}
		if hasNodes, ok := proc.SyncModelHasUserCreatedNodes(dataType); ok {
			status.HasUserNodes = hasNodes
		}
		response.Types = append(response.Types, status)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("failed to encode sync status")
	}
}
