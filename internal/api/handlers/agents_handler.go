package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/palclaw/engine/internal/api/types"
	"github.com/palclaw/engine/internal/models"
	"github.com/palclaw/engine/internal/services"
)

type AgentsHandler struct {
	agents services.AgentService
}

func NewAgentsHandler(agents services.AgentService) *AgentsHandler {
	return &AgentsHandler{agents: agents}
}

func (h *AgentsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var as []models.Agent
	var err error
	if raw := r.URL.Query().Get("deployment_id"); raw != "" {
		deploymentID, perr := uuid.Parse(raw)
		if perr != nil {
			writeErrorStr(w, http.StatusBadRequest, "invalid deployment_id")
			return
		}
		as, err = h.agents.ListAgentsByDeployment(r.Context(), userID, deploymentID)
	} else {
		as, err = h.agents.ListAgents(r.Context(), userID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    as,
		Meta:    &types.Meta{Total: int64(len(as))},
	})
}

func (h *AgentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req struct {
		DeploymentID string         `json:"deployment_id"`
		Name         string         `json:"name"`
		Personality  string         `json:"personality"`
		Goal         string         `json:"goal"`
		Settings     map[string]any `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeErrorStr(w, http.StatusBadRequest, "name is required")
		return
	}
	deploymentID, err := uuid.Parse(req.DeploymentID)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid deployment_id")
		return
	}

	a, err := h.agents.CreateAgent(r.Context(), userID, &services.CreateAgentInput{
		DeploymentID: deploymentID,
		Name:         req.Name,
		Personality:  req.Personality,
		Goal:         req.Goal,
		Settings:     req.Settings,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: a})
}

func (h *AgentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	agentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid agent id")
		return
	}

	if err := h.agents.DeleteAgent(r.Context(), agentID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]string{"status": "deleted"}})
}
