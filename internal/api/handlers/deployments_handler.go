package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/palclaw/engine/internal/api/middleware"
	"github.com/palclaw/engine/internal/api/types"
	"github.com/palclaw/engine/internal/services"
)

type DeploymentsHandler struct {
	deployments services.DeploymentService
}

func NewDeploymentsHandler(deployments services.DeploymentService) *DeploymentsHandler {
	return &DeploymentsHandler{deployments: deployments}
}

func (h *DeploymentsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	ds, err := h.deployments.ListDeployments(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    ds,
		Meta:    &types.Meta{Total: int64(len(ds))},
	})
}

func (h *DeploymentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req struct {
		Channel  string `json:"channel"`
		Model    string `json:"model"`
		BotToken string `json:"bot_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Channel == "" || req.Model == "" {
		writeErrorStr(w, http.StatusBadRequest, "channel and model are required")
		return
	}

	d, err := h.deployments.CreateDeployment(r.Context(), userID, &services.CreateDeploymentInput{
		Channel:  req.Channel,
		Model:    req.Model,
		BotToken: req.BotToken,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: d})
}

// Get also refreshes a deploying record's status from the platform, so
// clients poll this endpoint until the deployment settles.
func (h *DeploymentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	deploymentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid deployment id")
		return
	}

	d, err := h.deployments.GetDeployment(r.Context(), deploymentID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: d})
}

func (h *DeploymentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	deploymentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid deployment id")
		return
	}

	if err := h.deployments.DeleteDeployment(r.Context(), deploymentID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]string{"status": "deleted"}})
}

func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		writeErrorStr(w, http.StatusUnauthorized, "invalid token subject")
		return uuid.Nil, false
	}
	return userID, true
}
