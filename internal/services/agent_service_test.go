package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palclaw/engine/internal/models"
	appErr "github.com/palclaw/engine/pkg/errors"
)

func TestCreateAgent(t *testing.T) {
	userID := uuid.New()
	deploymentID := uuid.New()

	deployRepo := new(mockDeploymentRepo)
	agentRepo := new(mockAgentRepo)

	deployRepo.On("GetByID", mock.Anything, deploymentID, mock.Anything).
		Run(func(args mock.Arguments) {
			d := args.Get(2).(*models.Deployment)
			d.ID = deploymentID
			d.UserID = userID
		}).Return(nil)
	agentRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Agent) bool {
		return a.UserID == userID && a.DeploymentID == deploymentID && a.Name == "scout"
	})).Return(nil)

	svc := NewAgentService(agentRepo, deployRepo)
	a, err := svc.CreateAgent(context.Background(), userID, &CreateAgentInput{
		DeploymentID: deploymentID,
		Name:         "scout",
		Personality:  "curious",
		Goal:         "watch the feeds",
	})
	require.NoError(t, err)
	require.Equal(t, "scout", a.Name)

	agentRepo.AssertExpectations(t)
}

func TestCreateAgentForeignDeployment(t *testing.T) {
	deploymentID := uuid.New()

	deployRepo := new(mockDeploymentRepo)
	agentRepo := new(mockAgentRepo)

	deployRepo.On("GetByID", mock.Anything, deploymentID, mock.Anything).
		Run(func(args mock.Arguments) {
			d := args.Get(2).(*models.Deployment)
			d.ID = deploymentID
			d.UserID = uuid.New()
		}).Return(nil)

	svc := NewAgentService(agentRepo, deployRepo)
	_, err := svc.CreateAgent(context.Background(), uuid.New(), &CreateAgentInput{
		DeploymentID: deploymentID,
		Name:         "scout",
	})
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
	agentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListAgentsByDeployment(t *testing.T) {
	userID := uuid.New()
	deploymentID := uuid.New()

	deployRepo := new(mockDeploymentRepo)
	agentRepo := new(mockAgentRepo)

	deployRepo.On("GetByID", mock.Anything, deploymentID, mock.Anything).
		Run(func(args mock.Arguments) {
			d := args.Get(2).(*models.Deployment)
			d.ID = deploymentID
			d.UserID = userID
		}).Return(nil)
	agentRepo.On("ListByDeployment", mock.Anything, deploymentID).
		Return([]models.Agent{{Name: "scout"}, {Name: "scribe"}}, nil)

	svc := NewAgentService(agentRepo, deployRepo)
	as, err := svc.ListAgentsByDeployment(context.Background(), userID, deploymentID)
	require.NoError(t, err)
	require.Len(t, as, 2)

	// Someone else's deployment is not listable.
	_, err = svc.ListAgentsByDeployment(context.Background(), uuid.New(), deploymentID)
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}

func TestDeleteAgentOwnership(t *testing.T) {
	agentID := uuid.New()

	agentRepo := new(mockAgentRepo)
	agentRepo.On("GetByID", mock.Anything, agentID, mock.Anything).
		Run(func(args mock.Arguments) {
			a := args.Get(2).(*models.Agent)
			a.ID = agentID
			a.UserID = uuid.New()
		}).Return(nil)

	svc := NewAgentService(agentRepo, new(mockDeploymentRepo))
	err := svc.DeleteAgent(context.Background(), agentID, uuid.New())
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
	agentRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
