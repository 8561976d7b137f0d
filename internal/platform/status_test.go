package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapDeploymentStatus(t *testing.T) {
	cases := map[string]State{
		"SUCCESS":      StateRunning,
		"DEPLOYING":    StateDeploying,
		"BUILDING":     StateDeploying,
		"INITIALIZING": StateDeploying,
		"FAILED":       StateFailed,
		"CRASHED":      StateFailed,
		"REMOVED":      StateFailed,
	}
	for raw, want := range cases {
		require.Equal(t, want, MapDeploymentStatus(raw), "raw %q", raw)
	}
}

func TestMapDeploymentStatusUnknownRaw(t *testing.T) {
	// Statuses the platform may introduce later must not surface as
	// failures mid-deploy.
	for _, raw := range []string{"", "QUEUED", "WEIRD_NEW_STATE", "success"} {
		require.Equal(t, StateDeploying, MapDeploymentStatus(raw), "raw %q", raw)
	}
}

func TestMapDeploymentStatusIdempotent(t *testing.T) {
	for _, raw := range []string{"SUCCESS", "CRASHED", "BUILDING", "whatever"} {
		first := MapDeploymentStatus(raw)
		require.Equal(t, first, MapDeploymentStatus(raw))
	}
}
