package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newFakeAPI(t *testing.T, handler func(query string, variables map[string]any) (any, []string)) (*httptest.Server, Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		data, errs := handler(req.Query, req.Variables)
		resp := map[string]any{}
		if data != nil {
			resp["data"] = data
		}
		if len(errs) > 0 {
			var list []map[string]string
			for _, msg := range errs {
				list = append(list, map[string]string{"message": msg})
			}
			resp["errors"] = list
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(ClientConfig{APIURL: srv.URL, Token: "test-token", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return srv, client
}

func TestNewClientRequiresConfiguration(t *testing.T) {
	_, err := NewClient(ClientConfig{Token: "t"})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "PLATFORM_API_URL", cfgErr.Key)

	_, err = NewClient(ClientConfig{APIURL: "https://api.example.com/graphql"})
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "PLATFORM_API_TOKEN", cfgErr.Key)
}

func TestCreateProjectReturnsDefaultEnvironment(t *testing.T) {
	_, client := newFakeAPI(t, func(query string, variables map[string]any) (any, []string) {
		input := variables["input"].(map[string]any)
		require.Equal(t, "palclaw-test", input["name"])
		return map[string]any{
			"projectCreate": map[string]any{
				"id": "prj_1",
				"environments": map[string]any{
					"edges": []any{
						map[string]any{"node": map[string]any{"id": "env_1", "name": "production"}},
					},
				},
			},
		}, nil
	})

	projectID, envID, err := client.CreateProject(context.Background(), "palclaw-test")
	require.NoError(t, err)
	require.Equal(t, "prj_1", projectID)
	require.Equal(t, "env_1", envID)
}

func TestCreateProjectWithoutEnvironment(t *testing.T) {
	_, client := newFakeAPI(t, func(query string, variables map[string]any) (any, []string) {
		return map[string]any{
			"projectCreate": map[string]any{
				"id":           "prj_1",
				"environments": map[string]any{"edges": []any{}},
			},
		}, nil
	})

	_, _, err := client.CreateProject(context.Background(), "x")
	require.True(t, IsPlatformError(err))
}

func TestGraphQLErrorBecomesPlatformError(t *testing.T) {
	_, client := newFakeAPI(t, func(query string, variables map[string]any) (any, []string) {
		return nil, []string{"Not Authorized", "secondary"}
	})

	_, _, err := client.CreateProject(context.Background(), "x")
	require.True(t, IsPlatformError(err))
	var perr *PlatformError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "Not Authorized", perr.Message)
}

func TestNetworkFailureBecomesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	client, err := NewClient(ClientConfig{APIURL: srv.URL, Token: "test-token"})
	require.NoError(t, err)

	uErr := client.Redeploy(context.Background(), "svc", "env")
	require.True(t, IsTransportError(uErr))
	require.False(t, IsPlatformError(uErr))
}

func TestLatestDeploymentStatus(t *testing.T) {
	status := "SUCCESS"
	var withDeployment bool
	_, client := newFakeAPI(t, func(query string, variables map[string]any) (any, []string) {
		require.Equal(t, "svc_1", variables["serviceId"])
		require.Equal(t, "env_1", variables["environmentId"])
		if !withDeployment {
			return map[string]any{"serviceInstance": map[string]any{"latestDeployment": nil}}, nil
		}
		return map[string]any{
			"serviceInstance": map[string]any{
				"latestDeployment": map[string]any{"status": status},
			},
		}, nil
	})

	// Deployment not reported yet.
	raw, ok, err := client.LatestDeploymentStatus(context.Background(), "svc_1", "env_1")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, raw)

	withDeployment = true
	raw, ok, err = client.LatestDeploymentStatus(context.Background(), "svc_1", "env_1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "SUCCESS", raw)
}

func TestUpsertVariablesSkipsDeploys(t *testing.T) {
	var seen map[string]any
	_, client := newFakeAPI(t, func(query string, variables map[string]any) (any, []string) {
		seen = variables["input"].(map[string]any)
		return map[string]any{"variableCollectionUpsert": true}, nil
	})

	err := client.UpsertVariables(context.Background(), "prj", "env", "svc", map[string]string{"A": "1"})
	require.NoError(t, err)
	require.Equal(t, true, seen["skipDeploys"])
	require.Equal(t, "prj", seen["projectId"])
	vars := seen["variables"].(map[string]any)
	require.Equal(t, "1", vars["A"])
}
