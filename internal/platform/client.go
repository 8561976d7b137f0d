package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is a thin, typed wrapper around the remote control API. One
// method per remote capability; no retries — retry policy belongs to
// the caller.
type Client interface {
	// CreateProject creates a remote project and returns its id together
	// with the id of its default environment.
	CreateProject(ctx context.Context, name string) (projectID, environmentID string, err error)

	// CreateService creates a service inside the project from a container image.
	CreateService(ctx context.Context, projectID, name, image string) (serviceID string, err error)

	// UpdateServiceInstance configures the service instance's startup
	// command and replica count.
	UpdateServiceInstance(ctx context.Context, serviceID, environmentID, startCommand string, numReplicas int) error

	// UpsertVariables sets secret/environment variables on the service
	// without triggering a deploy.
	UpsertVariables(ctx context.Context, projectID, environmentID, serviceID string, variables map[string]string) error

	// CreateServiceDomain creates a public domain bound to the service
	// and returns the bare domain name.
	CreateServiceDomain(ctx context.Context, serviceID, environmentID string) (domain string, err error)

	// Redeploy triggers a (re)deployment of the service instance.
	Redeploy(ctx context.Context, serviceID, environmentID string) error

	// DeleteProject deletes the project; the platform cascades the
	// delete to its services and environments.
	DeleteProject(ctx context.Context, projectID string) error

	// LatestDeploymentStatus returns the raw status of the service's
	// latest deployment. ok is false when no deployment is reported yet.
	LatestDeploymentStatus(ctx context.Context, serviceID, environmentID string) (raw string, ok bool, err error)
}

// ClientConfig carries the control API endpoint and credential. Both are
// injected explicitly so the orchestrator is testable with fakes.
type ClientConfig struct {
	APIURL     string
	Token      string
	HTTPClient *http.Client
}

type graphqlClient struct {
	apiURL string
	token  string
	http   *http.Client
}

// NewClient builds a control API client. A missing endpoint or
// credential is an operator error and fails loudly here.
func NewClient(cfg ClientConfig) (Client, error) {
	if cfg.APIURL == "" {
		return nil, &ConfigurationError{Key: "PLATFORM_API_URL"}
	}
	if cfg.Token == "" {
		return nil, &ConfigurationError{Key: "PLATFORM_API_TOKEN"}
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	return &graphqlClient{apiURL: cfg.APIURL, token: cfg.Token, http: hc}, nil
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// gql posts one GraphQL operation and decodes data into out (when out is
// non-nil). Application-level errors become *PlatformError; everything
// on the way there becomes *TransportError.
func (c *graphqlClient) gql(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return &TransportError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer res.Body.Close()

	var gr gqlResponse
	if err := json.NewDecoder(res.Body).Decode(&gr); err != nil {
		return &TransportError{Err: fmt.Errorf("decode response (status %d): %w", res.StatusCode, err)}
	}
	if len(gr.Errors) > 0 {
		return &PlatformError{Message: gr.Errors[0].Message}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &TransportError{Err: fmt.Errorf("unexpected status %d", res.StatusCode)}
	}
	if out != nil {
		if err := json.Unmarshal(gr.Data, out); err != nil {
			return &TransportError{Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}

func (c *graphqlClient) CreateProject(ctx context.Context, name string) (string, string, error) {
	var data struct {
		ProjectCreate struct {
			ID           string `json:"id"`
			Environments struct {
				Edges []struct {
					Node struct {
						ID   string `json:"id"`
						Name string `json:"name"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"environments"`
		} `json:"projectCreate"`
	}

	query := `mutation Create($input: ProjectCreateInput!) {
	  projectCreate(input: $input) {
	    id
	    environments { edges { node { id name } } }
	  }
	}`
	if err := c.gql(ctx, query, map[string]any{"input": map[string]any{"name": name}}, &data); err != nil {
		return "", "", err
	}
	if len(data.ProjectCreate.Environments.Edges) == 0 {
		return "", "", &PlatformError{Message: "project created without a default environment"}
	}
	return data.ProjectCreate.ID, data.ProjectCreate.Environments.Edges[0].Node.ID, nil
}

func (c *graphqlClient) CreateService(ctx context.Context, projectID, name, image string) (string, error) {
	var data struct {
		ServiceCreate struct {
			ID string `json:"id"`
		} `json:"serviceCreate"`
	}

	query := `mutation Create($input: ServiceCreateInput!) {
	  serviceCreate(input: $input) { id }
	}`
	input := map[string]any{
		"projectId": projectID,
		"name":      name,
		"source":    map[string]any{"image": image},
	}
	if err := c.gql(ctx, query, map[string]any{"input": input}, &data); err != nil {
		return "", err
	}
	return data.ServiceCreate.ID, nil
}

func (c *graphqlClient) UpdateServiceInstance(ctx context.Context, serviceID, environmentID, startCommand string, numReplicas int) error {
	query := `mutation Update($serviceId: String!, $environmentId: String!, $input: ServiceInstanceUpdateInput!) {
	  serviceInstanceUpdate(serviceId: $serviceId, environmentId: $environmentId, input: $input)
	}`
	return c.gql(ctx, query, map[string]any{
		"serviceId":     serviceID,
		"environmentId": environmentID,
		"input": map[string]any{
			"numReplicas":  numReplicas,
			"startCommand": startCommand,
		},
	}, nil)
}

func (c *graphqlClient) UpsertVariables(ctx context.Context, projectID, environmentID, serviceID string, variables map[string]string) error {
	query := `mutation Upsert($input: VariableCollectionUpsertInput!) {
	  variableCollectionUpsert(input: $input)
	}`
	return c.gql(ctx, query, map[string]any{
		"input": map[string]any{
			"projectId":     projectID,
			"environmentId": environmentID,
			"serviceId":     serviceID,
			"variables":     variables,
			"skipDeploys":   true,
		},
	}, nil)
}

func (c *graphqlClient) CreateServiceDomain(ctx context.Context, serviceID, environmentID string) (string, error) {
	var data struct {
		ServiceDomainCreate struct {
			Domain string `json:"domain"`
		} `json:"serviceDomainCreate"`
	}

	query := `mutation Domain($input: ServiceDomainCreateInput!) {
	  serviceDomainCreate(input: $input) { domain }
	}`
	input := map[string]any{
		"serviceId":     serviceID,
		"environmentId": environmentID,
	}
	if err := c.gql(ctx, query, map[string]any{"input": input}, &data); err != nil {
		return "", err
	}
	return data.ServiceDomainCreate.Domain, nil
}

func (c *graphqlClient) Redeploy(ctx context.Context, serviceID, environmentID string) error {
	query := `mutation Redeploy($serviceId: String!, $environmentId: String!) {
	  serviceInstanceRedeploy(serviceId: $serviceId, environmentId: $environmentId)
	}`
	return c.gql(ctx, query, map[string]any{
		"serviceId":     serviceID,
		"environmentId": environmentID,
	}, nil)
}

func (c *graphqlClient) DeleteProject(ctx context.Context, projectID string) error {
	query := `mutation Delete($id: String!) {
	  projectDelete(id: $id)
	}`
	return c.gql(ctx, query, map[string]any{"id": projectID}, nil)
}

func (c *graphqlClient) LatestDeploymentStatus(ctx context.Context, serviceID, environmentID string) (string, bool, error) {
	var data struct {
		ServiceInstance *struct {
			LatestDeployment *struct {
				Status string `json:"status"`
			} `json:"latestDeployment"`
		} `json:"serviceInstance"`
	}

	query := `query Status($serviceId: String!, $environmentId: String!) {
	  serviceInstance(serviceId: $serviceId, environmentId: $environmentId) {
	    latestDeployment { status }
	  }
	}`
	err := c.gql(ctx, query, map[string]any{
		"serviceId":     serviceID,
		"environmentId": environmentID,
	}, &data)
	if err != nil {
		return "", false, err
	}
	if data.ServiceInstance == nil || data.ServiceInstance.LatestDeployment == nil {
		return "", false, nil
	}
	return data.ServiceInstance.LatestDeployment.Status, true, nil
}
