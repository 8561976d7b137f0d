package platform

// State is the canonical four-value deployment lifecycle state,
// independent of the platform's own status vocabulary. StateUnknown is
// never persisted; it only reports an undecodable handle.
type State string

const (
	StatePending   State = "pending"
	StateDeploying State = "deploying"
	StateRunning   State = "running"
	StateFailed    State = "failed"
	StateUnknown   State = "unknown"
)

// deploymentStatusTable maps the platform's raw deployment statuses to
// canonical states. Raw values absent from the table map to
// StateDeploying: an unknown provider state must not surface as a
// premature failure.
var deploymentStatusTable = map[string]State{
	"SUCCESS":      StateRunning,
	"DEPLOYING":    StateDeploying,
	"BUILDING":     StateDeploying,
	"INITIALIZING": StateDeploying,
	"FAILED":       StateFailed,
	"CRASHED":      StateFailed,
	"REMOVED":      StateFailed,
}

// MapDeploymentStatus translates a raw platform status into a canonical
// state. Total: every input yields exactly one of the four states.
func MapDeploymentStatus(raw string) State {
	if s, ok := deploymentStatusTable[raw]; ok {
		return s
	}
	return StateDeploying
}
