package platform

import "strings"

// handleDelimiter joins the three remote identifiers. None of the
// platform's ids contain "::".
const handleDelimiter = "::"

// Handle addresses one provisioned instance on the remote platform.
// Its encoded form is persisted as the deployment's platform id and is
// opaque to everything outside this package and the provisioner.
type Handle struct {
	ProjectID     string
	ServiceID     string
	EnvironmentID string
}

// Encode renders the handle as "<project>::<service>::<environment>".
// Order is fixed: project first, so DecodeHandle is unambiguous.
func (h Handle) Encode() string {
	return h.ProjectID + handleDelimiter + h.ServiceID + handleDelimiter + h.EnvironmentID
}

// DecodeHandle parses an encoded composite handle. A value with fewer
// than three delimited parts yields ErrMalformedHandle, never a partial
// handle.
func DecodeHandle(s string) (Handle, error) {
	parts := strings.Split(s, handleDelimiter)
	if len(parts) < 3 {
		return Handle{}, ErrMalformedHandle
	}
	return Handle{
		ProjectID:     parts[0],
		ServiceID:     parts[1],
		EnvironmentID: parts[2],
	}, nil
}
