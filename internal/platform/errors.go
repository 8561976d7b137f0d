package platform

import (
	"errors"
	"fmt"
)

// ErrMalformedHandle reports a composite handle that cannot be decoded.
var ErrMalformedHandle = errors.New("malformed composite handle")

// PlatformError is an application-level error returned by the remote
// control API: the request reached the platform and was rejected.
type PlatformError struct {
	Message string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform api: %s", e.Message)
}

// TransportError is a network or protocol failure reaching the remote
// control API. The request may or may not have been processed.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("platform transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ConfigurationError reports a required external configuration value
// that is absent. This is an operator error and is never masked.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Key)
}

// IsPlatformError reports whether err is an application-level remote error.
func IsPlatformError(err error) bool {
	var pe *PlatformError
	return errors.As(err, &pe)
}

// IsTransportError reports whether err is a transport-level failure.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
