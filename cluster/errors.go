package cluster

import "fmt"

// ConfigError indicates a structurally invalid engine parameter or an input
// on which modularity is undefined (zero edges). Reported before
// optimization starts.
type ConfigError struct {
	Param  string
	Reason string
	cause  error
}

func (e *ConfigError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("cluster: invalid %s: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("cluster: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.cause }
