package synth

import "fmt"

// ConfigError indicates a structurally invalid rule configuration,
// e.g. k not smaller than the entity count. It is reported before any
// hyperedge is produced.
type ConfigError struct {
	Rule   string
	Param  string
	Reason string
	cause  error
}

func (e *ConfigError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("rule %s: invalid %s: %s", e.Rule, e.Param, e.Reason)
	}
	return fmt.Sprintf("rule %s: %s", e.Rule, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.cause }
