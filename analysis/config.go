package analysis

// Config configures the pipeline.
type Config struct {
	// AllowPartial returns the surviving modality when exactly one
	// inference stage fails instead of failing the whole run.
	AllowPartial bool `yaml:"allow_partial" mapstructure:"allow_partial"`
}

// Policy returns the failure policy selected by c.
func (c Config) Policy() FailurePolicy {
	if c.AllowPartial {
		return FailurePolicyPartial
	}
	return FailurePolicyTotal
}
