package config

// ConfigInitError reports a configuration that loads but cannot be used yet,
// such as one without a vault directory.
type ConfigInitError struct {
	msg string
}

func (e *ConfigInitError) Error() string {
	return e.msg
}
