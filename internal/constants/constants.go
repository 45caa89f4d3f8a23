package constants

const (
	Version        = `0.1.0`
	AppName        = `hoverlink`
	EnvPrefix      = `HOVERLINK`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.hoverlink/`
)
