package config

type Config interface {
	EnvConfig
	TokenConfig
	SecurityConfig
	SyncConfig
}

type mainConfig struct {
	EnvVars
	Token
	Security
	Sync
}

func New() Config {
	return mainConfig{}
}
