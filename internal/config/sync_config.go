package config

import "time"

// SyncConfig configures the revocation sync loop run by dependent services.
type SyncConfig interface {
	// GetAuthServiceURL is the base URL of the issuing service.
	GetAuthServiceURL() string
	GetSyncInterval() time.Duration
	// GetStrictFirstSync reports whether the first sync must succeed
	// before the service starts accepting authenticated traffic.
	GetStrictFirstSync() bool
}

type Sync struct{}

var _ SyncConfig = Sync{}

func (Sync) GetAuthServiceURL() string {
	return GetEnv("AUTH_SERVICE_URL", "http://localhost:8001")
}

func (Sync) GetSyncInterval() time.Duration {
	return time.Duration(GetEnvInt("REVOKED_SYNC_INTERVAL_SECONDS", 30)) * time.Second
}

func (Sync) GetStrictFirstSync() bool {
	return GetEnvBool("REVOKED_SYNC_STRICT_START", false)
}
