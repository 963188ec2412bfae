package config

import "time"

type SecurityConfig interface {
	GetLoginMaxAttempts() int
	GetLoginWindow() time.Duration
	GetMinPasswordLength() int
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetLoginMaxAttempts() int {
	return GetEnvInt("RATE_LIMIT_LOGIN_ATTEMPTS", 5)
}

func (Security) GetLoginWindow() time.Duration {
	return time.Duration(GetEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second
}

func (Security) GetMinPasswordLength() int {
	return GetEnvInt("MIN_PASSWORD_LENGTH", 6)
}
