package config

import (
	"os"
	"time"
)

type TokenConfig interface {
	// GetJWTSecret returns the symmetric signing secret. There is no
	// default: an empty value must be treated as a fatal startup error.
	GetJWTSecret() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

type Token struct{}

var _ TokenConfig = Token{}

func (Token) GetJWTSecret() string {
	return os.Getenv("JWT_SECRET")
}

func (Token) GetAccessTokenTTL() time.Duration {
	return time.Duration(GetEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 15)) * time.Minute
}

func (Token) GetRefreshTokenTTL() time.Duration {
	// 10080 minutes = 7 days
	return time.Duration(GetEnvInt("REFRESH_TOKEN_EXPIRE_MINUTES", 10080)) * time.Minute
}
