package server

const (
	RouteRegister = "/auth/register"
	RouteLogin    = "/auth/login"
	RouteRefresh  = "/auth/refresh"
	RouteLogout   = "/auth/logout"
	RouteValidate = "/auth/validate"
	RouteMe       = "/auth/me"
	RouteRevoked  = "/auth/revoked"
	RouteHealth   = "/health"
)
