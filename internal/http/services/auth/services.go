package auth

// Services agrupa todos los servicios del dominio auth.
type Services struct {
	Login      LoginService
	Refresh    RefreshService
	Logout     LogoutService
	Permission PermissionTokenService
	Introspect IntrospectService
}
