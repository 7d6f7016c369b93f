package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteAuth             = RouteApiV1 + "/auth"
	RouteLogin            = RouteAuth + "/login"
	RouteLogout           = RouteAuth + "/logout"
	RouteRegister         = RouteAuth + "/register"
	RoutePasswordRecovery = RouteAuth + "/password/recovery"
	RoutePasswordReset    = RouteAuth + "/password/reset"
	RouteMe               = RouteAuth + "/me"

	// admin
	RouteUsers        = RouteApiV1 + "/users"
	RouteUser         = RouteUsers + "/:user_id"
	RouteUserPassword = RouteUser + "/password"
	RouteSession      = RouteApiV1 + "/session"

	// pages
	RoutePageLogin         = "/login"
	RoutePageHome          = "/"
	RoutePageResetPassword = "/reset_password.php"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
