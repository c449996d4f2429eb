package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteAuth  = RouteApiV1 + "/auth"
	RouteLogin = RouteAuth + "/login"

	// users
	RouteUsers          = RouteApiV1 + "/users"
	RouteRegister       = RouteUsers + "/register"
	RouteChangeProfile  = RouteUsers + "/change/profile-data/:login"
	RouteChangePassword = RouteUsers + "/change/password/:login"
	RouteChangeLogin    = RouteUsers + "/change/login/:login"
	RouteActiveUsers    = RouteUsers + "/request/all-active-users"
	RouteByLogin        = RouteUsers + "/request/by-login"
	RoutePersonal       = RouteUsers + "/request/personal-profile"
	RouteOverAge        = RouteUsers + "/request/users-over-specified-age"
	RouteDelete         = RouteUsers + "/delete"
	RouteRestore        = RouteUsers + "/restore/user/:login"
	RouteOptions        = RouteUsers + "/options"
	RouteHead           = RouteUsers + "/head"
	RouteDebugAllUsers  = RouteUsers + "/debug/get-all-users"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
