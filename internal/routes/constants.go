package routes

var (
	SignupDurationSecondsBuckets   = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	LoginDurationSecondsBuckets    = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	CheckoutDurationSecondsBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
)

const (
	// API route constants
	MetricsRouteAPI  = "/metrics"
	LoginRouteAPI    = "/login"
	SignupRouteAPI   = "/signup"
	LogoutRouteAPI   = "/logout"
	MenuRouteAPI     = "/menu"
	CartRouteAPI     = "/cart"
	CartAddRouteAPI  = "/cart/add"
	CheckoutRouteAPI = "/checkout"
	OrdersRouteAPI   = "/orders"

	// Content-Type constants
	ContentType     = "Content-Type"
	ContentTypeJson = "application/json"

	// message constants
	MsgLoginSuccessful   = "Login successful"
	MsgLogoutSuccessful  = "Logged out"
	MsgOrderPlaced       = "Order placed successfully!"
	MsgUserCreatedFormat = "User created successfully with ID: %s"

	// Error messages
	ErrInvalidCredentials       = "invalid username or password"
	ErrUnknownMenuItem          = "unknown menu item"
	ErrUnknownMenuCategory      = "unknown menu category"
	ErrInvalidContentTypeFormat = "invalid content-type: %s"

	// metrics constants
	SignupRequestsTotal         = "signup_requests_total"
	SignupRequestsTotalHelp     = "Total number of signup requests received"
	SignupSuccessTotal          = "signup_success_total"
	SignupSuccessTotalHelp      = "Total number of successful signup requests"
	SignupErrorsTotal           = "signup_errors_total"
	SignupErrorsTotalHelp       = "Total number of errors during signup requests"
	SignupDurationSeconds       = "signup_duration_seconds"
	SignupDurationSecondsHelp   = "Duration of signup requests in seconds"
	LoginRequestsTotal          = "login_requests_total"
	LoginRequestsTotalHelp      = "Total number of login requests received"
	LoginSuccessTotal           = "login_success_total"
	LoginSuccessTotalHelp       = "Total number of successful login requests"
	LoginFailedTotal            = "login_failed_total"
	LoginFailedTotalHelp        = "Total number of failed login requests"
	LoginDurationSeconds        = "login_duration_seconds"
	LoginDurationSecondsHelp    = "Duration of login requests in seconds"
	LoginRateLimitedTotal       = "login_rate_limited_total"
	LoginRateLimitedTotalHelp   = "Total number of login requests that were rate limited"
	CartAddsTotal               = "cart_adds_total"
	CartAddsTotalHelp           = "Total number of cart lines added"
	OrdersPlacedTotal           = "orders_placed_total"
	OrdersPlacedTotalHelp       = "Total number of orders written to the ledger"
	CheckoutRequestsTotal       = "checkout_requests_total"
	CheckoutRequestsTotalHelp   = "Total number of checkout requests received"
	CheckoutErrorsTotal         = "checkout_errors_total"
	CheckoutErrorsTotalHelp     = "Total number of failed checkout requests"
	CheckoutDurationSeconds     = "checkout_duration_seconds"
	CheckoutDurationSecondsHelp = "Duration of checkout requests in seconds"
)
