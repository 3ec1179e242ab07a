package server

// Route path constants
const (
	RouteHealth = "/healthz"

	// PKCE Routes
	RoutePKCEPairs  = "/pkce/pairs"
	RoutePKCERedeem = "/pkce/pairs/{attempt_id}/redeem"
	RoutePKCEVerify = "/pkce/verify"
)
