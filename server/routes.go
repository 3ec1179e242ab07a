package server

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("POST "+RoutePKCEPairs, ChainMiddleware(s.CreatePairHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RoutePKCERedeem, ChainMiddleware(s.RedeemPairHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RoutePKCEVerify, ChainMiddleware(s.VerifyHandler(), s.APIMiddleware()...))

	// CORS preflight
	s.RegisterRouteHandler("OPTIONS /pkce/", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
}
