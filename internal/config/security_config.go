package config

const (
	rateLimitEnabledVar = "RATE_LIMIT_ENABLED"
	rateLimitRPSVar     = "RATE_LIMIT_RPS"
	rateLimitBurstVar   = "RATE_LIMIT_BURST"

	defaultRateLimitRPS   = 5.0
	defaultRateLimitBurst = 10
)

type SecurityConfig interface {
	GetEnableRateLimiting() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetEnableRateLimiting() bool {
	enabled, _ := lookupBool(rateLimitEnabledVar, false)
	return enabled
}

// GetRateLimitRPS is the sustained per-client request rate.
func (Security) GetRateLimitRPS() float64 {
	rps, _ := lookupFloat(rateLimitRPSVar, defaultRateLimitRPS)
	return rps
}

func (Security) GetRateLimitBurst() int {
	burst, _ := lookupInt(rateLimitBurstVar, defaultRateLimitBurst)
	return burst
}
