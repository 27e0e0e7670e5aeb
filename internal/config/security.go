package config

import "time"

// SecurityConfig bundles the knobs of the account security gate and the
// failed-login lockout flow.  The defaults match the product policy:
// five failed attempts lock an account for thirty minutes, and passwords
// expire after ninety days.
type SecurityConfig struct {
	LockoutThreshold int           // failed attempts before the account locks
	LockoutDuration  time.Duration // how long a lock lasts from the locking attempt
	PasswordMaxAge   time.Duration // password age after which a change is forced
}

// LoadSecurityConfig reads the optional security environment variables.
func LoadSecurityConfig() SecurityConfig {
	cfg := SecurityConfig{
		LockoutThreshold: envInt("LOCKOUT_THRESHOLD", 5),
		LockoutDuration:  envDur("LOCKOUT_DURATION", 30*time.Minute),
		PasswordMaxAge:   envDur("PASSWORD_MAX_AGE", 90*24*time.Hour),
	}
	if cfg.LockoutThreshold < 1 {
		cfg.LockoutThreshold = 1
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 30 * time.Minute
	}
	if cfg.PasswordMaxAge <= 0 {
		cfg.PasswordMaxAge = 90 * 24 * time.Hour
	}
	return cfg
}
