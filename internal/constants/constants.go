package constants

import "time"

const (
	DefaultSimulatedLatency = 300 * time.Millisecond
	SignInDelay             = 500 * time.Millisecond
)

const (
	APIClientTimeout = 10 * time.Second
	DatabaseTimeout  = 5 * time.Second
	RequestTimeout   = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultTotalSpots = 4
	DefaultLogLevel   = "info"
)
