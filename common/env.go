// Package common provides shared types and constants used across the warpjar
// daemon and its clients.
package common

import (
	"os"
	"strconv"
)

// Environment variable names for configuration.
const (
	// RPCSecretEnv holds the bearer token for the JSON-RPC daemon.
	RPCSecretEnv = "WARPJAR_RPC_SECRET"

	// RPCPortEnv overrides the daemon TCP port.
	RPCPortEnv = "WARPJAR_RPC_PORT"

	// RPCURLEnv is the daemon endpoint used by remote commands.
	RPCURLEnv = "WARPJAR_RPC_URL"

	// DebugEnv enables debug logging.
	DebugEnv = "WARPJAR_DEBUG"

	// SweepCronEnv sets the expiry sweep schedule of daemon jars.
	SweepCronEnv = "WARPJAR_SWEEP_CRON"
)

const (
	// DefaultRPCPort is the TCP port the daemon listens on by default.
	DefaultRPCPort = 3849

	// TCPHost is the loopback address the daemon binds to unless told to
	// listen on all interfaces.
	TCPHost = "127.0.0.1"

	// DefaultSweepCron runs the expiry sweep every five minutes.
	DefaultSweepCron = "*/5 * * * *"
)

// RPCPort returns the daemon port from RPCPortEnv, falling back to
// DefaultRPCPort when unset or invalid.
func RPCPort() int {
	if v := os.Getenv(RPCPortEnv); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p < 65536 {
			return p
		}
	}
	return DefaultRPCPort
}

// DefaultRPCURL returns the HTTP endpoint of a local daemon.
func DefaultRPCURL() string {
	if v := os.Getenv(RPCURLEnv); v != "" {
		return v
	}
	return "http://" + TCPHost + ":" + strconv.Itoa(RPCPort()) + "/jsonrpc"
}

// IsDebug reports whether DebugEnv is set to a true value.
func IsDebug() bool {
	v, _ := strconv.ParseBool(os.Getenv(DebugEnv))
	return v
}
