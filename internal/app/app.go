// Package app bootstraps the flowfocus API server.
package app

// Serve runs the server until SIGINT or SIGTERM. Bootstrap failures panic.
func Serve() {
	InitDefaultLogger()
	MustReadEnv()
	MustInitApplicationLogger()

	MustConnectPostgres()
	defer DisconnectPostgres()
	MustMigratePostgres()

	MustListenAndServeHTTP()
}
