package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// InterpreterChecker checks command interpreter availability.
type InterpreterChecker interface {
	HealthCheck(ctx context.Context) error
}
