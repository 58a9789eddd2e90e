// Package managers holds the long-lived collaborators of the server: the database pool, the session token
// service, the language catalog and the metrics registry.
package managers

import (
	"context"

	"code-atlas/internal/interfaces"

	log "github.com/sirupsen/logrus"
)

// DatabaseMgr defines the interface for database management.
// It provides methods for interacting with the database connection pool.
type DatabaseMgr interface {
	GetPool() interfaces.PgxPoolIface
}

// DatabaseManager is responsible for managing the database connection pool.
type DatabaseManager struct {
	Pool interfaces.PgxPoolIface
}

// GetPool returns the database connection pool managed by the DatabaseManager.
func (dbMgr *DatabaseManager) GetPool() interfaces.PgxPoolIface {
	return dbMgr.Pool
}

// NewDatabaseManager creates a DatabaseManager around the provided connection pool.
func NewDatabaseManager(pool interfaces.PgxPoolIface) DatabaseMgr {
	log.Info("Initializing database manager")
	return &DatabaseManager{Pool: pool}
}

// Healthy reports whether the database answers a ping.
func Healthy(ctx context.Context, databaseMgr DatabaseMgr) bool {
	return databaseMgr.GetPool().Ping(ctx) == nil
}
