package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// LockOptions selects the plan locker backend.
type LockOptions struct {
	Backend       schema.LockBackend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// InitStores initializes the global manager with the assessment store and plan locker.
// An empty backend leaves the assessment store unset.
func InitStores(backend schema.DatabaseBackend, connStr string, lock LockOptions) error {
	var initErr error

	initOnce.Do(func() {
		locker, err := NewLocker(lock)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize plan locker: %w", err)
			return
		}

		// Initialize the assessment store only if a backend is configured
		var assessment contract.AssessmentStore
		if backend != "" {
			assessment, err = NewAssessmentStore(backend, connStr)
			if err != nil {
				closeLocker(locker)
				initErr = fmt.Errorf("failed to initialize assessment store: %w", err)
				return
			}
		}

		Manager.Lock()
		Manager.assessment = assessment
		Manager.locker = locker
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.assessment != nil {
			_ = Manager.assessment.Close()
		}
		closeLocker(Manager.locker)
	})
}

// ClearStore removes all assessment data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range storeTables {
			if err := clearSQLTable(backend, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}
	driverName := driverNameFor(backend)
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
