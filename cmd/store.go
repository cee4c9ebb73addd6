package cmd

import (
	"fmt"

	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/internal/iocache"
	"github.com/huangsam/maturity/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeBackendFromConfig reads and validates the store settings without the full shared setup.
func storeBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// storeSetup loads minimal configuration needed for store operations.
func storeSetup() error {
	backend, connStr, err := storeBackendFromConfig()
	if err != nil {
		return err
	}

	// Store commands never take run locks
	if err := iocache.InitStores(backend, connStr, iocache.LockOptions{Backend: schema.MemoryLock}); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup resolves the store settings without opening the store,
// so migrations can run on a fresh database.
func storeMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeBackendFromConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeCmd focused on assessment store management.
//
// Note: Store subcommands use minimal initialization instead of the full
// sharedSetup. They need neither a subject nor a reference instant.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the assessment store (scores and growth plans)",
	Long: `Manage the store that keeps recorded scores and growth plans.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all stored scores and plans
  export  - Export scores and levers to Parquet
  migrate - Run database schema migrations

Examples:
  # Check store status
  maturity store status

  # Use PostgreSQL (set connection string via env variable)
  MATURITY_STORE_BACKEND=postgresql MATURITY_STORE_DB_CONNECT="..." maturity store status`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show the backend, connection state, row counts and size of the assessment store.

Examples:
  maturity store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetAssessmentStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(status)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored scores and plans",
	Long: `Delete every recorded score, plan and lever from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the store tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  maturity store export --output-file backup
  maturity store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStore(cfg.StoreBackend, contract.GetDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeExportCmd exports store data to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export scores and levers to Parquet for BI tools",
	Long: `Export all recorded scores and plan levers to Parquet.

Writes two files next to the --output-file prefix:
- <prefix>.scores.parquet - one row per recorded score
- <prefix>.levers.parquet - one row per lever with its plan window

Examples:
  maturity store export --output-file maturity-data
  duckdb -c "SELECT subject_id, score FROM read_parquet('maturity-data.scores.parquet')"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteStoreExport(rootCtx, storeManager.GetAssessmentStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export store data", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the assessment store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the assessment store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  maturity store migrate

  # Rollback to initial state
  maturity store migrate --target-version 0`,
	PreRunE: storeMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to migrate store", err)
		}
		fmt.Println("Store migration completed successfully.")
	},
}
