// Package cmd defines the command-line interface for maturity.
package cmd

import (
	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(bracketsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the plan subcommands to the parent plan command
	planCmd.AddCommand(planImportCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planReplanCmd)
	planCmd.AddCommand(planBlockCmd)
	planCmd.AddCommand(planUnblockCmd)
	planCmd.AddCommand(planCompleteCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print every scoring issue and lever risk reasons")
	rootCmd.PersistentFlags().String("subject", contract.DefaultSubject, "Subject (company, team, product) being assessed")
	rootCmd.PersistentFlags().String("now", "", "Reference instant in RFC3339, YYYY-MM-DD or time ago (default: current time)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("lock-backend", string(schema.MemoryLock), "Run lock backend: memory or redis")
	rootCmd.PersistentFlags().String("redis-addr", contract.DefaultRedisAddr, "Redis address (host:port) for the redis lock backend")
	rootCmd.PersistentFlags().String("redis-password", "", "Redis password (prefer MATURITY_REDIS_PASSWORD)")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database number")
	rootCmd.PersistentFlags().String("lock-ttl", contract.DefaultLockTTL.String(), "How long a run lock is held before it expires")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Flags of scoreCmd and bracketsCmd share keys; they are bound to Viper in sharedSetup
	scoreCmd.Flags().String("rubric", "", "Path to the rubric YAML file")
	scoreCmd.Flags().String("answers", "", "Path to the answers YAML or JSON file")
	scoreCmd.Flags().Float64("base", 0, "Base maturity score that selects the rubric bracket")

	bracketsCmd.Flags().String("rubric", "", "Optional rubric to count rules per bracket")
	bracketsCmd.Flags().Float64("base", 0, "Base maturity score to locate on the ladder")

	historyCmd.Flags().Int("limit", 0, "Keep only the newest N scores (0 = all)")

	planImportCmd.Flags().String("plan-file", "", "Path to the plan YAML or JSON file")
	planReplanCmd.Flags().Bool("dry-run", false, "Print the replanned levers without saving them")

	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
