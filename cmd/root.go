package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	dsn        string
	driverFlag string
)

var RootCmd = &cobra.Command{
	Use:   "db-evolve",
	Short: "A relational schema evolution tool",
	Long: `db-evolve plans, generates and applies relational schema migrations.

Schemas are described in YAML definition files. The tool diffs two
definitions (or a definition against a live database), generates the
migration source for the difference, and can apply the resulting DDL
to MySQL, PostgreSQL, SQL Server or Oracle.`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-evolve.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN)")
	RootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "database driver (mysql, postgres, sqlserver, oracle)")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("database.driver", RootCmd.PersistentFlags().Lookup("driver"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("db-evolve")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// openDB connects using the resolved target and reports the driver
// name alongside the handle.
func openDB() (*sql.DB, string, error) {
	connStr, driver, err := resolveConnection()
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(driverName(driver), connStr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to connect to db: %w", err)
	}
	return db, driver, nil
}

// currentSchemaName figures out which catalog schema to introspect.
func currentSchemaName(db *sql.DB, driver string) (string, error) {
	switch driver {
	case "mysql":
		var name string
		if err := db.QueryRow("SELECT DATABASE()").Scan(&name); err != nil {
			return "", fmt.Errorf("failed to get database name: %w", err)
		}
		if name == "" {
			return "", fmt.Errorf("no database selected in DSN")
		}
		return name, nil
	case "sqlserver", "mssql":
		return "dbo", nil
	case "oracle":
		var name string
		if err := db.QueryRow("SELECT USER FROM DUAL").Scan(&name); err != nil {
			return "", fmt.Errorf("failed to get schema owner: %w", err)
		}
		return name, nil
	default:
		return "public", nil
	}
}
