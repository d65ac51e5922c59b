package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// connTarget is one entry under the "databases" list in
// db-evolve.yaml. Exactly one entry may be marked active.
type connTarget struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

// resolveConnection decides what to connect to. The --dsn and --driver
// flags (bound to database.dsn and database.driver) take precedence;
// otherwise the active entry of the databases list is used. A missing
// driver is sniffed from the DSN shape.
func resolveConnection() (dsn, driver string, err error) {
	dsn = viper.GetString("database.dsn")
	driver = viper.GetString("database.driver")

	if dsn == "" {
		target, err := activeTarget()
		if err != nil {
			return "", "", err
		}
		dsn = target.DSN
		if driver == "" {
			driver = target.Driver
		}
	}
	if dsn == "" {
		return "", "", fmt.Errorf("database.dsn is required (via flag or config)")
	}
	if driver == "" {
		driver = sniffDriver(dsn)
	}
	return dsn, driver, nil
}

func activeTarget() (*connTarget, error) {
	var targets []connTarget
	if err := viper.UnmarshalKey("databases", &targets); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var active *connTarget
	for i := range targets {
		if !targets[i].Active {
			continue
		}
		if active != nil {
			return nil, fmt.Errorf("databases %q and %q are both active, mark only one", active.Name, targets[i].Name)
		}
		active = &targets[i]
	}
	if active == nil {
		return nil, fmt.Errorf("no active database in config (set active: true on one entry)")
	}
	return active, nil
}

// sniffDriver guesses the driver when neither flag nor config names one.
func sniffDriver(dsn string) string {
	switch {
	case strings.Contains(dsn, "postgres") || strings.Contains(dsn, "sslmode"):
		return "postgres"
	case strings.Contains(dsn, "sqlserver"):
		return "sqlserver"
	case strings.Contains(dsn, "oracle"):
		return "oracle"
	default:
		return "mysql"
	}
}

// driverName maps our dialect names onto the registered sql drivers.
func driverName(driver string) string {
	switch driver {
	case "mssql":
		return "sqlserver"
	default:
		return driver
	}
}
