// internal/output/manager.go
package output

import (
	"fmt"

	"oddscrawler/internal/config"
)

// NewWriter builds the writer selected by the output configuration.
func NewWriter(cfg config.OutputConfig) (Writer, error) {
	switch cfg.Format {
	case "json", "csv":
	case "postgresql", "mysql", "mongodb":
		if cfg.Database == nil {
			return nil, fmt.Errorf("output.database is required for %s format", cfg.Format)
		}
	}

	switch cfg.Format {
	case "json":
		return NewJSONWriter(cfg.File)
	case "csv":
		return NewCSVWriter(cfg.File)
	case "postgresql":
		return NewSQLWriter("postgres", cfg.Database.ConnectionString, cfg.Database.Table)
	case "mysql":
		return NewSQLWriter("mysql", cfg.Database.ConnectionString, cfg.Database.Table)
	case "mongodb":
		return NewMongoWriter(cfg.Database.ConnectionString, cfg.Database.Database, cfg.Database.Collection)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
}
