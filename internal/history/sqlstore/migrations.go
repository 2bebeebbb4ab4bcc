package sqlstore

import (
	"fmt"
	"strings"
)

// TableConfig configures the table names used by the store.
type TableConfig struct {
	RunsTable   string
	StagesTable string
}

// DefaultTableConfig returns the default table configuration.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		RunsTable:   "ssdtlifecycle_runs",
		StagesTable: "ssdtlifecycle_stages",
	}
}

// MigrationUp returns the SQL creating the history tables. It only uses types understood by
// sqlite3, postgres and mysql.
func MigrationUp(config TableConfig) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id VARCHAR(36) NOT NULL PRIMARY KEY,
    kind VARCHAR(32) NOT NULL,
    project VARCHAR(1024) NOT NULL,
    version VARCHAR(64) NOT NULL DEFAULT '',
    result VARCHAR(16) NOT NULL,
    started_at BIGINT NOT NULL,
    elapsed_ns BIGINT NULL
);

CREATE TABLE IF NOT EXISTS %s (
    run_id VARCHAR(36) NOT NULL REFERENCES %s(id),
    stage_position INTEGER NOT NULL,
    from_stage VARCHAR(64) NOT NULL,
    to_stage VARCHAR(64) NOT NULL,
    elapsed_ns BIGINT NOT NULL,
    PRIMARY KEY (run_id, stage_position)
);
`, config.RunsTable, config.StagesTable, config.RunsTable)
}

// MigrationDown returns the SQL dropping the history tables, stages first.
func MigrationDown(config TableConfig) string {
	return fmt.Sprintf(`DROP TABLE IF EXISTS %s;

DROP TABLE IF EXISTS %s;
`, config.StagesTable, config.RunsTable)
}

func statements(script string) []string {
	var res []string

	for _, s := range strings.Split(script, ";") {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}

	return res
}
