package journal

import (
	"database/sql"
	"fmt"
	"strings"
)

// Schema returns the CREATE statements of a migrated journal database,
// tables before indexes, without the migration bookkeeping table.
func Schema(db *sql.DB) (string, error) {
	query := `
		SELECT sql || ';'
		FROM sqlite_master
		WHERE type IN ('table', 'index')
		  AND sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		  AND tbl_name != 'schema_migrations'
		ORDER BY
		  CASE type
		    WHEN 'table' THEN 1
		    WHEN 'index' THEN 2
		  END,
		  name
	`
	rows, err := db.Query(query)
	if err != nil {
		return "", fmt.Errorf("querying schema: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", fmt.Errorf("scanning schema: %w", err)
		}
		b.WriteString(stmt)
		b.WriteString("\n\n")
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("reading schema: %w", err)
	}
	return b.String(), nil
}
