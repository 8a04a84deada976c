package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ledgerTables are dumped and restored in this order so uploads can
// reference their runs.
var ledgerTables = []string{"sync_runs", "uploads"}

// ExportLedgerToTOML writes every ledger row to outputPath as a map from
// table name to rows.
func (s *Storage) ExportLedgerToTOML(ctx context.Context, outputPath string) error {
	dump := make(map[string][]map[string]any)

	for _, table := range ledgerTables {
		rows, err := s.DB.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s;", table))
		if err != nil {
			return fmt.Errorf("querying table %s: %w", table, err)
		}

		cols, err := rows.Columns()
		if err != nil {
			rows.Close()
			return fmt.Errorf("getting columns for table %s: %w", table, err)
		}

		var tableData []map[string]any
		for rows.Next() {
			values := make([]any, len(cols))
			valuePtrs := make([]any, len(cols))
			for i := range values {
				valuePtrs[i] = &values[i]
			}

			if err := rows.Scan(valuePtrs...); err != nil {
				rows.Close()
				return fmt.Errorf("scanning row in table %s: %w", table, err)
			}

			row := make(map[string]any)
			for i, col := range cols {
				switch v := values[i].(type) {
				case nil:
					// TOML has no null; absent keys restore as NULL.
				case []byte:
					row[col] = string(v)
				default:
					row[col] = v
				}
			}
			tableData = append(tableData, row)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterating table %s: %w", table, err)
		}
		rows.Close()

		dump[table] = tableData
	}

	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(dump); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}

	outputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}

// ImportLedgerFromTOML replaces the ledger contents with a dump written by
// ExportLedgerToTOML.
func (s *Storage) ImportLedgerFromTOML(ctx context.Context, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", filePath, err)
	}

	var dump map[string][]map[string]any
	if _, err := toml.Decode(string(data), &dump); err != nil {
		return fmt.Errorf("decoding TOML: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Children first when clearing, parents first when inserting.
	for i := len(ledgerTables) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s;", ledgerTables[i])); err != nil {
			return fmt.Errorf("clearing table %s: %w", ledgerTables[i], err)
		}
	}

	for _, table := range ledgerTables {
		for _, row := range dump[table] {
			var columns, placeholders []string
			var values []any
			for col, val := range row {
				columns = append(columns, col)
				placeholders = append(placeholders, "?")
				values = append(values, val)
			}
			query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
			if _, err := tx.ExecContext(ctx, query, values...); err != nil {
				return fmt.Errorf("inserting into table %s: %w", table, err)
			}
		}
	}

	return tx.Commit()
}

// DefaultExportPath is ~/.config/garmin-plan/ledger_dump.toml.
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "garmin-plan")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "ledger_dump.toml"), nil
}
