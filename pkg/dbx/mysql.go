package dbx

import (
	"context"
	"fmt"
	"sort"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/datapipes/downpipe/pkg/progress"
)

// Query runs one query over connString and returns the raw rows, each a
// column-to-value map. Byte columns are converted to strings.
func Query(ctx context.Context, connString, query string, args ...any) ([]map[string]any, error) {
	db, err := sqlx.Open("mysql", connString)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ColumnNames lists the columns of table, sorted case-insensitively.
func ColumnNames(ctx context.Context, connString, table string) ([]string, error) {
	rows, err := Query(ctx, connString,
		"SELECT COLUMN_NAME col FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_NAME = ?", table)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row["col"].(string); ok {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}

// ColumnCounts returns the top-1000 values of column in table, most frequent
// first, counting by countBy.
func ColumnCounts(ctx context.Context, connString, table, column, countBy string) ([]any, error) {
	query := fmt.Sprintf(
		"SELECT %s, COUNT(%s) FROM %s GROUP BY %s ORDER BY 2 DESC LIMIT 1000",
		column, countBy, table, column)
	rows, err := Query(ctx, connString, query)
	if err != nil {
		return nil, err
	}
	values := make([]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, row[column])
	}
	return values, nil
}

// ColumnsToCSV pivots the per-column grouped counts of table into a
// tab-delimited file at path: one output column per table column, rows padded
// with empty fields. Progress across columns is rendered while querying. A
// nil logger disables logging.
func ColumnsToCSV(ctx context.Context, connString, table, countBy, path string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	names, err := ColumnNames(ctx, connString, table)
	if err != nil {
		return err
	}
	logger.Info("pivoting columns", zap.String("table", table), zap.Strings("columns", names))

	columns := make([][]any, 0, len(names))
	err = progress.ForEach(names, func(column string) error {
		values, err := ColumnCounts(ctx, connString, table, column, countBy)
		if err != nil {
			return err
		}
		columns = append(columns, values)
		return nil
	}, progress.WithDescribe(func(column string) string { return column }))
	if err != nil {
		return err
	}

	if err := ToCSV(names, columns, path); err != nil {
		return err
	}
	logger.Info("saved pivot", zap.String("path", path))
	return nil
}
