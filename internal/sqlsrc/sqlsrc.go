// Package sqlsrc feeds database rows into the matching engine: every row
// becomes a structured value whose keys follow the column order of the query.
package sqlsrc

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"patma/internal/object"
)

var supportedDrivers = map[string]bool{
	"sqlite3":  true,
	"mysql":    true,
	"postgres": true,
}

type Source struct {
	db *sql.DB
}

// Open connects and pings, so a bad DSN fails here rather than on the first
// query.
func Open(driver, dsn string) (*Source, error) {
	if !supportedDrivers[driver] {
		return nil, fmt.Errorf("unsupported driver %q (want sqlite3, mysql or postgres)", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Source{db: db}, nil
}

func (s *Source) Close() error {
	return s.db.Close()
}

// Query runs query and renders each row as a map in column order.
func (s *Source) Query(query string, params ...interface{}) ([]*object.Map, error) {
	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return renderRows(rows)
}

// Exec is for fixture setup and maintenance statements.
func (s *Source) Exec(query string, params ...interface{}) (int64, error) {
	result, err := s.db.Exec(query, params...)
	if err != nil {
		return 0, fmt.Errorf("exec failed: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}

func renderRows(rows *sql.Rows) ([]*object.Map, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, _ := rows.ColumnTypes()

	var result []*object.Map
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		rowMap := object.NewMap()
		for i, col := range columns {
			// Pass column type info to help mapValue decide
			var typeName string
			if i < len(types) {
				typeName = types[i].DatabaseTypeName()
			}
			rowMap.Put(col, mapValue(values[i], typeName))
		}
		result = append(result, rowMap)
	}
	return result, rows.Err()
}

func mapValue(v interface{}, dbType string) object.Object {
	if v == nil {
		return object.NIL
	}
	switch x := v.(type) {
	case int64:
		return &object.Number{Value: float64(x)}
	case float64:
		return &object.Number{Value: x}
	case []byte:
		// Drivers hand text columns back as []byte; treat them as strings.
		return &object.String{Value: string(x)}
	case string:
		return &object.String{Value: x}
	case bool:
		return object.NativeBoolToBooleanObject(x)
	case time.Time:
		return &object.String{Value: x.Format(time.RFC3339)}
	default:
		return &object.String{Value: fmt.Sprintf("%v", v)}
	}
}
