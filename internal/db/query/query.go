// Package query runs parameterized SQL through an open GORM connection and
// returns rows as column maps. It serves diagnostics and maintenance commands
// that work on tables without a model.
package query

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNoRows is returned by GetOne when nothing matched.
	ErrNoRows = errors.New("no rows in result set")
	// ErrNoValues is returned by Insert and Update without columns.
	ErrNoValues = errors.New("no values given")
	// ErrNoWhere is returned by Update and Remove without a condition.
	ErrNoWhere = errors.New("refusing to touch every row without a where clause")
	// ErrBadIdentifier is returned for table or column names that are not plain identifiers.
	ErrBadIdentifier = errors.New("invalid identifier")
)

// Row is one result row keyed by column name.
type Row map[string]any

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkIdentifiers(names ...string) error {
	for _, n := range names {
		if !identifier.MatchString(n) {
			return pkgerrors.Wrap(ErrBadIdentifier, n)
		}
	}

	return nil
}

// Query runs statement and scans every row.
func Query(ctx context.Context, db *gorm.DB, statement string, args ...any) ([]Row, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	rows, err := db.WithContext(ctx).Raw(statement, args...).Rows()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "query failed")
	}
	defer rows.Close()

	var out []Row

	for rows.Next() {
		row := Row{}
		if err := db.ScanRows(rows, &row); err != nil {
			return nil, pkgerrors.Wrap(err, "scan failed")
		}

		out = append(out, row)
	}

	return out, pkgerrors.Wrap(rows.Err(), "rows failed")
}

// GetMany is Query under the name the maintenance commands use.
func GetMany(ctx context.Context, db *gorm.DB, statement string, args ...any) ([]Row, error) {
	return Query(ctx, db, statement, args...)
}

// GetOne returns the first row or ErrNoRows.
func GetOne(ctx context.Context, db *gorm.DB, statement string, args ...any) (Row, error) {
	rows, err := Query(ctx, db, statement, args...)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	return rows[0], nil
}

// Exec runs a statement and returns the affected row count.
func Exec(ctx context.Context, db *gorm.DB, statement string, args ...any) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	res := db.WithContext(ctx).Exec(statement, args...)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(res.Error, "exec failed")
	}

	return res.RowsAffected, nil
}

func sortedColumns(values map[string]any) []string {
	cols := make([]string, 0, len(values))
	for c := range values {
		cols = append(cols, c)
	}

	sort.Strings(cols)

	return cols
}

// Insert adds one row built from values.
func Insert(ctx context.Context, db *gorm.DB, table string, values map[string]any) (int64, error) {
	if len(values) == 0 {
		return 0, ErrNoValues
	}

	cols := sortedColumns(values)
	if err := checkIdentifiers(append([]string{table}, cols...)...); err != nil {
		return 0, err
	}

	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = values[c]
	}

	statement := "INSERT INTO " + table + " (" + strings.Join(cols, ", ") +
		") VALUES (" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"

	return Exec(ctx, db, statement, args...)
}

// Update sets values on rows matching where.
func Update(ctx context.Context, db *gorm.DB, table string, values map[string]any, where string, whereArgs ...any) (int64, error) {
	if len(values) == 0 {
		return 0, ErrNoValues
	}

	if strings.TrimSpace(where) == "" {
		return 0, ErrNoWhere
	}

	cols := sortedColumns(values)
	if err := checkIdentifiers(append([]string{table}, cols...)...); err != nil {
		return 0, err
	}

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(whereArgs))

	for i, c := range cols {
		sets[i] = c + " = ?"
		args = append(args, values[c])
	}

	args = append(args, whereArgs...)

	return Exec(ctx, db, "UPDATE "+table+" SET "+strings.Join(sets, ", ")+" WHERE "+where, args...)
}

// Remove deletes rows matching where.
func Remove(ctx context.Context, db *gorm.DB, table, where string, whereArgs ...any) (int64, error) {
	if strings.TrimSpace(where) == "" {
		return 0, ErrNoWhere
	}

	if err := checkIdentifiers(table); err != nil {
		return 0, err
	}

	return Exec(ctx, db, "DELETE FROM "+table+" WHERE "+where, whereArgs...)
}
