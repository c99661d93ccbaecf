package database

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/db/query"
)

// TableCount is the number of rows of one table.
type TableCount struct {
	Table   string `json:"table"`
	Rows    int64  `json:"rows"`
	Missing bool   `json:"missing,omitempty"`
}

// Counts returns the row count of every model table. Tables that do not
// exist yet are reported as missing.
func Counts(ctx context.Context, db *gorm.DB) ([]TableCount, error) {
	if db == nil {
		return nil, query.ErrDBNil
	}

	out := make([]TableCount, 0, len(models.All()))

	for _, m := range models.All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %T", m)
		}

		tc := TableCount{Table: stmt.Schema.Table}

		if !db.Migrator().HasTable(tc.Table) {
			tc.Missing = true
			out = append(out, tc)

			continue
		}

		row, err := query.GetOne(ctx, db, "SELECT COUNT(*) AS n FROM "+tc.Table)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to count %s", tc.Table)
		}

		if tc.Rows, err = toInt64(row["n"]); err != nil {
			return nil, errors.Wrapf(err, "failed to read count of %s", tc.Table)
		}

		out = append(out, tc)
	}

	return out, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case uint64:
		return int64(n), nil //nolint:gosec
	case float64:
		return int64(n), nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64) //nolint:wrapcheck
	case string:
		return strconv.ParseInt(n, 10, 64) //nolint:wrapcheck
	default:
		return 0, errors.Errorf("unexpected count type %T", v)
	}
}
