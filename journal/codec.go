package journal

import (
	"database/sql"

	"github.com/rustyeddy/tradelog/risk"
)

// SQLite has no boolean type; flags are stored as 0/1.
func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intBool(i int64) bool {
	return i != 0
}

func resultValue(r risk.Result) any {
	if r == risk.Pending {
		return nil
	}
	return string(r)
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func idValue(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func floatValue(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func intValue(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}
