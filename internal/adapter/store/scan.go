package store

import (
	"time"

	"github.com/logicmart/analytics/internal/core/domain"
)

// Cell coercion for values coming out of dynamic result tables. The driver
// surfaces SERIAL columns as int32 and BIGSERIAL as int64; the helpers accept
// any integer width so callers do not depend on column declarations.

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int:
		return int64(n), true
	}
	return 0, false
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

func int64At(t domain.Table, row int, column string) int64 {
	v, _ := t.Value(row, column)
	n, _ := asInt64(v)
	return n
}

func stringAt(t domain.Table, row int, column string) string {
	v, _ := t.Value(row, column)
	s, _ := asString(v)
	return s
}

func timeAt(t domain.Table, row int, column string) time.Time {
	v, _ := t.Value(row, column)
	tm, _ := asTime(v)
	return tm
}
