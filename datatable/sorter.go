package datatable

import (
	"cmp"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/btree"
)

// Boolean cells are bucketed under these keys rather than their own value,
// which puts every true row ahead of every false row.
const (
	trueKey  = "d"
	falseKey = "n"
)

// bucketDegree is the B-tree degree of one partition level. Buckets per level
// are few (distinct values of one column), so a small degree is enough.
const bucketDegree = 8

// keyKind ranks values of different kinds when a column mixes them.
type keyKind int

const (
	kindNull keyKind = iota
	kindBool
	kindNumber
	kindTime
	kindString
)

// sortKey is the comparable form of one cell.
type sortKey struct {
	kind  keyKind
	s     string
	i     int64
	f     float64
	exact bool // i holds the value, f is only an approximation
	t     time.Time
}

func intKey(v int64) sortKey {
	return sortKey{kind: kindNumber, i: v, f: float64(v), exact: true}
}

func floatKey(v float64) sortKey {
	return sortKey{kind: kindNumber, f: v}
}

// keyOf maps a cell to its sort key.
func keyOf(cell any) sortKey {
	switch v := cell.(type) {
	case nil:
		return sortKey{kind: kindNull}
	case Value:
		if v.IsNull {
			return sortKey{kind: kindNull}
		}
		return keyOf(v.Raw)
	case bool:
		if v {
			return sortKey{kind: kindBool, s: trueKey}
		}
		return sortKey{kind: kindBool, s: falseKey}
	case string:
		return sortKey{kind: kindString, s: v}
	case int:
		return intKey(int64(v))
	case int8:
		return intKey(int64(v))
	case int16:
		return intKey(int64(v))
	case int32:
		return intKey(int64(v))
	case int64:
		return intKey(v)
	case uint:
		return uintKey(uint64(v))
	case uint8:
		return intKey(int64(v))
	case uint16:
		return intKey(int64(v))
	case uint32:
		return intKey(int64(v))
	case uint64:
		return uintKey(v)
	case float32:
		return floatKey(float64(v))
	case float64:
		return floatKey(v)
	case time.Time:
		return sortKey{kind: kindTime, t: v}
	case fmt.Stringer:
		return sortKey{kind: kindString, s: v.String()}
	default:
		return sortKey{kind: kindString, s: fmt.Sprint(v)}
	}
}

func uintKey(v uint64) sortKey {
	if v > math.MaxInt64 {
		return floatKey(float64(v))
	}
	return intKey(int64(v))
}

func compareKeys(a, b sortKey) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case kindNull:
		return 0
	case kindNumber:
		switch {
		case a.exact && b.exact:
			return cmp.Compare(a.i, b.i)
		case a.exact:
			return compareIntFloat(a.i, b.f)
		case b.exact:
			return -compareIntFloat(b.i, a.f)
		}
		return cmp.Compare(a.f, b.f)
	case kindTime:
		return a.t.Compare(b.t)
	default:
		return strings.Compare(a.s, b.s)
	}
}

// compareIntFloat compares i with f without rounding i to a float64. NaN
// sorts below every number, as cmp.Compare orders it.
func compareIntFloat(i int64, f float64) int {
	switch {
	case math.IsNaN(f):
		return 1
	case f >= math.MaxInt64: // 2^63 and above, +Inf included
		return -1
	case f < math.MinInt64:
		return 1
	}
	fl := math.Floor(f)
	if c := cmp.Compare(i, int64(fl)); c != 0 {
		return c
	}
	if f > fl {
		return -1
	}
	return 0
}

// bucket groups the rows that share one key value at one level of the sort.
type bucket struct {
	key  sortKey
	rows []Row
}

func bucketLess(a, b *bucket) bool {
	return compareKeys(a.key, b.key) < 0
}

// partition splits rows into buckets keyed by the cell in col. Rows keep
// their input order inside a bucket.
func partition(rows []Row, col int) *btree.BTreeG[*bucket] {
	tree := btree.NewG(bucketDegree, bucketLess)
	probe := &bucket{}
	for _, row := range rows {
		probe.key = keyOf(row[col])
		if b, ok := tree.Get(probe); ok {
			b.rows = append(b.rows, row)
			continue
		}
		tree.ReplaceOrInsert(&bucket{key: probe.key, rows: []Row{row}})
	}
	return tree
}

// sortInto appends rows to out ordered by keys, refining every bucket by the
// next key until the key list runs out.
func sortInto(out, rows []Row, keys []int) []Row {
	if len(keys) == 0 || len(rows) < 2 {
		return append(out, rows...)
	}
	partition(rows, keys[0]).Ascend(func(b *bucket) bool {
		out = sortInto(out, b.rows, keys[1:])
		return true
	})
	return out
}

// SortRows returns rows ordered by sortColumns, most significant column first.
// Rows that compare equal on every key keep their input order. The input slice
// is not modified. An empty key list or an empty row set returns the rows in
// their original order.
//
// Every row must have the same length; this is not checked, and a short row
// panics with an index error.
func SortRows(rows []Row, sortColumns []int) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	if len(rows) == 0 || len(sortColumns) == 0 {
		return append(out, rows...), nil
	}

	width := len(rows[0])
	for _, col := range sortColumns {
		if col < 0 || col >= width {
			return nil, fmt.Errorf("%w: column %d with %d columns: %w",
				ErrInvalidSortColumn, col, width, ErrIndexOutOfRange)
		}
	}

	return sortInto(out, rows, sortColumns), nil
}
