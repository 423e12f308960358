package repositories

import "github.com/jackc/pgx/v5/pgtype"

// Scan targets for aggregate columns. SQL NULL becomes the zero value, so
// analytics records never carry a missing count, rate or score.
// Use them by converting a field address: (*zeroFloat)(&rec.FailRatePct).

// zeroFloat implements pgtype.Float64Scanner for NUMERIC and float columns.
type zeroFloat float64

func (z *zeroFloat) ScanFloat64(v pgtype.Float8) error {
	if !v.Valid {
		*z = 0
		return nil
	}
	*z = zeroFloat(v.Float64)
	return nil
}

// zeroInt implements pgtype.Int64Scanner for COUNT/SUM columns.
type zeroInt int64

func (z *zeroInt) ScanInt64(v pgtype.Int8) error {
	if !v.Valid {
		*z = 0
		return nil
	}
	*z = zeroInt(v.Int64)
	return nil
}

// emptyText implements pgtype.TextScanner; NULL becomes "".
type emptyText string

func (e *emptyText) ScanText(v pgtype.Text) error {
	if !v.Valid {
		*e = ""
		return nil
	}
	*e = emptyText(v.String)
	return nil
}

var (
	_ pgtype.Float64Scanner = (*zeroFloat)(nil)
	_ pgtype.Int64Scanner   = (*zeroInt)(nil)
	_ pgtype.TextScanner    = (*emptyText)(nil)
)
