package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// QueryTracer times every statement run through a pgx pool and feeds the
// store metrics. Install it on pgxpool.Config.ConnConfig.Tracer.
type QueryTracer struct{}

var (
	_ pgx.QueryTracer    = (*QueryTracer)(nil)
	_ pgx.CopyFromTracer = (*QueryTracer)(nil)
)

type traceKey struct{}

type traceStart struct {
	operation string
	at        time.Time
}

func (QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{operation: Operation(data.SQL), at: time.Now()})
}

func (QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	RecordDBQuery(start.operation, time.Since(start.at), data.Err)
}

func (QueryTracer) TraceCopyFromStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceCopyFromStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{
		operation: "COPY " + data.TableName.Sanitize(),
		at:        time.Now(),
	})
}

func (QueryTracer) TraceCopyFromEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceCopyFromEndData) {
	start, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	RecordDBQuery("COPY", time.Since(start.at), data.Err)
	if data.Err == nil {
		table := strings.TrimPrefix(start.operation, "COPY ")
		DBRowsCopied.WithLabelValues(table).Add(float64(data.CommandTag.RowsAffected()))
	}
}

// Operation reduces a statement to its leading keyword (SELECT, INSERT, ...).
// Anything unrecognized is "OTHER".
func Operation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "OTHER"
	}
	switch kw := strings.ToUpper(fields[0]); kw {
	case "SELECT", "INSERT", "UPDATE", "DELETE", "WITH", "TRUNCATE", "BEGIN", "COMMIT", "ROLLBACK":
		return kw
	default:
		return "OTHER"
	}
}
