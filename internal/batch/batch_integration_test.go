package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/casenotify/casenotify/internal/schema"
)

func integrationWriter(t *testing.T) (*Writer, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("CASENOTIFY_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CASENOTIFY_TEST_DATABASE_URL not set; skipping integration test")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	log := zerolog.Nop()
	p := schema.NewProvisioner(pool, &log)
	ctx := context.Background()
	if err := p.DropTable(ctx, schema.TableRequests); err != nil {
		t.Fatalf("dropping requests: %v", err)
	}
	if _, err := p.CreateTable(ctx, schema.TableRequests); err != nil {
		t.Fatalf("creating requests: %v", err)
	}

	return NewWriter(pool, &log), pool
}

func requestRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{"case_id": fmt.Sprintf("C%04d", i), "phone": "+15551230000"}
	}
	return rows
}

func countRequests(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(context.Background(), `SELECT count(*) FROM "requests"`).Scan(&n); err != nil {
		t.Fatalf("counting requests: %v", err)
	}
	return n
}

func TestInsertIntegration(t *testing.T) {
	w, pool := integrationWriter(t)
	ctx := context.Background()

	if err := w.Insert(ctx, "requests", requestRows(5), 2); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if got := countRequests(t, pool); got != 5 {
		t.Fatalf("requests row count = %d, want 5", got)
	}
}

func TestInsertAtomicityIntegration(t *testing.T) {
	w, pool := integrationWriter(t)
	ctx := context.Background()

	// The third row violates the NOT NULL constraint on phone. Its
	// chunk fails and the whole batch must roll back, including the
	// first chunk that already executed.
	rows := requestRows(5)
	rows[2]["phone"] = nil

	err := w.Insert(ctx, "requests", rows, 2)
	var txErr *TransactionError
	if !errors.As(err, &txErr) {
		t.Fatalf("Insert error = %T (%v), want *TransactionError", err, err)
	}

	if got := countRequests(t, pool); got != 0 {
		t.Fatalf("requests row count = %d after rollback, want 0", got)
	}
}

func TestInsertEmptyIntegration(t *testing.T) {
	w, pool := integrationWriter(t)

	if err := w.Insert(context.Background(), "requests", nil, 10); err != nil {
		t.Fatalf("Insert of empty batch returned error: %v", err)
	}
	if got := countRequests(t, pool); got != 0 {
		t.Fatalf("requests row count = %d, want 0", got)
	}
}
