package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLedgerMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.IncTransactionPosted("income")
	m.IncTransactionPosted("income")
	m.IncTransactionPosted("expense")
	m.IncTransactionReversed()
	m.IncDebtPayment()
	m.IncStockMovement("in")
	m.IncStockMovement("")

	if got := testutil.ToFloat64(m.transactionsPosted.WithLabelValues("income")); got != 2 {
		t.Fatalf("expected 2 income postings, got %v", got)
	}
	if got := testutil.ToFloat64(m.transactionsPosted.WithLabelValues("expense")); got != 1 {
		t.Fatalf("expected 1 expense posting, got %v", got)
	}
	if got := testutil.ToFloat64(m.transactionsReversed); got != 1 {
		t.Fatalf("expected 1 reversal, got %v", got)
	}
	if got := testutil.ToFloat64(m.stockMovements.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected empty label to normalize to unknown, got %v", got)
	}
}

func TestLedgerMetricsNilSafe(t *testing.T) {
	var m *LedgerMetrics
	m.IncTransactionPosted("income")
	m.IncTransactionReversed()
	m.IncDebtPayment()
	m.IncStockMovement("out")

	unregistered := NewLedgerMetrics(nil)
	unregistered.IncTransactionPosted("income")
}
