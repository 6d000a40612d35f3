package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics counts ledger activity. All methods are nil-safe so wiring
// metrics stays optional in tests and one-off commands.
type LedgerMetrics struct {
	transactionsPosted   *prometheus.CounterVec
	transactionsReversed prometheus.Counter
	debtPayments         prometheus.Counter
	stockMovements       *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	posted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transactions_posted_total",
		Help: "Transactions posted, by type.",
	}, []string{"type"})
	reversed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_transactions_reversed_total",
		Help: "Transactions deleted with their balance effect reversed.",
	})
	debtPayments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_debt_payments_total",
		Help: "Payments applied against debts.",
	})
	stockMovements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_stock_movements_total",
		Help: "Stock mutations recorded, by type.",
	}, []string{"type"})
	reg.MustRegister(posted, reversed, debtPayments, stockMovements)
	return &LedgerMetrics{
		transactionsPosted:   posted,
		transactionsReversed: reversed,
		debtPayments:         debtPayments,
		stockMovements:       stockMovements,
	}
}

// IncTransactionPosted counts a posted transaction of the given type.
func (m *LedgerMetrics) IncTransactionPosted(transactionType string) {
	if m == nil || m.transactionsPosted == nil {
		return
	}
	m.transactionsPosted.WithLabelValues(normalizeLabel(transactionType)).Inc()
}

// IncTransactionReversed counts a deleted transaction.
func (m *LedgerMetrics) IncTransactionReversed() {
	if m == nil || m.transactionsReversed == nil {
		return
	}
	m.transactionsReversed.Inc()
}

// IncDebtPayment counts a payment applied to a debt.
func (m *LedgerMetrics) IncDebtPayment() {
	if m == nil || m.debtPayments == nil {
		return
	}
	m.debtPayments.Inc()
}

// IncStockMovement counts a recorded stock mutation of the given type.
func (m *LedgerMetrics) IncStockMovement(mutationType string) {
	if m == nil || m.stockMovements == nil {
		return
	}
	m.stockMovements.WithLabelValues(normalizeLabel(mutationType)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
