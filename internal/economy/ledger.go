// Package economy provides the course ledger: cash, transactions, and loans.
// All functions are pure. They never modify the state passed in; a changed
// ledger is always a new *State. States share transaction history arrays.
package economy

import "github.com/google/uuid"

// OverdraftLimit is the lowest balance a normal expense may leave behind.
const OverdraftLimit = -10000.0

// MaxLoans caps the number of concurrently active loans.
const MaxLoans = 3

// Category tags a transaction for reporting.
type Category string

const (
	CategoryGreenFees    Category = "green_fees"
	CategoryTips         Category = "tips"
	CategoryWages        Category = "employee_wages"
	CategoryUtilities    Category = "utilities"
	CategoryMaintenance  Category = "maintenance"
	CategorySupplies     Category = "supplies"
	CategoryEquipment    Category = "equipment"
	CategoryResearch     Category = "research"
	CategoryMarketing    Category = "marketing"
	CategoryLoanProceeds Category = "loan"
	CategoryLoanPayment  Category = "loan_payment"
	CategoryConstruction Category = "construction"
	CategoryOther        Category = "other"
)

// Transaction is one immutable ledger entry. Amount is signed: income is
// positive, expenses negative.
type Transaction struct {
	ID          string   `json:"id"`
	Amount      float64  `json:"amount"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Timestamp   int64    `json:"timestamp"` // absolute in-game minute
}

// State is the economy slot of the aggregate.
type State struct {
	Cash         float64       `json:"cash"`
	Loans        []Loan        `json:"loans"`
	Transactions []Transaction `json:"transactions"`
	TotalEarned  float64       `json:"total_earned"`
	TotalSpent   float64       `json:"total_spent"`

	tip *txTip
}

// txTip is shared by every state built on one transaction array. n is the
// length of the newest of them; only a state of that length may append in
// place.
type txTip struct{ n int }

// NewState creates a ledger with an opening balance and no history.
func NewState(startingCash float64) *State {
	return &State{Cash: startingCash}
}

// AddIncome records income. A non-positive amount returns s itself so callers
// can detect "nothing changed" by reference.
func AddIncome(s *State, amount float64, category Category, description string, timestamp int64) *State {
	if amount <= 0 {
		return s
	}
	next := *s
	next.Transactions, next.tip = s.appendTx(Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Category:    category,
		Description: description,
		Timestamp:   timestamp,
	})
	next.Cash = s.Cash + amount
	next.TotalEarned = s.TotalEarned + amount
	return &next
}

// AddExpense records an expense. Returns nil when amount <= 0, or when the
// expense is not forced and would take cash below OverdraftLimit. A nil
// return means no state change happened.
func AddExpense(s *State, amount float64, category Category, description string, timestamp int64, force bool) *State {
	if amount <= 0 {
		return nil
	}
	if !force && !CanAfford(s, amount) {
		return nil
	}
	next := *s
	next.Transactions, next.tip = s.appendTx(Transaction{
		ID:          uuid.NewString(),
		Amount:      -amount,
		Category:    category,
		Description: description,
		Timestamp:   timestamp,
	})
	next.Cash = s.Cash - amount
	next.TotalSpent = s.TotalSpent + amount
	return &next
}

// CanAfford reports whether a normal expense of amount would be accepted.
func CanAfford(s *State, amount float64) bool {
	return s.Cash-amount >= OverdraftLimit
}

// NetWorth is cash minus outstanding loan balances.
func NetWorth(s *State) float64 {
	worth := s.Cash
	for _, l := range s.Loans {
		worth -= l.Balance
	}
	return worth
}

// appendTx extends the history in place when s is the newest state on its
// array. An older state copies first, so siblings never share a tail.
func (s *State) appendTx(tx Transaction) ([]Transaction, *txTip) {
	if s.tip == nil || s.tip.n != len(s.Transactions) {
		out := make([]Transaction, len(s.Transactions), 2*len(s.Transactions)+8)
		copy(out, s.Transactions)
		out = append(out, tx)
		return out, &txTip{n: len(out)}
	}
	s.tip.n++
	return append(s.Transactions, tx), s.tip
}
