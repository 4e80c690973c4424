// Fixed-payment loan amortization.
package economy

import (
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
)

// Loan is an amortizing loan. MonthlyPayment is fixed at creation.
type Loan struct {
	ID             string  `json:"id"`
	Principal      float64 `json:"principal"`
	Balance        float64 `json:"balance"`
	AnnualRate     float64 `json:"annual_rate"` // 0.08 = 8%
	TermMonths     int     `json:"term_months"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TakenAt        int64   `json:"taken_at"`
	PaymentsMade   int     `json:"payments_made"`
}

// CalculateMonthlyPayment returns the fixed payment that retires principal over
// termMonths at annualRate. Zero-rate loans split evenly.
func CalculateMonthlyPayment(principal, annualRate float64, termMonths int) float64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}
	r := annualRate / 12
	if r == 0 {
		return principal / float64(termMonths)
	}
	n := float64(termMonths)
	return principal * r * math.Pow(1+r, n) / (math.Pow(1+r, n) - 1)
}

// TakeLoan opens a loan and credits the principal. Returns nil for malformed
// terms or when MaxLoans loans are already active.
func TakeLoan(s *State, principal, annualRate float64, termMonths int, timestamp int64) *State {
	if principal <= 0 || termMonths <= 0 || annualRate < 0 {
		return nil
	}
	if len(s.Loans) >= MaxLoans {
		return nil
	}
	loan := Loan{
		ID:             uuid.NewString(),
		Principal:      principal,
		Balance:        principal,
		AnnualRate:     annualRate,
		TermMonths:     termMonths,
		MonthlyPayment: CalculateMonthlyPayment(principal, annualRate, termMonths),
		TakenAt:        timestamp,
	}
	next := AddIncome(s, principal, CategoryLoanProceeds, fmt.Sprintf("Loan of %s", FormatMoney(principal)), timestamp)
	out := *next
	out.Loans = append(slices.Clip(s.Loans), loan)
	return &out
}

// MakeLoanPayment pays one installment on the loan with the given id. The
// payment splits into interest (balance × monthly rate) and principal, and
// never exceeds what is owed. A loan whose balance reaches zero is removed in
// the same transaction. Returns nil if the loan is unknown or the payment is
// unaffordable.
func MakeLoanPayment(s *State, loanID string, timestamp int64) *State {
	idx := slices.IndexFunc(s.Loans, func(l Loan) bool { return l.ID == loanID })
	if idx < 0 {
		return nil
	}
	loan := s.Loans[idx]

	interest := loan.Balance * loan.AnnualRate / 12
	payment := math.Min(loan.MonthlyPayment, loan.Balance+interest)
	principalPart := payment - interest
	newBalance := loan.Balance - principalPart

	next := AddExpense(s, payment, CategoryLoanPayment,
		fmt.Sprintf("Loan payment (%s interest)", FormatMoney(interest)), timestamp, false)
	if next == nil {
		return nil
	}

	loans := slices.Clone(s.Loans)
	if newBalance <= 0.005 {
		loans = slices.Delete(loans, idx, idx+1)
	} else {
		loan.Balance = newBalance
		loan.PaymentsMade++
		loans[idx] = loan
	}
	out := *next
	out.Loans = loans
	return &out
}

// PayDueLoans makes one installment on every active loan. Loans whose payment
// is rejected are reported back by id and left untouched.
func PayDueLoans(s *State, timestamp int64) (*State, []string) {
	var missed []string
	ids := make([]string, 0, len(s.Loans))
	for _, l := range s.Loans {
		ids = append(ids, l.ID)
	}
	cur := s
	for _, id := range ids {
		next := MakeLoanPayment(cur, id, timestamp)
		if next == nil {
			missed = append(missed, id)
			continue
		}
		cur = next
	}
	return cur, missed
}
