package calculation

import (
	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/rpgo/ruin-simulator/pkg/money"
	"github.com/shopspring/decimal"
)

// YearFlows is the nominal spending and non-portfolio income for one simulated year.
type YearFlows struct {
	Year           int             `json:"year"` // 1-based
	Age            int             `json:"age"`
	Expense        decimal.Decimal `json:"expense"`
	Pension        decimal.Decimal `json:"pension"` // nominal entitlement, paid once PensionPaid is set
	PensionPaid    bool            `json:"pension_paid"`
	Benefit        decimal.Decimal `json:"benefit"`
	BenefitStarted bool            `json:"benefit_started"`
	Earned         decimal.Decimal `json:"earned"`
}

// Income is pension (when paid) + benefit + earned income.
func (f YearFlows) Income() decimal.Decimal {
	income := f.Benefit.Add(f.Earned)
	if f.PensionPaid {
		income = income.Add(f.Pension)
	}
	return income
}

// IncomeSchedule derives each year's flows from the previous year's.
// Flows do not depend on market returns, so a single projection serves every path.
type IncomeSchedule struct {
	params domain.SimulationParameters
	policy IncomePolicy
	growth decimal.Decimal
}

// NewIncomeSchedule creates a schedule; a nil policy means no earned income.
func NewIncomeSchedule(params domain.SimulationParameters, policy IncomePolicy) *IncomeSchedule {
	if policy == nil {
		policy = NoEarnedIncome
	}
	return &IncomeSchedule{
		params: params,
		policy: policy,
		growth: decimal.NewFromInt(1).Add(params.InflationRate),
	}
}

// AdvanceYear computes year's flows from prev. For year 1 prev is ignored and the
// configured starting amounts are used. From year 2 expense and pension compound by
// inflation once; a started benefit compounds too. The benefit starts at the configured
// amount in the first year age reaches BenefitStartAge and only inflates afterwards.
func (s *IncomeSchedule) AdvanceYear(prev YearFlows, age, year int) YearFlows {
	next := YearFlows{Year: year, Age: age}
	if year <= 1 {
		next.Expense = s.params.AnnualExpense
		next.Pension = s.params.AnnualPension
	} else {
		next.Expense = money.Round(prev.Expense.Mul(s.growth))
		next.Pension = money.Round(prev.Pension.Mul(s.growth))
		next.Benefit = prev.Benefit
		next.BenefitStarted = prev.BenefitStarted
		if next.BenefitStarted {
			next.Benefit = money.Round(prev.Benefit.Mul(s.growth))
		}
	}

	if !next.BenefitStarted && age >= s.params.BenefitStartAge {
		next.Benefit = s.params.AnnualBenefit
		next.BenefitStarted = true
	}
	next.PensionPaid = age >= s.params.EffectivePensionStartAge()

	next.Earned = s.policy.EarnedIncome(age)
	if next.Earned.IsNegative() {
		next.Earned = decimal.Zero
	}
	return next
}

// Project folds AdvanceYear over every simulated year. Element y-1 holds year y,
// whose age is StartAge+y-1.
func (s *IncomeSchedule) Project() []YearFlows {
	years := s.params.Years()
	flows := make([]YearFlows, 0, years)
	var prev YearFlows
	for y := 1; y <= years; y++ {
		prev = s.AdvanceYear(prev, s.params.StartAge+y-1, y)
		flows = append(flows, prev)
	}
	return flows
}
