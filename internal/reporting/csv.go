package reporting

import (
	"fmt"
	"strings"

	"capital-lab/internal/domain"
	"capital-lab/internal/payoff"
)

// RenderScheduleCSV renders a payoff schedule as a CSV string.
func RenderScheduleCSV(res *payoff.Result) string {
	var sb strings.Builder

	sb.WriteString("month,total_balance,interest_paid,principal_paid,total_payment\n")
	for _, rec := range res.Months {
		sb.WriteString(fmt.Sprintf("%d,%.2f,%.2f,%.2f,%.2f\n",
			rec.Month,
			rec.TotalBalance,
			rec.InterestPaid,
			rec.PrincipalPaid,
			rec.TotalPayment,
		))
	}

	return sb.String()
}

// RenderProjectionCSV renders a scenario projection as a CSV string.
func RenderProjectionCSV(p *domain.ScenarioProjection) string {
	var sb strings.Builder

	sb.WriteString("month,income,expenses,debt_payment,cashflow,liquid_net_worth,total_balance\n")
	for _, m := range p.Months {
		sb.WriteString(fmt.Sprintf("%d,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f\n",
			m.Month,
			m.Income,
			m.Expenses,
			m.DebtPayment,
			m.Cashflow,
			m.LiquidNetWorth,
			m.TotalBalance,
		))
	}

	return sb.String()
}
