package domain

// ScoreComponents holds the five health sub-scores, each 0-100.
type ScoreComponents struct {
	Liquidity    float64 `json:"liquidity"`
	Leverage     float64 `json:"leverage"`
	Cashflow     float64 `json:"cashflow"`
	Momentum     float64 `json:"momentum"`
	DebtToxicity float64 `json:"debtToxicity"`
}

// FinancialHealthScore is the composite health grade of a position.
type FinancialHealthScore struct {
	Overall    int             `json:"overall"` // 0-100
	Grade      string          `json:"grade"`   // A/B/C/D/F
	Components ScoreComponents `json:"components"`
}

// ScoreConfig fixes the component weights, curve knees and grade cut
// points of the health scorer.
type ScoreConfig struct {
	Weights ScoreComponents

	// Curve knees.
	RunwayTargetMonths float64 // liquidity saturates at this runway
	SavingsRateTarget  float64 // cashflow saturates at this savings rate
	ToxicityFloorAPR   float64 // weighted APR at or below scores 100
	ToxicityCeilAPR    float64 // weighted APR at or above scores 0

	// Grade thresholds on the overall score.
	GradeA, GradeB, GradeC, GradeD int
}

// DefaultScoreConfig is the reference scoring configuration: linear
// saturating curves, cashflow and debt toxicity weighted heaviest.
var DefaultScoreConfig = ScoreConfig{
	Weights: ScoreComponents{
		Liquidity:    0.20,
		Leverage:     0.20,
		Cashflow:     0.25,
		Momentum:     0.10,
		DebtToxicity: 0.25,
	},
	RunwayTargetMonths: 12,
	SavingsRateTarget:  0.30,
	ToxicityFloorAPR:   0.05,
	ToxicityCeilAPR:    0.30,
	GradeA:             85,
	GradeB:             70,
	GradeC:             50,
	GradeD:             30,
}

// Grade maps an overall score to a letter grade using the configured
// cut points.
func (c ScoreConfig) Grade(overall int) string {
	switch {
	case overall >= c.GradeA:
		return "A"
	case overall >= c.GradeB:
		return "B"
	case overall >= c.GradeC:
		return "C"
	case overall >= c.GradeD:
		return "D"
	default:
		return "F"
	}
}

// Severity classifies an alert.
type Severity string

// Alert severity constants, most severe first.
const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
	SeverityPositive Severity = "positive"
)

// SeverityRank orders severities for sorting; lower is more severe.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	case SeverityPositive:
		return 3
	default:
		return 4
	}
}

// CapitalAlert is one severity-tagged observation about a position.
type CapitalAlert struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
	Metric   string   `json:"metric,omitempty"`
	Action   string   `json:"action,omitempty"`
}
