package model

// GoalType distinguishes one-off goals from recurring sinking funds.
type GoalType string

const (
	// GoalTypeGoal is a one-off savings target.
	GoalTypeGoal GoalType = "goal"
	// GoalTypeSinkingFund is a fund that is refilled for a recurring expense.
	GoalTypeSinkingFund GoalType = "sinking_fund"
)

// Goal is a savings target. Its current amount is never stored; see GoalStatus.
type Goal struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         GoalType `json:"type"`
	TargetAmount float64  `json:"targetAmount"`
}

// GoalStatus is a goal together with the amount saved towards it.
type GoalStatus struct {
	Goal
	CurrentAmount float64 `json:"currentAmount"`
}

// Progress returns the saved share of the target in percent.
func (g GoalStatus) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return g.CurrentAmount / g.TargetAmount * 100
}

// Reached reports whether the target has been met.
func (g GoalStatus) Reached() bool {
	return g.TargetAmount > 0 && g.CurrentAmount >= g.TargetAmount
}
