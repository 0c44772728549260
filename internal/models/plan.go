package models

// Plan identifies a billing tier. The engine only cares about the historical
// lookback each tier is entitled to; purchase flows live elsewhere.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanStarter Plan = "starter"
	PlanGrowth  Plan = "growth"
	PlanScale   Plan = "scale"
)

// planRetentionDays maps each plan to its maximum historical lookback in
// days. A nil value means unlimited lookback.
var planRetentionDays = map[Plan]*int{
	PlanStarter: intPtr(30),
	PlanGrowth:  intPtr(90),
	PlanScale:   nil,
}

// RetentionDays returns the plan's maximum lookback in days (nil means
// unlimited) and whether the plan is allowed to query historical stats at
// all. Free and unknown plans get the live dashboard only.
func (p Plan) RetentionDays() (maxDays *int, allowed bool) {
	if p == PlanFree {
		return nil, false
	}
	days, ok := planRetentionDays[p]
	if !ok {
		return nil, false
	}
	return days, true
}

func intPtr(v int) *int {
	return &v
}
