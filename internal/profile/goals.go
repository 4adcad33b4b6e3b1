package profile

// Goal category tags, in tie-break order.
const (
	GoalHealth   = "health"
	GoalSocial   = "social"
	GoalCreative = "creative"
	GoalWealth   = "wealth"
)

// TopGoalTag returns the goal category with the highest weight. Ties go to
// the earlier category in health, social, creative, wealth order. ok is false
// when every weight is zero or negative.
func TopGoalTag(p Profile) (tag string, ok bool) {
	g := p.MonthlyGoals
	ranked := []struct {
		tag    string
		weight int
	}{
		{GoalHealth, g.Health},
		{GoalSocial, g.Social},
		{GoalCreative, g.Creative},
		{GoalWealth, g.Wealth},
	}
	best := ranked[0]
	for _, r := range ranked[1:] {
		if r.weight > best.weight {
			best = r
		}
	}
	if best.weight <= 0 {
		return "", false
	}
	return best.tag, true
}
