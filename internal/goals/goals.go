package goals

import (
	"fmt"
	"math"
	"time"
)

// Goal is a user-declared savings target
type Goal struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	TargetAmount        float64 `json:"targetAmount"`
	SavedAmount         float64 `json:"savedAmount"`
	MonthlyContribution float64 `json:"monthlyContribution"`
	Deadline            string  `json:"deadline,omitempty"` // ISO-8601 date
}

// Validate checks the goal edit boundary
func (g *Goal) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("goal id is required")
	}
	if g.Name == "" {
		return fmt.Errorf("goal name is required")
	}
	if g.TargetAmount <= 0 {
		return fmt.Errorf("goal target amount must be positive")
	}
	return nil
}

// ShoppingPlan is a single planned purchase being saved toward
type ShoppingPlan struct {
	Item  string  `json:"item"`
	Price float64 `json:"price"`
	Saved float64 `json:"saved"`
}

// Projection is the widget view of how a goal is tracking.
type Projection struct {
	Progress       float64 `json:"progress"` // 0..100
	MonthsToTarget int     `json:"monthsToTarget"`
	CompletionDate string  `json:"completionDate,omitempty"`
	OnTrack        *bool   `json:"onTrack,omitempty"` // nil without a deadline
}

// Project computes the goal projection as of now. With no monthly
// contribution and an unmet target, MonthsToTarget is -1 (never).
func (g *Goal) Project(now time.Time) Projection {
	p := Projection{MonthsToTarget: -1}

	if g.TargetAmount > 0 {
		p.Progress = math.Min(g.SavedAmount/g.TargetAmount*100, 100)
	}

	shortfall := g.TargetAmount - g.SavedAmount
	if shortfall <= 0 {
		p.MonthsToTarget = 0
	} else if g.MonthlyContribution > 0 {
		p.MonthsToTarget = int(math.Ceil(shortfall / g.MonthlyContribution))
	}

	if p.MonthsToTarget >= 0 {
		done := now.AddDate(0, p.MonthsToTarget, 0)
		p.CompletionDate = done.Format("2006-01-02")

		if g.Deadline != "" {
			if deadline, err := time.Parse("2006-01-02", g.Deadline); err == nil {
				onTrack := !done.After(deadline)
				p.OnTrack = &onTrack
			}
		}
	}

	return p
}

// Project computes how many months of saving remain for a planned purchase,
// given a monthly amount set aside for it.
func (s *ShoppingPlan) Project(monthlySetAside float64, now time.Time) Projection {
	g := Goal{ID: "shopping", Name: s.Item, TargetAmount: s.Price, SavedAmount: s.Saved, MonthlyContribution: monthlySetAside}
	if s.Price <= 0 {
		return Projection{MonthsToTarget: 0, Progress: 100}
	}
	return g.Project(now)
}
