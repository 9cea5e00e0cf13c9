// services/goal_service.go
package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/motoventas/crm_backend/models"
)

// GoalService splits branch-wide sprint targets across the active
// salespeople and handles the end-of-sprint reset.
type GoalService struct {
	store Store
	log   *logrus.Logger
}

func NewGoalService(store Store, log *logrus.Logger) *GoalService {
	return &GoalService{store: store, log: log}
}

// Distribute overwrites every active salesperson's goals with an even split
// of the branch totals. With n salespeople the divisor is n, except that a
// lone salesperson still divides by 2 (observed branch policy, the single
// seller is never assigned the full branch target). Sales goals split
// unrounded; credit goals floor.
//
// Re-running with the same totals and the same salesperson set writes the
// same numbers. Managers are never touched.
func (g *GoalService) Distribute(ctx context.Context, totalSalesGoal decimal.Decimal, totalCreditsGoal int) ([]models.GoalUpdate, error) {
	people, err := g.store.ListSalespeople(ctx)
	if err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return nil, models.ErrNoSalespeople
	}

	divisor := len(people)
	if divisor == 1 {
		divisor = 2
	}

	perSales := totalSalesGoal.Div(decimal.NewFromInt(int64(divisor)))
	perCredits := totalCreditsGoal / divisor

	updates := make([]models.GoalUpdate, 0, len(people))
	for _, p := range people {
		updates = append(updates, models.GoalUpdate{
			UserID:      p.ID,
			SalesGoal:   models.NewMoney(perSales),
			CreditsGoal: perCredits,
		})
	}

	if err := g.store.UpdateGoals(ctx, updates); err != nil {
		return nil, &models.BatchWriteError{Op: "goal distribution", Err: err}
	}

	g.log.WithFields(logrus.Fields{
		"salespeople": len(people),
		"perSales":    perSales.String(),
		"perCredits":  perCredits,
	}).Info("sprint goals distributed")
	return updates, nil
}

// ResetSprint zeroes every salesperson's goals in one batch, run by a
// manager when closing out a sprint.
func (g *GoalService) ResetSprint(ctx context.Context) error {
	people, err := g.store.ListSalespeople(ctx)
	if err != nil {
		return err
	}
	if len(people) == 0 {
		return nil
	}

	updates := make([]models.GoalUpdate, 0, len(people))
	for _, p := range people {
		updates = append(updates, models.GoalUpdate{
			UserID:      p.ID,
			SalesGoal:   models.NewMoney(decimal.Zero),
			CreditsGoal: 0,
		})
	}
	if err := g.store.UpdateGoals(ctx, updates); err != nil {
		return &models.BatchWriteError{Op: "sprint reset", Err: err}
	}
	g.log.WithField("salespeople", len(people)).Info("sprint goals reset")
	return nil
}
