// services/goal_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/motoventas/crm_backend/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func addSalespeople(store *fakeStore, n int) {
	for i := 0; i < n; i++ {
		store.salespeople = append(store.salespeople, models.User{
			ID:       primitive.NewObjectID(),
			Role:     models.RoleSalesperson,
			IsActive: true,
		})
	}
}

func TestDistribute_EvenSplit(t *testing.T) {
	store := newFakeStore()
	addSalespeople(store, 3)
	svc := NewGoalService(store, testLogger())

	updates, err := svc.Distribute(context.Background(), decimal.NewFromInt(300000), 9)
	if err != nil {
		t.Fatalf("Distribute error: %v", err)
	}
	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(updates))
	}
	for _, u := range updates {
		if !u.SalesGoal.Equal(decimal.NewFromInt(100000)) {
			t.Fatalf("sales goal expected 100000, got %s", u.SalesGoal.String())
		}
		if u.CreditsGoal != 3 {
			t.Fatalf("credits goal expected 3, got %d", u.CreditsGoal)
		}
	}
	for _, sp := range store.salespeople {
		if !sp.SalesGoal.Equal(decimal.NewFromInt(100000)) {
			t.Fatalf("goal not persisted, got %s", sp.SalesGoal.String())
		}
	}
}

func TestDistribute_LoneSalespersonDividesByTwo(t *testing.T) {
	store := newFakeStore()
	addSalespeople(store, 1)
	svc := NewGoalService(store, testLogger())

	updates, err := svc.Distribute(context.Background(), decimal.NewFromInt(200000), 10)
	if err != nil {
		t.Fatalf("Distribute error: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(updates))
	}
	if !updates[0].SalesGoal.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("lone salesperson goal expected 100000, got %s", updates[0].SalesGoal.String())
	}
	if updates[0].CreditsGoal != 5 {
		t.Fatalf("lone salesperson credits expected 5, got %d", updates[0].CreditsGoal)
	}
}

func TestDistribute_CreditsFloor(t *testing.T) {
	store := newFakeStore()
	addSalespeople(store, 3)
	svc := NewGoalService(store, testLogger())

	updates, err := svc.Distribute(context.Background(), decimal.NewFromInt(90000), 10)
	if err != nil {
		t.Fatalf("Distribute error: %v", err)
	}
	for _, u := range updates {
		if u.CreditsGoal != 3 {
			t.Fatalf("credits goal expected floor(10/3)=3, got %d", u.CreditsGoal)
		}
	}
}

func TestDistribute_NoSalespeople(t *testing.T) {
	store := newFakeStore()
	svc := NewGoalService(store, testLogger())

	_, err := svc.Distribute(context.Background(), decimal.NewFromInt(100000), 5)
	if !errors.Is(err, models.ErrNoSalespeople) {
		t.Fatalf("expected ErrNoSalespeople, got %v", err)
	}
}

func TestDistribute_Idempotent(t *testing.T) {
	store := newFakeStore()
	addSalespeople(store, 2)
	svc := NewGoalService(store, testLogger())

	first, err := svc.Distribute(context.Background(), decimal.NewFromInt(100000), 6)
	if err != nil {
		t.Fatalf("first Distribute error: %v", err)
	}
	second, err := svc.Distribute(context.Background(), decimal.NewFromInt(100000), 6)
	if err != nil {
		t.Fatalf("second Distribute error: %v", err)
	}
	for i := range first {
		if !first[i].SalesGoal.Equal(second[i].SalesGoal.Decimal) || first[i].CreditsGoal != second[i].CreditsGoal {
			t.Fatalf("re-run changed goals: %v vs %v", first[i], second[i])
		}
	}
}

func TestDistribute_BatchFailureWrapped(t *testing.T) {
	store := newFakeStore()
	addSalespeople(store, 2)
	store.failBatch = true
	svc := NewGoalService(store, testLogger())

	_, err := svc.Distribute(context.Background(), decimal.NewFromInt(100000), 6)
	var batchErr *models.BatchWriteError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected BatchWriteError, got %v", err)
	}
	if batchErr.Op != "goal distribution" {
		t.Fatalf("unexpected op %q", batchErr.Op)
	}
}

func TestResetSprint_ZeroesGoals(t *testing.T) {
	store := newFakeStore()
	addSalespeople(store, 2)
	for i := range store.salespeople {
		store.salespeople[i].SalesGoal = models.MoneyFromInt(50000)
		store.salespeople[i].CreditsGoal = 5
	}
	svc := NewGoalService(store, testLogger())

	if err := svc.ResetSprint(context.Background()); err != nil {
		t.Fatalf("ResetSprint error: %v", err)
	}
	for _, sp := range store.salespeople {
		if !sp.SalesGoal.IsZero() || sp.CreditsGoal != 0 {
			t.Fatalf("goals not zeroed: %s / %d", sp.SalesGoal.String(), sp.CreditsGoal)
		}
	}
}
