package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendguard/internal/domain"
)

func newDashboard(e *env, price string) *DashboardService {
	return NewDashboardService(e.users, e.positions, &staticPriceSource{price: d(price)})
}

func TestSnapshotAggregates(t *testing.T) {
	e := newEnv()
	user := e.seedUser(true)
	e.seedPosition(user.ID, "Loan A", "0.10", "500", "1000", "3.50")
	e.seedPosition(user.ID, "Loan B", "0.20", "0", "2000", "3.00")
	svc := newDashboard(e, "30000")

	snapshot, err := svc.Snapshot(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, snapshot.User.ID)
	assert.Len(t, snapshot.LoanPositions, 2)
	assert.Equal(t, 2, snapshot.Stats.ActiveLoanCount)

	// Wallet: 0.5*30000 + 20000 = 35000
	// Loan A: 0.10*30000 + 500 = 3500; Loan B: 0.20*30000 = 6000
	assert.True(t, d("44500").Equal(snapshot.Stats.TotalCollateral),
		"total collateral %s", snapshot.Stats.TotalCollateral)
	assert.True(t, d("3000").Equal(snapshot.Stats.TotalBorrowed))
	// 44500 / 3000 = 14.83
	assert.True(t, d("14.83").Equal(snapshot.Stats.HealthFactor),
		"health factor %s", snapshot.Stats.HealthFactor)
	assert.True(t, d("30000").Equal(snapshot.Stats.BtcPrice.Price))
}

func TestSnapshotNoDebt(t *testing.T) {
	e := newEnv()
	user := e.seedUser(true)
	svc := newDashboard(e, "30000")

	snapshot, err := svc.Snapshot(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, snapshot.Stats.ActiveLoanCount)
	assert.True(t, snapshot.Stats.TotalBorrowed.IsZero())
	// Zero debt reports a zero portfolio health factor, not a division error
	assert.True(t, snapshot.Stats.HealthFactor.IsZero())
	assert.True(t, d("35000").Equal(snapshot.Stats.TotalCollateral))
}

func TestSnapshotUnknownUser(t *testing.T) {
	e := newEnv()
	svc := newDashboard(e, "30000")

	_, err := svc.Snapshot(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRealtimePayload(t *testing.T) {
	e := newEnv()
	user := e.seedUser(true)
	e.seedPosition(user.ID, "Loan A", "0.10", "0", "1000", "3.00")
	svc := newDashboard(e, "30000")

	update, err := svc.Realtime(context.Background(), user.ID)
	require.NoError(t, err)

	assert.True(t, d("30000").Equal(update.BtcPrice.Price))
	assert.Len(t, update.LoanPositions, 1)
	assert.True(t, d("0.5").Equal(update.User.LinkedWalletBalanceBtc))
	assert.True(t, d("20000").Equal(update.User.LinkedWalletBalanceUsdt))
	assert.False(t, update.Timestamp.IsZero())
	// (35000 + 3000) / 1000 = 38.00
	assert.True(t, d("38").Equal(update.HealthFactor), "health factor %s", update.HealthFactor)
}
