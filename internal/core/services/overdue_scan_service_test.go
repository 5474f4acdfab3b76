package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/adapters/events"
	"library-api/internal/core/services"
	"library-api/internal/pkg/dateonly"
)

func Test_OverdueScan_PublishesOverdueLoans(t *testing.T) {
	env := newTestEnv(t)
	member := env.newMember(t, "m1@example.com")
	b1 := env.newBook(t, "B1")
	b2 := env.newBook(t, "B2")
	due := dateonly.MustParse("2024-01-05")
	late, err := env.loans.Borrow(env.ctx, &services.BorrowInput{BookID: b1.ID, MemberID: member.ID, DueDate: &due})
	require.NoError(t, err)
	_, err = env.borrow(b2.ID, member.ID)
	require.NoError(t, err)
	env.clock.Set(dateonly.MustParse("2024-01-07"))

	scanPublisher := &recordingPublisher{}
	scan, err := services.NewOverdueScanService(env.loans, scanPublisher, "", time.UTC)
	require.NoError(t, err)

	count, err := scan.Scan(env.ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, scanPublisher.events, 1)
	assert.Equal(t, events.LoanOverdue, scanPublisher.events[0].Type)
	assert.Equal(t, late.ID, scanPublisher.events[0].Data.LoanID)
	assert.Equal(t, 2, scanPublisher.events[0].Data.DaysOverdue)

	stillActive, err := env.loans.GetByID(env.ctx, late.ID)
	require.NoError(t, err)
	assert.False(t, stillActive.Returned)
}

func Test_OverdueScan_InvalidSchedule(t *testing.T) {
	env := newTestEnv(t)

	_, err := services.NewOverdueScanService(env.loans, nil, "every day", time.UTC)

	assert.Error(t, err)
}

func Test_OverdueScan_StartStop(t *testing.T) {
	env := newTestEnv(t)
	scan, err := services.NewOverdueScanService(env.loans, nil, services.DefaultOverdueScanSchedule, nil)
	require.NoError(t, err)

	scan.Start()
	scan.Stop()
}
