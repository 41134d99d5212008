package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillingBillReturnsLines(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingRepository(db)

	mock.ExpectQuery("generateBill").
		WithArgs(3, 2026, "alice").
		WillReturnRows(sqlmock.NewRows([]string{"service_name", "cost"}).
			AddRow("Netflix", 15.99).
			AddRow("Hulu", 7.99))

	lines, err := repo.Bill(context.Background(), 3, 2026, "alice")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Netflix", lines[0].ServiceName)
}

func TestBillingBillEmptyMonthIsNoData(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingRepository(db)

	mock.ExpectQuery("generateBill").
		WithArgs(1, 1999, "alice").
		WillReturnRows(sqlmock.NewRows([]string{"service_name", "cost"}))

	_, err := repo.Bill(context.Background(), 1, 1999, "alice")
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestBillingTotalEmptyMonthIsNoData(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingRepository(db)

	mock.ExpectQuery("generateTotal").
		WithArgs(1, 1999, "alice").
		WillReturnRows(sqlmock.NewRows([]string{"total"}))

	_, err := repo.Total(context.Background(), 1, 1999, "alice")
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestBillingTotal(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingRepository(db)

	mock.ExpectQuery("generateTotal").
		WithArgs(3, 2026, "alice").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(23.98))

	total, err := repo.Total(context.Background(), 3, 2026, "alice")
	require.NoError(t, err)
	assert.InDelta(t, 23.98, total, 0.001)
}

func TestBillingMostViewedEmptyMonthIsNoData(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingRepository(db)

	mock.ExpectQuery("getMostViewed").
		WithArgs(1, 1999, "alice").
		WillReturnRows(sqlmock.NewRows([]string{"name", "image", "time_spent", "cost"}))

	_, err := repo.MostViewed(context.Background(), 1, 1999, "alice")
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestBillingMostBilled(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingRepository(db)

	mock.ExpectQuery("getMostBilled").
		WithArgs(3, 2026, "alice").
		WillReturnRows(sqlmock.NewRows([]string{"name", "image", "time_spent", "cost"}).
			AddRow("流浪地球", "wandering.jpg", 420, 9.99))

	entry, err := repo.MostBilled(context.Background(), 3, 2026, "alice")
	require.NoError(t, err)
	assert.Equal(t, "流浪地球", entry.Name)
	assert.InDelta(t, 9.99, entry.Cost, 0.001)
}
