package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/streameasy/internal/model"
)

func TestServiceListAllAcceptsEverySortType(t *testing.T) {
	for _, sort := range model.SortTypes {
		db, mock := newMockDB(t)
		repo := NewServiceRepository(db)

		mock.ExpectQuery("get_subscription_metrics").
			WithArgs(string(sort)).
			WillReturnRows(serviceRows())

		services, err := repo.ListAll(context.Background(), sort)
		require.NoError(t, err)
		require.Len(t, services, 2)
		assert.Equal(t, "Netflix", services[0].ServiceName)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestServiceListAllRejectsInvalidSortWithoutQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewServiceRepository(db)

	// 没有设置任何期望：非法排序不允许触库
	_, err := repo.ListAll(context.Background(), model.SortType("sideways"))
	assert.True(t, errors.Is(err, model.ErrInvalidSortType))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceAddRechecksExistence(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewServiceRepository(db)

	mock.ExpectExec("CALL add_new_service").
		WithArgs("alice", "Netflix").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("check_subscription_status").
		WithArgs("alice", "Netflix").
		WillReturnRows(boolRows(true))

	added, err := repo.Add(context.Background(), "alice", "Netflix")
	require.NoError(t, err)
	assert.True(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceAddReportsFailureWhenRecheckNegative(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewServiceRepository(db)

	mock.ExpectExec("CALL add_new_service").
		WithArgs("alice", "Netflix").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("check_subscription_status").
		WithArgs("alice", "Netflix").
		WillReturnRows(boolRows(false))

	added, err := repo.Add(context.Background(), "alice", "Netflix")
	require.NoError(t, err)
	assert.False(t, added)
}

func TestServiceRemoveSucceedsWhenRecordGone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewServiceRepository(db)

	mock.ExpectExec("CALL remove_service").
		WithArgs("alice", "Netflix").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("check_subscription_status").
		WithArgs("alice", "Netflix").
		WillReturnRows(boolRows(false))

	removed, err := repo.Remove(context.Background(), "alice", "Netflix")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRecommendationsDeduplicatesAcrossServices(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewServiceRepository(db)

	mock.ExpectQuery("get_user_service_ids").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"service_id"}).AddRow(1).AddRow(2))

	// 两个服务都推荐了 content_id=11，结果里只应出现一次
	mock.ExpectQuery("get_top_recs").
		WithArgs("alice", 1).
		WillReturnRows(sqlmock.NewRows([]string{"content_id", "name", "content_type", "image", "popularity"}).
			AddRow(11, "Inception", "Movie", "/img/11.jpg", 870).
			AddRow(21, "Breaking Bad", "Tv Show", "/img/21.jpg", 950))
	mock.ExpectQuery("get_top_recs").
		WithArgs("alice", 2).
		WillReturnRows(sqlmock.NewRows([]string{"content_id", "name", "content_type", "image", "popularity"}).
			AddRow(11, "Inception", "Movie", "/img/11.jpg", 870).
			AddRow(31, "Chernobyl", "Tv Show", "/img/31.jpg", 880))

	recs, err := repo.Recommendations(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, 11, recs[0].ContentID)
	assert.Equal(t, 21, recs[1].ContentID)
	assert.Equal(t, 31, recs[2].ContentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceTotalMonthlyCost(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewServiceRepository(db)

	mock.ExpectQuery("getTotalCost").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"total_monthly_cost"}).AddRow(23.98))

	total, err := repo.TotalMonthlyCost(context.Background(), "alice")
	require.NoError(t, err)
	assert.InDelta(t, 23.98, total, 0.001)
}
