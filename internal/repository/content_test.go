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

func TestContentListFavoritesRejectsInvalidSort(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewContentRepository(db)

	_, err := repo.ListFavorites(context.Background(), "alice", "newest")
	assert.True(t, errors.Is(err, model.ErrInvalidSortType))
}

func TestContentSearchMovies(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepository(db)

	mock.ExpectQuery("search_movies").
		WithArgs("地球").
		WillReturnRows(contentRows())

	movies, err := repo.SearchMovies(context.Background(), "地球")
	require.NoError(t, err)
	assert.NotEmpty(t, movies)
}

func TestContentAddFavoriteRechecksExistence(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepository(db)

	mock.ExpectExec("CALL add_new_user_favorite").
		WithArgs("alice", 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("check_favorite_status").
		WithArgs("alice", 42).
		WillReturnRows(boolRows(true))

	added, err := repo.AddFavorite(context.Background(), "alice", 42)
	require.NoError(t, err)
	assert.True(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRemoveFavoriteSucceedsWhenRecordGone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepository(db)

	mock.ExpectExec("CALL remove_user_favorite").
		WithArgs("alice", 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("check_favorite_status").
		WithArgs("alice", 42).
		WillReturnRows(boolRows(false))

	removed, err := repo.RemoveFavorite(context.Background(), "alice", 42)
	require.NoError(t, err)
	assert.True(t, removed)
}
