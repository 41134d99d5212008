package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB 在 sqlmock 连接上构建 gorm 句柄，和网关的接法一致
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func serviceRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"service_id", "service_name", "price", "popularity"}).
		AddRow(1, "Netflix", 15.99, 900).
		AddRow(2, "Hulu", 7.99, 640)
}

func contentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"content_id", "name", "content_type", "image", "popularity"}).
		AddRow(11, "Inception", "Movie", "/img/11.jpg", 870).
		AddRow(12, "Dark", "Tv Show", "/img/12.jpg", 720)
}

func boolRows(v bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"result"}).AddRow(v)
}
