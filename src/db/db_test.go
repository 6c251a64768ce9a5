package db

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestMockDBServesStatements(t *testing.T) {
	gormDB, mock := NewMockDB()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT CURRENT_DATABASE()`)).
		WillReturnRows(sqlmock.NewRows([]string{"current_database"}).AddRow("testdb"))

	assert.Equal(t, "testdb", gormDB.Migrator().CurrentDatabase())
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestGetMockDBSwapsSingleton(t *testing.T) {
	gormDB, _ := GetMockDB()

	assert.Same(t, gormDB, GetDb())
}
