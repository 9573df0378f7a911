package journal

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestRecordEvent(t *testing.T) {
	db, mock := setupMockDB(t)
	j := New(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `run_events`").
		WithArgs("profile-1", "crashed", 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	code := 3
	j.RecordEvent(context.Background(), "profile-1", "crashed", &code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordEvent_InsertFailureIsSwallowed(t *testing.T) {
	db, mock := setupMockDB(t)
	j := New(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `run_events`").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// Must not panic or propagate the error.
	j.RecordEvent(context.Background(), "profile-1", "started", nil)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent(t *testing.T) {
	db, mock := setupMockDB(t)
	j := New(db, zap.NewNop())

	rows := sqlmock.NewRows([]string{"id", "profile_id", "event", "exit_code", "created_at"}).
		AddRow(2, "profile-1", "stopped", nil, nil).
		AddRow(1, "profile-1", "started", nil, nil)

	mock.ExpectQuery("SELECT \\* FROM `run_events` WHERE profile_id = \\?").
		WithArgs("profile-1", 2).
		WillReturnRows(rows)

	events, err := j.Recent(context.Background(), "profile-1", 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "stopped", events[0].Event)
	assert.Equal(t, "started", events[1].Event)
	assert.NoError(t, mock.ExpectationsWereMet())
}
