package planrepo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dagframe/dagframe/pkg/compression"
	"github.com/dagframe/dagframe/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB wires a sqlmock-backed *sql.DB into a *gorm.DB via the mysql
// dialector's Conn option, the same pattern the teacher uses for
// internal/repository's raw-SQL repositories, adapted here since GORM's own
// dialectors don't accept a pre-opened connection directly.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestPlanCacheRepository_Get_Miss(t *testing.T) {
	db, mock := setupMockDB(t)
	clock := utils.NewMockClock(time.Unix(1000, 0))
	repo := NewGormPlanCacheRepository(db, compression.Default(), clock)

	mock.ExpectQuery("SELECT \\* FROM `plan_cache`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "payload", "compressed", "created_at", "expires_at"}))

	payload, ok, err := repo.Get(context.Background(), "missing-token")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, payload)
}

func TestPlanCacheRepository_Get_HitRoundTripsCompression(t *testing.T) {
	db, mock := setupMockDB(t)
	clock := utils.NewMockClock(time.Unix(1000, 0))
	compressor := compression.Default()
	repo := NewGormPlanCacheRepository(db, compressor, clock)

	raw := []byte(`{"fragment":"join-a-b"}`)
	compressed, err := compressor.Compress(raw)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "token", "payload", "compressed", "created_at", "expires_at"}).
		AddRow(int64(1), "tok-1", compressed, true, time.Unix(900, 0), time.Unix(2000, 0))
	mock.ExpectQuery("SELECT \\* FROM `plan_cache`").WillReturnRows(rows)

	payload, ok, err := repo.Get(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, raw, payload)
}

func TestPlanCacheRepository_Get_ExpiredEntryIsMiss(t *testing.T) {
	db, mock := setupMockDB(t)
	clock := utils.NewMockClock(time.Unix(5000, 0))
	repo := NewGormPlanCacheRepository(db, compression.Default(), clock)

	rows := sqlmock.NewRows([]string{"id", "token", "payload", "compressed", "created_at", "expires_at"}).
		AddRow(int64(1), "tok-stale", []byte("x"), false, time.Unix(900, 0), time.Unix(1000, 0))
	mock.ExpectQuery("SELECT \\* FROM `plan_cache`").WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `plan_cache`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payload, ok, err := repo.Get(context.Background(), "tok-stale")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, payload)
}

func TestPlanCacheRepository_Put_UpsertsCompressedPayload(t *testing.T) {
	db, mock := setupMockDB(t)
	clock := utils.NewMockClock(time.Unix(1000, 0))
	repo := NewGormPlanCacheRepository(db, compression.Default(), clock)

	mock.ExpectQuery("SELECT \\* FROM `plan_cache`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "payload", "compressed", "created_at", "expires_at"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `plan_cache`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Put(context.Background(), "tok-new", []byte(`{"fragment":"concat-x"}`), time.Hour)
	require.NoError(t, err)
}

func TestPlanCacheRepository_Purge_ReportsRowsRemoved(t *testing.T) {
	db, mock := setupMockDB(t)
	clock := utils.NewMockClock(time.Unix(5000, 0))
	repo := NewGormPlanCacheRepository(db, compression.Default(), clock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `plan_cache`").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := repo.Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
