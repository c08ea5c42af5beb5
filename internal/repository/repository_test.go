package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"glowup/internal/models"
	"glowup/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"record not found", gorm.ErrRecordNotFound, models.CodeNotFound},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, models.CodeConflict},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, models.CodeConflict},
		{"sqlite unique message", errors.New("UNIQUE constraint failed: users.email"), models.CodeConflict},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, models.CodeNotFound},
		{"pg foreign key", &pgconn.PgError{Code: "23503"}, models.CodeNotFound},
		{"anything else", errors.New("connection reset"), models.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, classify(tt.err, "User", 1), tt.code)
		})
	}

	assert.NoError(t, classify(nil, "User", 1))
	existing := models.NewValidationError("bad")
	assert.Same(t, existing, classify(existing, "User", 1))
}

func TestUserRepository_CreateConflictFromPostgres(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Username: "taken", Email: "taken@example.com"})
	assertCode(t, err, models.CodeConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByIDInternalError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(errors.New("connection refused"))

	_, err := repo.GetByID(context.Background(), 1)
	assertCode(t, err, models.CodeInternal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeRepository_CreateForeignKeyFromPostgres(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Like{UserID: 1, PostID: 99})
	assertCode(t, err, models.CodeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CRUD(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "glow", Email: "glow@example.com"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "glow", got.Username)
	assert.Nil(t, got.Bio)

	err = repo.Create(ctx, &models.User{Username: "glow", Email: "other@example.com"})
	assertCode(t, err, models.CodeConflict)
	err = repo.Create(ctx, &models.User{Username: "other", Email: "glow@example.com"})
	assertCode(t, err, models.CodeConflict)

	later := user.UpdatedAt.Add(time.Minute)
	updated, err := repo.Update(ctx, user.ID, map[string]interface{}{"bio": "new bio", "updated_at": later})
	require.NoError(t, err)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "new bio", *updated.Bio)
	assert.Equal(t, "glow", updated.Username)
	assert.True(t, updated.UpdatedAt.Equal(later))

	updated, err = repo.Update(ctx, user.ID, map[string]interface{}{"bio": nil})
	require.NoError(t, err)
	assert.Nil(t, updated.Bio)

	_, err = repo.Update(ctx, 999, map[string]interface{}{"bio": "x"})
	assertCode(t, err, models.CodeNotFound)

	_, err = repo.GetByID(ctx, 999)
	assertCode(t, err, models.CodeNotFound)

	exists, err := repo.Exists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_UpdateDuplicateUsername(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewUserRepository(db)
	first := testutil.CreateUser(t, db)
	second := testutil.CreateUser(t, db)

	_, err := repo.Update(context.Background(), second.ID, map[string]interface{}{"username": first.Username})
	assertCode(t, err, models.CodeConflict)
}
