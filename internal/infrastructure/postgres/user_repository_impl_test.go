package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/festronix-auth/internal/domain/entity"
	"github.com/oksasatya/festronix-auth/internal/domain/repository"
)

var columns = []string{"id", "first_name", "last_name", "email", "mobile", "password_hash", "profile_image", "created_at", "updated_at"}

func newUser() *entity.User {
	return &entity.User{
		FirstName:    "Alice",
		LastName:     "Doe",
		Email:        "alice@example.com",
		Mobile:       "9876543210",
		PasswordHash: "$2a$10$hash",
	}
}

func TestUserRepository_Create(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "inserted",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("Alice", "Doe", "alice@example.com", "9876543210", "$2a$10$hash", "").
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("uuid-1", now, now))
			},
		},
		{
			name: "duplicate email",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})
			},
			wantErr: repository.ErrDuplicateEmail,
		},
		{
			name: "duplicate mobile",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_mobile_key"})
			},
			wantErr: repository.ErrDuplicateMobile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()
			tt.setupMock(mock)

			u := newUser()
			err = NewUserRepository(mock).Create(context.Background(), u)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "uuid-1", u.ID)
				assert.Equal(t, now, u.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_CreateOtherErrorIsNotDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	err = NewUserRepository(mock).Create(context.Background(), newUser())
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUserRepository_GetByEmail(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("alice@example.com").
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow("uuid-1", "Alice", "Doe", "alice@example.com", "9876543210", "$2a$10$hash", "", now, now))

		u, err := NewUserRepository(mock).GetByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "uuid-1", u.ID)
		assert.Equal(t, "Alice Doe", u.FullName())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("ghost@example.com").
			WillReturnRows(pgxmock.NewRows(columns))

		_, err = NewUserRepository(mock).GetByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestUserRepository_GetByID_DatabaseError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("uuid-1").
		WillReturnError(errors.New("connection reset"))

	_, err = NewUserRepository(mock).GetByID(context.Background(), "uuid-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_MalformedIDIsNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	badUUID := &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation, Message: `invalid input syntax for type uuid: "nope"`}
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("nope").
		WillReturnError(badUUID)
	mock.ExpectExec(`UPDATE users SET profile_image = \$1`).
		WithArgs("https://cdn.example/a.png", pgxmock.AnyArg(), "nope").
		WillReturnError(badUUID)

	repo := NewUserRepository(mock)
	_, err = repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	err = repo.UpdateProfileImage(context.Background(), "nope", "https://cdn.example/a.png")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectExec(`UPDATE users SET password_hash = \$1`).
		WithArgs("$2a$10$new", pgxmock.AnyArg(), "uuid-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE users SET password_hash = \$1`).
		WithArgs("$2a$10$new", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewUserRepository(mock)
	require.NoError(t, repo.UpdatePassword(context.Background(), "uuid-1", "$2a$10$new"))
	assert.ErrorIs(t, repo.UpdatePassword(context.Background(), "missing", "$2a$10$new"), repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateProfileImage(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectExec(`UPDATE users SET profile_image = \$1`).
		WithArgs("https://cdn.example/a.png", pgxmock.AnyArg(), "uuid-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, NewUserRepository(mock).UpdateProfileImage(context.Background(), "uuid-1", "https://cdn.example/a.png"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
