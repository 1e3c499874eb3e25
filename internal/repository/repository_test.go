package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"wallboard/config"
	"wallboard/internal/model"
	"wallboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var boardCols = []string{"uuid", "name", "image_url", "storage_path", "image_width", "image_height", "owner_uuid", "created_at"}

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "postgres"), mock
}

func TestBoardRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewBoardRepository()
	createdAt := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

	board := &model.Board{
		UUID:        "board-1",
		Name:        "Cave",
		ImageURL:    "https://cdn.example.com/layouts/u/board-1.png",
		StoragePath: "layouts/u/board-1.png",
		ImageWidth:  1200,
		ImageHeight: 800,
		OwnerUUID:   "user-1",
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO boards")).
		WithArgs("board-1", "Cave", board.ImageURL, board.StoragePath, 1200, 800, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	err := repo.Create(context.Background(), db, board)

	require.NoError(t, err)
	assert.Equal(t, createdAt, board.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_GetByUUID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewBoardRepository()

	mock.ExpectQuery(regexp.QuoteMeta("FROM boards WHERE uuid = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(boardCols))

	board, err := repo.GetByUUID(context.Background(), db, "missing")

	assert.Nil(t, board)
	assert.ErrorIs(t, err, model.ErrBoardNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_ListByOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewBoardRepository()
	now := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE owner_uuid = $1 ORDER BY created_at DESC")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(boardCols).
			AddRow("new", "New", "u2", "p2", 10, 20, "user-1", now).
			AddRow("old", "Old", "u1", "p1", 30, 40, "user-1", now.Add(-time.Hour)))

	boards, err := repo.ListByOwner(context.Background(), db, "user-1")

	require.NoError(t, err)
	require.Len(t, boards, 2)
	assert.Equal(t, "new", boards[0].UUID)
	assert.Equal(t, 20, boards[0].ImageHeight)
	assert.Equal(t, "old", boards[1].UUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessCodeRepository_Create_Taken(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewAccessCodeRepository()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO access_codes")).
		WithArgs("K7P2QX", "board-1", "edit", "user-1", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), db, &model.AccessCode{
		Code:      "K7P2QX",
		BoardUUID: "board-1",
		Level:     model.AccessEdit,
		CreatedBy: "user-1",
	})

	assert.ErrorIs(t, err, model.ErrAccessCodeExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessCodeRepository_GetByCode(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewAccessCodeRepository()
	cols := []string{"code", "board_uuid", "level", "created_by", "created_at", "expires_at"}
	created := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	expires := created.Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM access_codes WHERE code = $1")).
		WithArgs("K7P2QX").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("K7P2QX", "board-1", "read", "user-1", created, expires))
	mock.ExpectQuery(regexp.QuoteMeta("FROM access_codes WHERE code = $1")).
		WithArgs("OOOOOO").
		WillReturnRows(sqlmock.NewRows(cols))

	code, err := repo.GetByCode(context.Background(), db, "K7P2QX")
	require.NoError(t, err)
	assert.Equal(t, model.AccessRead, code.Level)
	require.NotNil(t, code.ExpiresAt)
	assert.Equal(t, expires, *code.ExpiresAt)

	_, err = repo.GetByCode(context.Background(), db, "OOOOOO")
	assert.ErrorIs(t, err, model.ErrAccessCodeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrantRepository_Find_NoGrant(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewGrantRepository()

	mock.ExpectQuery(regexp.QuoteMeta("FROM board_permissions")).
		WithArgs("board-1", "user-2").
		WillReturnRows(sqlmock.NewRows([]string{"board_uuid", "user_uuid", "email", "level", "guest_code", "created_at"}))

	grant, err := repo.Find(context.Background(), db, "board-1", "user-2")

	assert.NoError(t, err)
	assert.Nil(t, grant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrantRepository_Upsert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewGrantRepository()
	createdAt := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (board_uuid, user_uuid) DO UPDATE")).
		WithArgs("board-1", "user-2", "friend@example.com", "edit", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	grant := &model.PermissionGrant{BoardUUID: "board-1", UserUUID: "user-2", Email: "friend@example.com", Level: model.AccessEdit}
	err := repo.Upsert(context.Background(), db, grant)

	require.NoError(t, err)
	assert.Equal(t, createdAt, grant.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProblemRepository_Delete_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewProblemRepository()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM problems")).
		WithArgs("board-1", "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), db, "board-1", "gone")

	assert.ErrorIs(t, err, model.ErrProblemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProblemRepository_Update_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewProblemRepository()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE problems")).
		WithArgs("board-1", "gone", "Arete", "", "V2", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"owner_uuid", "created_at", "updated_at"}))

	err := repo.Update(context.Background(), db, &model.Problem{
		UUID:      "gone",
		BoardUUID: "board-1",
		Name:      "Arete",
		Grade:     "V2",
		Holds:     model.Holds{{XRatio: 0.5, YRatio: 0.5, Type: model.HoldStart}},
	})

	assert.ErrorIs(t, err, model.ErrProblemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUser_EmailTaken(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewUserRepository()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("user-1", "climber@example.com", "hash", false).
		WillReturnError(&pq.Error{Code: "23505"})

	user, err := repo.CreateUser(context.Background(), db, &model.User{
		UUID:         "user-1",
		Email:        "climber@example.com",
		PasswordHash: "hash",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, model.ErrUserEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJWTRepository_MarkUsed_AlreadyClosed(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewJWTRepository(&config.Database{DB: db})

	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET used = TRUE")).
		WithArgs("token-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkRefreshTokenUsedByUUID(context.Background(), "token-1")

	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJWTRepository_FindByUUID_Unknown(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewJWTRepository(&config.Database{DB: db})

	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE uuid = $1")).
		WithArgs("token-1").
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "user_uuid", "token_hash", "expire_at", "used", "user_agent", "ip_address"}))

	token, err := repo.FindByUUID(context.Background(), "token-1")

	assert.Nil(t, token)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_CommitAndRollback(t *testing.T) {
	db, mock := setupMockDB(t)
	tx := repository.NewTxManager(&config.Database{DB: db})

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM board_permissions")).
		WithArgs("board-1", "user-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	exec, rollback, commit, err := tx.BeginTX(context.Background())
	require.NoError(t, err)
	require.NoError(t, repository.NewGrantRepository().Delete(context.Background(), exec, "board-1", "user-2"))
	require.NoError(t, commit())
	_ = rollback()

	_, rollback, _, err = tx.BeginTX(context.Background())
	require.NoError(t, err)
	require.NoError(t, rollback())

	assert.NoError(t, mock.ExpectationsWereMet())
}
