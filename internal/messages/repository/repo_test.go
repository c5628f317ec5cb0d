package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/messages/domain"
)

func setupRepo(t *testing.T) (*MessageRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewMessageRepository(db), mock, db
}

var msgCols = []string{"id", "sender_id", "receiver_id", "content", "read", "created_at"}

func TestCreate(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO messages`).
		WithArgs(sqlmock.AnyArg(), "alice", "bob", "hi").
		WillReturnRows(sqlmock.NewRows([]string{"read", "created_at"}).AddRow(false, now))

	m := &domain.Message{SenderID: "alice", ReceiverID: "bob", Content: "hi"}
	require.NoError(t, repo.Create(context.Background(), m))
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, now, m.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationReturnsOldestFirst(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	before := t0.Add(time.Hour)
	mock.ExpectQuery(`AND created_at < \$3 ORDER BY created_at DESC, id DESC LIMIT \$4`).
		WithArgs("alice", "bob", before, 2).
		WillReturnRows(sqlmock.NewRows(msgCols).
			AddRow("m2", "bob", "alice", "second", false, t0.Add(time.Minute)).
			AddRow("m1", "alice", "bob", "first", true, t0))

	page, err := repo.Conversation(context.Background(), "alice", "bob", &before, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "m1", page[0].ID)
	assert.Equal(t, "m2", page[1].ID)

	mock.ExpectQuery(`receiver_id = \$1\)\) ORDER BY created_at DESC, id DESC LIMIT \$3`).
		WithArgs("alice", "bob", 50).
		WillReturnRows(sqlmock.NewRows(msgCols))
	page, err = repo.Conversation(context.Background(), "alice", "bob", nil, 50)
	require.NoError(t, err)
	assert.Empty(t, page)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConversations(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT DISTINCT ON \(other\)`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(append([]string{"other", "name"}, msgCols...)).
			AddRow("bob", "Bob", "m1", "bob", "alice", "old", false, t0).
			AddRow("carol", "carol@x.io", "m5", "alice", "carol", "new", false, t0.Add(time.Hour)))
	mock.ExpectQuery(`GROUP BY sender_id`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"sender_id", "count"}).AddRow("bob", 3))

	convs, err := repo.Conversations(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "carol", convs[0].UserID, "most recent first")
	assert.Equal(t, 0, convs[0].UnreadCount)
	assert.Equal(t, "Bob", convs[1].UserName)
	assert.Equal(t, 3, convs[1].UnreadCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE messages SET read = true`).
		WithArgs("alice", "bob").WillReturnResult(sqlmock.NewResult(0, 4))
	n, err := repo.MarkRead(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUnknownUser(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO messages`).
		WithArgs(sqlmock.AnyArg(), "ghost", "bob", "hi").
		WillReturnError(&pq.Error{Code: "23503"})

	m := &domain.Message{SenderID: "ghost", ReceiverID: "bob", Content: "hi"}
	err := repo.Create(context.Background(), m)
	var vErr *apperr.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "sender_id", vErr.Field)
	require.NoError(t, mock.ExpectationsWereMet())
}
