package sqlstore

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func seedUser(t *testing.T, s *UserStore, id string) *domain.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	u := &domain.User{
		ID:           id,
		Name:         "User " + id,
		Username:     id,
		Email:        id + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Create(context.Background(), u))
	return u
}

func testBook(id, title, owner, isbn string) *domain.Book {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Book{
		ID:            id,
		Title:         title,
		Author:        "Author",
		Genre:         "Genre",
		Description:   "Description",
		DatePublished: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		ISBN:          isbn,
		OwnerID:       owner,
		TradeStatus:   domain.BookAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func testTrade(id, sender, receiver string) *domain.TradeRequest {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.TradeRequest{
		ID:            id,
		Status:        domain.TradeStatusPending,
		RequestedDate: now,
		UpdatedAt:     now,
		SenderID:      sender,
		ReceiverID:    receiver,
		SenderWants:   "wants-" + id,
		SenderGives:   "gives-" + id,
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("mysql", "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestUserStore(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice")

	t.Run("Get", func(t *testing.T) {
		got, err := users.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.Email, got.Email)
		assert.Equal(t, "hash", got.PasswordHash)
	})

	t.Run("GetByEmailCaseInsensitive", func(t *testing.T) {
		got, err := users.GetByEmail(ctx, "ALICE@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.ID)
	})

	t.Run("Duplicates", func(t *testing.T) {
		dup := *alice
		dup.ID = "other"
		dup.Username = "other"
		assert.ErrorIs(t, users.Create(ctx, &dup), domain.ErrUserAlreadyExists)

		dup.Email = "fresh@example.com"
		dup.Username = "ALICE"
		assert.ErrorIs(t, users.Create(ctx, &dup), domain.ErrUserAlreadyExists)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := users.Get(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.ErrorIs(t, users.Delete(ctx, "ghost"), domain.ErrNotFound)
	})

	t.Run("ListAndDelete", func(t *testing.T) {
		seedUser(t, users, "bob")
		list, err := users.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2)

		require.NoError(t, users.Delete(ctx, "bob"))
		list, err = users.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestBookStore(t *testing.T) {
	db := setupTestDB(t)
	books := NewBookStore(db)
	ctx := context.Background()

	require.NoError(t, books.Create(ctx, testBook("b1", "dune", "u1", "111")))
	require.NoError(t, books.Create(ctx, testBook("b2", "Anathem", "u1", "222")))
	require.NoError(t, books.Create(ctx, testBook("b3", "100%_Pure", "u2", "111")))

	t.Run("ListOrderedByTitle", func(t *testing.T) {
		list, err := books.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"b3", "b2", "b1"}, []string{list[0].ID, list[1].ID, list[2].ID})
	})

	t.Run("ListPrefixEscapesWildcards", func(t *testing.T) {
		list, err := books.List(ctx, "100%_")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "b3", list[0].ID)

		list, err = books.List(ctx, "%")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("GetManyKeepsOrder", func(t *testing.T) {
		list, err := books.GetMany(ctx, []string{"b2", "missing", "b1"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "b2", list[0].ID)
		assert.Equal(t, "b1", list[1].ID)
	})

	t.Run("GetByISBNEarliest", func(t *testing.T) {
		got, err := books.GetByISBN(ctx, "111")
		require.NoError(t, err)
		assert.Equal(t, "b1", got.ID)
	})

	t.Run("UpdateKeepsOwner", func(t *testing.T) {
		next := testBook("b1", "Dune Messiah", "intruder", "111")
		next.TradeStatus = domain.BookTraded
		require.NoError(t, books.Update(ctx, next))
		assert.Equal(t, "u1", next.OwnerID)

		got, err := books.Get(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", got.Title)
		assert.Equal(t, domain.BookTraded, got.TradeStatus)
		assert.Equal(t, "u1", got.OwnerID)

		assert.ErrorIs(t, books.Update(ctx, testBook("nope", "x", "u1", "1")), domain.ErrBookNotFound)
	})

	t.Run("ListByOwnerAndDelete", func(t *testing.T) {
		owned, err := books.ListByOwner(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, owned, 2)

		deleted, err := books.Delete(ctx, "b2")
		require.NoError(t, err)
		assert.Equal(t, "Anathem", deleted.Title)

		_, err = books.Get(ctx, "b2")
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
		_, err = books.Delete(ctx, "b2")
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
	})
}

func TestWishlistStore(t *testing.T) {
	db := setupTestDB(t)
	wishlists := NewWishlistStore(db)
	ctx := context.Background()

	added, err := wishlists.Add(ctx, "u1", "b1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = wishlists.Add(ctx, "u1", "b1")
	require.NoError(t, err)
	assert.False(t, added)

	_, _ = wishlists.Add(ctx, "u1", "b2")
	ids, err := wishlists.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2"}, ids)

	removed, err := wishlists.Remove(ctx, "u1", "b1")
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, wishlists.DeleteUser(ctx, "u1"))
	ids, err = wishlists.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTradeLedger(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db)
	ledger := NewTradeLedger(db)
	ctx := context.Background()

	seedUser(t, users, "alice")
	seedUser(t, users, "bob")

	t.Run("CreateVisibleBothSides", func(t *testing.T) {
		require.NoError(t, ledger.Create(ctx, testTrade("t1", "alice", "bob")))

		sent, err := ledger.ListSent(ctx, "alice")
		require.NoError(t, err)
		received, err := ledger.ListReceived(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, sent, 1)
		require.Len(t, received, 1)
		assert.Equal(t, sent[0], received[0])
	})

	t.Run("CreateRechecksParties", func(t *testing.T) {
		err := ledger.Create(ctx, testTrade("t-ghost", "alice", "ghost"))
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = ledger.Get(ctx, "t-ghost")
		assert.ErrorIs(t, err, domain.ErrTradeRequestNotFound)
	})

	t.Run("CreateSelfTrade", func(t *testing.T) {
		require.NoError(t, ledger.Create(ctx, testTrade("t-self", "bob", "bob")))
	})

	t.Run("DuplicateIDIsStorageFailure", func(t *testing.T) {
		err := ledger.Create(ctx, testTrade("t1", "alice", "bob"))
		var se *domain.StorageError
		assert.ErrorAs(t, err, &se)
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		at := time.Now().UTC().Add(time.Minute).Truncate(time.Millisecond)
		updated, err := ledger.UpdateStatus(ctx, "t1", "bob", domain.TradeStatusAccepted, at)
		require.NoError(t, err)
		assert.Equal(t, domain.TradeStatusAccepted, updated.Status)
		assert.True(t, updated.UpdatedAt.Equal(at))

		sent, err := ledger.ListSent(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, domain.TradeStatusAccepted, sent[0].Status)
	})

	t.Run("UpdateStatusWrongReceiver", func(t *testing.T) {
		_, err := ledger.UpdateStatus(ctx, "t1", "alice", domain.TradeStatusRejected, time.Now())
		assert.ErrorIs(t, err, domain.ErrTradeRequestNotFound)

		got, err := ledger.Get(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, domain.TradeStatusAccepted, got.Status)
	})

	t.Run("CreationOrder", func(t *testing.T) {
		require.NoError(t, ledger.Create(ctx, testTrade("t2", "alice", "bob")))
		require.NoError(t, ledger.Create(ctx, testTrade("t3", "alice", "bob")))

		sent, err := ledger.ListSent(ctx, "alice")
		require.NoError(t, err)
		ids := make([]string, len(sent))
		for i, tr := range sent {
			ids[i] = tr.ID
		}
		assert.Equal(t, []string{"t1", "t2", "t3"}, ids)
	})
}

func TestWebhookStore(t *testing.T) {
	db := setupTestDB(t)
	webhooks := NewWebhookStore(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first, created, err := webhooks.Upsert(ctx, &domain.Webhook{
		WebhookID: "wh-1", UserID: "u1", Event: domain.EventTradeRequested,
		URL: "https://a.example", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.True(t, created)

	moved, created, err := webhooks.Upsert(ctx, &domain.Webhook{
		WebhookID: "wh-2", UserID: "u1", Event: domain.EventTradeRequested,
		URL: "https://b.example", CreatedAt: now, UpdatedAt: now.Add(time.Second),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.WebhookID, moved.WebhookID)
	assert.Equal(t, "https://b.example", moved.URL)

	got, err := webhooks.GetByUserEvent(ctx, "u1", domain.EventTradeRequested)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "wh-1", got.WebhookID)

	none, err := webhooks.GetByUserEvent(ctx, "u1", domain.EventTradeAccepted)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, webhooks.Delete(ctx, "wh-1"))
	assert.ErrorIs(t, webhooks.Delete(ctx, "wh-1"), domain.ErrWebhookNotFound)

	_, _, _ = webhooks.Upsert(ctx, &domain.Webhook{WebhookID: "wh-3", UserID: "u1", Event: domain.EventTradeAccepted, URL: "https://c.example"})
	require.NoError(t, webhooks.DeleteUser(ctx, "u1"))
	list, err := webhooks.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
