package repositories

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/hmZa-Sfyn/custom-irc-server/domain"
)

func newTestRepository(t *testing.T) *HistoryRepository {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewHistoryRepository(db, slog.New(slog.DiscardHandler))
}

func publicMessage(from, content string, at time.Time) domain.Message {
	return domain.Message{ID: uuid.New(), From: from, Content: content, At: at}
}

func directMessage(from, to, content string, at time.Time) domain.Message {
	return domain.Message{ID: uuid.New(), From: from, To: lo.ToPtr(to), Content: content, At: at}
}

func Test_Append_And_Fetch_Public_Messages(t *testing.T) {
	req := require.New(t)
	repository := newTestRepository(t)
	at := time.Now().UTC().Truncate(time.Second)

	// Given seven public messages spread over seven minutes
	var appended []domain.Message
	for i := 0; i < 7; i++ {
		msg := publicMessage("Alice", fmt.Sprintf("message %d", i), at.Add(time.Duration(i)*time.Minute))
		req.NoError(repository.Append(msg))
		appended = append(appended, msg)
	}

	// When fetching the last five
	fetched, err := repository.RecentPublic(5)
	req.NoError(err)

	// Then the newest five come back in chronological order
	req.Len(fetched, 5)
	req.Equal(appended[2:], fetched)
}

func Test_Fetch_Fewer_Than_Limit(t *testing.T) {
	req := require.New(t)
	repository := newTestRepository(t)
	at := time.Now().UTC()

	req.NoError(repository.Append(publicMessage("Alice", "only one", at)))

	fetched, err := repository.RecentPublic(10)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("only one", fetched[0].Content)
}

func Test_Fetch_From_Empty_Store(t *testing.T) {
	req := require.New(t)
	repository := newTestRepository(t)

	fetched, err := repository.RecentPublic(10)
	req.NoError(err)
	req.Empty(fetched)
}

func Test_Direct_Messages_Are_Visible_To_Both_Participants(t *testing.T) {
	req := require.New(t)
	repository := newTestRepository(t)
	at := time.Now().UTC()

	// Given an exchange between Alice and Bob, plus unrelated traffic
	ping := directMessage("Alice", "Bob", "ping", at)
	pong := directMessage("Bob", "Alice", "pong", at.Add(time.Minute))
	other := directMessage("Clara", "Dave", "secret", at.Add(2*time.Minute))
	for _, msg := range []domain.Message{ping, pong, other} {
		req.NoError(repository.Append(msg))
	}

	// Then both sides see the same conversation, in order
	for _, nick := range []string{"Alice", "Bob"} {
		fetched, err := repository.RecentInvolving(nick, 10)
		req.NoError(err)
		req.Equal([]domain.Message{ping, pong}, fetched, "nick=%s", nick)
	}

	// And nobody else does
	fetched, err := repository.RecentInvolving("Eve", 10)
	req.NoError(err)
	req.Empty(fetched)
}

func Test_Involving_Matching_Is_Case_Folded(t *testing.T) {
	req := require.New(t)
	repository := newTestRepository(t)

	msg := directMessage("Alice", "Bob", "hi", time.Now().UTC())
	req.NoError(repository.Append(msg))

	fetched, err := repository.RecentInvolving("ALICE", 10)
	req.NoError(err)
	req.Len(fetched, 1)
}

func Test_Public_And_Direct_Slices_Stay_Separate(t *testing.T) {
	req := require.New(t)
	repository := newTestRepository(t)
	at := time.Now().UTC()

	req.NoError(repository.Append(publicMessage("Alice", "room talk", at)))
	req.NoError(repository.Append(directMessage("Alice", "Bob", "just us", at.Add(time.Minute))))

	public, err := repository.RecentPublic(10)
	req.NoError(err)
	req.Len(public, 1)
	req.Equal("room talk", public[0].Content)

	private, err := repository.RecentInvolving("Alice", 10)
	req.NoError(err)
	req.Len(private, 1)
	req.Equal("just us", private[0].Content)
}

func Test_Same_Nanosecond_Messages_Are_All_Kept(t *testing.T) {
	req := require.New(t)
	repository := newTestRepository(t)
	at := time.Now().UTC()

	// The UUID suffix disambiguates identical timestamps
	req.NoError(repository.Append(publicMessage("Alice", "first", at)))
	req.NoError(repository.Append(publicMessage("Bob", "second", at)))

	fetched, err := repository.RecentPublic(10)
	req.NoError(err)
	req.Len(fetched, 2)
}
