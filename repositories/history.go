package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/hmZa-Sfyn/custom-irc-server/domain"
)

// seekTail sorts after any zero-padded UnixNano, so a reverse iterator
// lands on the newest entry of a prefix.
const seekTail = "9999999999999999999"

// HistoryRepository persists chat messages in BadgerDB.
//
// Key layout:
//   - public messages:  "pub:{timestamp_padded}:{uuid}"
//   - direct messages:  "dm:{participant_key}:{timestamp_padded}:{uuid}",
//     written once per participant so both sides can query their own slice.
//
// The 19-digit zero padding makes lexicographic order chronological, and the
// UUID acts as a collision disconnector if two messages arrive at the same
// nanosecond.
type HistoryRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewHistoryRepository(db *badger.DB, log *slog.Logger) *HistoryRepository {
	return &HistoryRepository{db: db, log: log}
}

type storedMessage struct {
	ID      string  `json:"id"`
	From    string  `json:"from"`
	To      *string `json:"to,omitempty"`
	Content string  `json:"content"`
	At      int64   `json:"at"`
}

// Append writes one message under all keys it is reachable from, in a
// single transaction.
func (r *HistoryRepository) Append(msg domain.Message) error {
	value, err := json.Marshal(fromMessage(msg))
	if err != nil {
		return fmt.Errorf("encoding message %s: %w", msg.ID, err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		for _, key := range keysFor(msg) {
			if err := txn.Set([]byte(key), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// RecentPublic returns the last limit public messages, oldest first.
func (r *HistoryRepository) RecentPublic(limit int) ([]domain.Message, error) {
	return r.recent("pub:", limit)
}

// RecentInvolving returns the last limit direct messages where nick is
// sender or recipient, oldest first. Matching is case-folded.
func (r *HistoryRepository) RecentInvolving(nick string, limit int) ([]domain.Message, error) {
	return r.recent(fmt.Sprintf("dm:%s:", domain.NicknameKey(nick)), limit)
}

// recent walks a prefix newest-first and flips the result back to
// chronological order before returning it.
func (r *HistoryRepository) recent(prefixStr string, limit int) ([]domain.Message, error) {
	var raw [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := append([]byte(prefixStr), []byte(seekTail)...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if len(raw) == limit {
				r.log.Debug(fmt.Sprintf("History limit of %d reached for %q", limit, prefixStr))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				raw = append(raw, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(raw))
	for _, b := range raw {
		var stored storedMessage
		if err := json.Unmarshal(b, &stored); err != nil {
			return nil, err
		}
		msg, err := toMessage(stored)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return lo.Reverse(messages), nil
}

func keysFor(msg domain.Message) []string {
	ts := fmt.Sprintf("%019d", msg.At.UnixNano())
	if !msg.Direct() {
		return []string{fmt.Sprintf("pub:%s:%s", ts, msg.ID)}
	}
	keys := []string{fmt.Sprintf("dm:%s:%s:%s", domain.NicknameKey(msg.From), ts, msg.ID)}
	if toKey := domain.NicknameKey(*msg.To); toKey != domain.NicknameKey(msg.From) {
		keys = append(keys, fmt.Sprintf("dm:%s:%s:%s", toKey, ts, msg.ID))
	}
	return keys
}

func fromMessage(msg domain.Message) storedMessage {
	return storedMessage{
		ID:      msg.ID.String(),
		From:    msg.From,
		To:      msg.To,
		Content: msg.Content,
		At:      msg.At.UnixNano(),
	}
}

func toMessage(stored storedMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:      parsedID,
		From:    stored.From,
		To:      stored.To,
		Content: stored.Content,
		At:      time.Unix(0, stored.At).UTC(),
	}, nil
}
