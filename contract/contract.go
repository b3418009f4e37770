//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"github.com/hmZa-Sfyn/custom-irc-server/domain"
)

// LineSink is one session's outbound text channel. The core writes rendered
// lines to it but does not own the underlying transport. Implementations
// must be safe for concurrent use: broadcasts from several sessions may
// target the same sink at once.
type LineSink interface {
	WriteLine(line string) error
	Close() error
}

// History is the external append-only message log. Appends are best-effort
// from the core's point of view: a failed append is logged and never rolls
// back a delivery already performed.
type History interface {
	Append(msg domain.Message) error
	// RecentPublic returns at most limit public messages, oldest first.
	RecentPublic(limit int) ([]domain.Message, error)
	// RecentInvolving returns at most limit directed messages where nick is
	// sender or recipient, oldest first. Matching is case-folded.
	RecentInvolving(nick string, limit int) ([]domain.Message, error)
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// initialization or lifecycle events, avoiding the need for manual naming
// in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
