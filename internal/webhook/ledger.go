package webhook

import (
	"fmt"
	"sync"
	"time"

	bolt "github.com/boltdb/bolt"
)

// EventLedger records processed webhook event IDs. Stripe redelivers events
// after network failures, so MarkProcessed must be safe to call repeatedly
// with the same ID: only the first call reports first=true.
type EventLedger interface {
	MarkProcessed(eventID string) (first bool, err error)
	Close() error
}

const eventBucket = "webhook_events"

// BoltLedger persists the ledger in a single file, so de-duplication
// survives restarts without an external database.
type BoltLedger struct {
	db *bolt.DB
}

func NewBoltLedger(path string) (*BoltLedger, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open event ledger: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(eventBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create event bucket: %w", err)
	}

	return &BoltLedger{db: db}, nil
}

func (l *BoltLedger) MarkProcessed(eventID string) (bool, error) {
	first := false
	err := l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(eventBucket))
		if b.Get([]byte(eventID)) != nil {
			return nil
		}
		first = true
		return b.Put([]byte(eventID), []byte(time.Now().UTC().Format(time.RFC3339)))
	})
	if err != nil {
		return false, err
	}
	return first, nil
}

func (l *BoltLedger) Close() error {
	return l.db.Close()
}

// MemoryLedger backs tests and ledger-less deployments.
type MemoryLedger struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{seen: make(map[string]struct{})}
}

func (l *MemoryLedger) MarkProcessed(eventID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[eventID]; ok {
		return false, nil
	}
	l.seen[eventID] = struct{}{}
	return true, nil
}

func (l *MemoryLedger) Close() error {
	return nil
}
