// Package storage keeps a history of superseded store files in a pebble database.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
)

// snapshotPrefix namespaces snapshot keys. Keys are prefix + 20 ksuid bytes, so
// pebble's byte ordering is also chronological ordering.
var snapshotPrefix = []byte("snapshot/")

// ErrSnapshotNotFound is returned for unknown snapshot ids
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot describes one archived copy of the store file
type Snapshot struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Size      int       `json:"size"`
}

// Archive stores snapshots keyed by ksuid
type Archive struct {
	db    *pebble.DB
	limit int
	log   logrus.FieldLogger
}

// OpenArchive opens or creates the archive at dir. A positive limit caps the number of
// snapshots kept; the oldest are pruned first.
func OpenArchive(dir string, limit int, logger logrus.FieldLogger) (*Archive, error) {
	opts := &pebble.Options{}
	if logger != nil {
		opts.Logger = logger
	}

	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open history archive %s: %w", dir, err)
	}

	return &Archive{db: db, limit: limit, log: logger}, nil
}

func snapshotKey(id ksuid.KSUID) []byte {
	key := append([]byte(nil), snapshotPrefix...)
	return append(key, id.Bytes()...)
}

// prefixUpperBound returns the smallest key greater than every key with the prefix
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	end[len(end)-1]++
	return end
}

// Archive stores contents as a new snapshot taken at the given time. Snapshot ids always
// sort after every id already in the archive.
func (a *Archive) Archive(contents []byte, at time.Time) (string, error) {
	id, err := ksuid.NewRandomWithTime(at)
	if err != nil {
		return "", fmt.Errorf("failed to generate snapshot id: %w", err)
	}

	// ksuid time has one-second resolution, so a later snapshot in the same second
	// (or after a clock step back) continues from the newest id instead.
	last, ok, err := a.newestID()
	if err != nil {
		return "", err
	}
	if ok && ksuid.Compare(id, last) <= 0 {
		id = last.Next()
	}

	if err := a.db.Set(snapshotKey(id), contents, pebble.Sync); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := a.prune(); err != nil {
		return "", err
	}

	return id.String(), nil
}

// List returns all snapshots, newest first
func (a *Archive) List() ([]Snapshot, error) {
	snapshots, err := a.scan()
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}
	return snapshots, nil
}

// newestID returns the id of the most recent snapshot, if any
func (a *Archive) newestID() (ksuid.KSUID, bool, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: snapshotPrefix,
		UpperBound: prefixUpperBound(snapshotPrefix),
	})
	if err != nil {
		return ksuid.Nil, false, fmt.Errorf("failed to scan history: %w", err)
	}

	var (
		id    ksuid.KSUID
		found bool
	)
	if iter.Last() {
		id, err = ksuid.FromBytes(iter.Key()[len(snapshotPrefix):])
		if err != nil {
			_ = iter.Close()
			return ksuid.Nil, false, fmt.Errorf("corrupt snapshot key: %w", err)
		}
		found = true
	}

	if err := iter.Close(); err != nil {
		return ksuid.Nil, false, fmt.Errorf("failed to scan history: %w", err)
	}
	return id, found, nil
}

// scan returns all snapshots, oldest first
func (a *Archive) scan() ([]Snapshot, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: snapshotPrefix,
		UpperBound: prefixUpperBound(snapshotPrefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan history: %w", err)
	}

	var snapshots []Snapshot
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[len(snapshotPrefix):])
		if err != nil {
			_ = iter.Close()
			return nil, fmt.Errorf("corrupt snapshot key: %w", err)
		}
		snapshots = append(snapshots, Snapshot{
			ID:        id.String(),
			CreatedAt: id.Time(),
			Size:      len(iter.Value()),
		})
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to scan history: %w", err)
	}
	return snapshots, nil
}

// Read returns the contents of a snapshot
func (a *Archive) Read(id string) ([]byte, error) {
	parsed, err := ksuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrSnapshotNotFound, id)
	}

	data, closer, err := a.db.Get(snapshotKey(parsed))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", id, err)
	}
	defer closer.Close()

	// data is only valid until closer is closed
	return append([]byte(nil), data...), nil
}

// Delete removes a snapshot
func (a *Archive) Delete(id string) error {
	parsed, err := ksuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrSnapshotNotFound, id)
	}
	return a.db.Delete(snapshotKey(parsed), pebble.Sync)
}

func (a *Archive) prune() error {
	if a.limit <= 0 {
		return nil
	}

	snapshots, err := a.scan()
	if err != nil {
		return err
	}
	if len(snapshots) <= a.limit {
		return nil
	}

	batch := a.db.NewBatch()
	defer batch.Close()

	for _, snap := range snapshots[:len(snapshots)-a.limit] {
		id, err := ksuid.Parse(snap.ID)
		if err != nil {
			return err
		}
		if err := batch.Delete(snapshotKey(id), nil); err != nil {
			return err
		}
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	if a.log != nil {
		a.log.WithField("pruned", len(snapshots)-a.limit).Debug("history pruned")
	}
	return nil
}

// Close closes the underlying database
func (a *Archive) Close() error {
	return a.db.Close()
}
