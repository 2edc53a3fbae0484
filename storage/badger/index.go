package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/poiesic/docqa/core"
	"github.com/poiesic/docqa/storage"
)

// Index is a BadgerDB-backed vector index. Search is a full scan with
// cosine scoring, which is adequate for the corpus sizes docqa targets.
type Index struct {
	db        *badger.DB
	dimension int
	logger    *slog.Logger
}

var _ storage.VectorIndex = (*Index)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenIndex opens a BadgerDB vector index at the specified path.
// Creates the directory if it doesn't exist.
func OpenIndex(filePath string, dimension int, inMemory bool) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", storage.ErrInvalidQuery, dimension)
	}

	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Index{
		db:        db,
		dimension: dimension,
		logger:    slog.Default().With("component", "vector_index"),
	}, nil
}

// Close closes the BadgerDB database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Dimension returns the vector dimension the index was opened with.
func (ix *Index) Dimension() int {
	return ix.dimension
}

// withTx executes a function within a BadgerDB transaction.
// The transaction is automatically discarded if fn returns an error.
func (ix *Index) withTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := ix.db.NewTransaction(isWrite)
	defer tx.Discard()

	if err := fn(tx); err != nil {
		return err
	}
	if isWrite {
		return tx.Commit()
	}
	return nil
}

// Add inserts or overwrites vector records. The whole call is rejected when
// any record fails validation, so a batch is all-or-nothing.
func (ix *Index) Add(ctx context.Context, records ...*core.VectorRecord) error {
	if ix.db.IsClosed() {
		return storage.ErrStorageClosed
	}

	for _, record := range records {
		if err := core.ValidateVectorRecord(record); err != nil {
			return err
		}
		if len(record.Vector) != ix.dimension {
			return fmt.Errorf("%w: got %d, index expects %d",
				storage.ErrDimensionMismatch, len(record.Vector), ix.dimension)
		}
	}

	return ix.withTx(func(tx *badger.Txn) error {
		for _, record := range records {
			data, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}
			if err := tx.Set(makeRecordKey(record.Id), data); err != nil {
				return err
			}
		}
		return nil
	}, true)
}

// Search returns up to k records most similar to the query vector,
// ordered by cosine similarity descending.
func (ix *Index) Search(ctx context.Context, vector []float32, k int) ([]*core.ScoredRecord, error) {
	if ix.db.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if len(vector) != ix.dimension {
		return nil, fmt.Errorf("%w: got %d, index expects %d",
			storage.ErrDimensionMismatch, len(vector), ix.dimension)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", storage.ErrInvalidQuery, k)
	}

	var results []*core.ScoredRecord

	err := ix.scan(func(record *core.VectorRecord) error {
		results = append(results, &core.ScoredRecord{
			Record: record,
			Score:  cosineSimilarity(vector, record.Vector),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.ScoredRecord) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}

// Delete removes records by their IDs. Missing IDs are ignored.
func (ix *Index) Delete(ctx context.Context, ids ...core.ID) error {
	if ix.db.IsClosed() {
		return storage.ErrStorageClosed
	}

	return ix.withTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeRecordKey(id)); err != nil {
				return err
			}
		}
		return nil
	}, true)
}

// DeleteWhere removes every record whose metadata carries the given
// key/value pair and returns how many were removed.
func (ix *Index) DeleteWhere(ctx context.Context, key, value string) (int, error) {
	if ix.db.IsClosed() {
		return 0, storage.ErrStorageClosed
	}
	if key == "" {
		return 0, fmt.Errorf("%w: empty metadata key", storage.ErrInvalidQuery)
	}

	var doomed []core.ID

	err := ix.scan(func(record *core.VectorRecord) error {
		if record.Metadata[key] == value {
			doomed = append(doomed, record.Id)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(doomed) == 0 {
		return 0, nil
	}

	if err := ix.Delete(ctx, doomed...); err != nil {
		return 0, err
	}

	ix.logger.Debug("deleted records by metadata",
		"key", key,
		"value", value,
		"count", len(doomed))

	return len(doomed), nil
}

// All returns every record in the index.
func (ix *Index) All(ctx context.Context) ([]*core.VectorRecord, error) {
	if ix.db.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var records []*core.VectorRecord
	err := ix.scan(func(record *core.VectorRecord) error {
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// scan iterates all vector records in a read transaction.
func (ix *Index) scan(fn func(record *core.VectorRecord) error) error {
	return ix.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var record core.VectorRecord
			err := item.Value(func(val []byte) error {
				if err := json.Unmarshal(val, &record); err != nil {
					return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
				}
				return nil
			})
			if err != nil {
				return err
			}

			if err := fn(&record); err != nil {
				return err
			}
		}

		return nil
	}, false)
}

// cosineSimilarity calculates the cosine similarity of two vectors.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
