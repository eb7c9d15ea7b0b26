package embedding

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// #region schema
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS embedding_cache (
	cache_key   TEXT PRIMARY KEY,
	model_id    TEXT NOT NULL,
	dimension   INTEGER NOT NULL,
	vector      BLOB NOT NULL,
	created_at  TEXT NOT NULL
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS embedding_cache (
	cache_key   TEXT PRIMARY KEY,
	model_id    TEXT NOT NULL,
	dimension   INTEGER NOT NULL,
	vector      BYTEA NOT NULL,
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct

// Store persists provider vectors keyed by model and normalized text. It
// holds embeddings only, never scores or request data.
type Store struct {
	db     *sql.DB
	driver string
}

// #endregion store-struct

// #region constructor

// OpenStore opens a SQLite ("sqlite") or PostgreSQL ("postgres") cache and
// creates its table.
func OpenStore(driver, dsn string) (*Store, error) {
	var schema string
	switch driver {
	case "sqlite":
		schema = sqliteSchema
	case "postgres":
		schema = postgresSchema
	default:
		return nil, fmt.Errorf("unknown cache driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if driver == "sqlite" {
		// one connection so ":memory:" databases are shared
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma: %w", err)
		}
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.PingContext(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, driver: driver}, nil
}

// #endregion constructor

// #region close

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region get-put

// Get returns the cached vector for key, or ok=false on a miss.
func (s *Store) Get(ctx context.Context, key string) (vec []float32, ok bool, err error) {
	var (
		dim  int
		blob []byte
	)
	err = s.db.QueryRowContext(ctx,
		s.rebind(`SELECT dimension, vector FROM embedding_cache WHERE cache_key = ?`), key,
	).Scan(&dim, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached vector: %w", err)
	}
	vec, err = decodeVector(blob)
	if err != nil {
		return nil, false, err
	}
	if len(vec) != dim {
		return nil, false, fmt.Errorf("cached vector %s: dimension %d, stored %d", key, len(vec), dim)
	}
	return vec, true, nil
}

// Put upserts the vector for key.
func (s *Store) Put(ctx context.Context, key, modelID string, vec []float32) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO embedding_cache (cache_key, model_id, dimension, vector, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (cache_key) DO UPDATE SET
			model_id = excluded.model_id,
			dimension = excluded.dimension,
			vector = excluded.vector,
			created_at = excluded.created_at`),
		key, modelID, len(vec), encodeVector(vec), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put cached vector: %w", err)
	}
	return nil
}

// Count returns the number of cached vectors for modelID, or all when empty.
func (s *Store) Count(ctx context.Context, modelID string) (int, error) {
	query := `SELECT COUNT(*) FROM embedding_cache`
	args := []interface{}{}
	if modelID != "" {
		query += ` WHERE model_id = ?`
		args = append(args, modelID)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, s.rebind(query), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cached vectors: %w", err)
	}
	return n, nil
}

// #endregion get-put

// #region helpers

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// #endregion helpers

// #region vector-encoding
func encodeVector(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// #endregion vector-encoding
