package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/jsontree"
	"github.com/jackc/pgx/v5"
)

const notifyChannel = "hr_documents_changed"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS hr_documents (
	id         TEXT PRIMARY KEY,
	tree       JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// DocumentRepository stores the whole HR tree as one jsonb row. Patches
// lock the row, so concurrent writers through this store are serialized.
type DocumentRepository struct {
	db  *database.DB
	key string
}

func NewDocumentRepository(db *database.DB, key string) *DocumentRepository {
	if key == "" {
		key = "default"
	}
	return &DocumentRepository{db: db, key: key}
}

// EnsureSchema creates the backing table when missing.
func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create hr_documents: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Fetch(ctx context.Context) (map[string]any, error) {
	return r.load(ctx, GetQuerier(ctx, r.db), "")
}

func (r *DocumentRepository) Patch(ctx context.Context, collection string, updates map[string]any) error {
	if len(jsontree.SplitPath(collection)) == 0 {
		return document.ErrInvalidPath
	}
	return r.mutate(ctx, func(tree map[string]any) map[string]any {
		return jsontree.Update(tree, collection, updates)
	})
}

func (r *DocumentRepository) Put(ctx context.Context, path string, value any) error {
	return r.mutate(ctx, func(tree map[string]any) map[string]any {
		return jsontree.Set(tree, path, jsontree.Clone(value))
	})
}

func (r *DocumentRepository) mutate(ctx context.Context, fn func(map[string]any) map[string]any) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context, tx pgx.Tx) error {
		tree, err := r.load(txCtx, tx, " FOR UPDATE")
		if err != nil {
			return err
		}

		data, err := json.Marshal(fn(tree))
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}

		query := `
			INSERT INTO hr_documents (id, tree, updated_at)
			VALUES ($1, $2::jsonb, NOW())
			ON CONFLICT (id) DO UPDATE SET tree = EXCLUDED.tree, updated_at = NOW()
		`
		if _, err := tx.Exec(txCtx, query, r.key, string(data)); err != nil {
			return fmt.Errorf("%w: save document: %v", document.ErrStoreUnavailable, err)
		}
		if _, err := tx.Exec(txCtx, `SELECT pg_notify($1, $2)`, notifyChannel, r.key); err != nil {
			return fmt.Errorf("%w: notify: %v", document.ErrStoreUnavailable, err)
		}
		return nil
	})
}

func (r *DocumentRepository) load(ctx context.Context, q database.Querier, lock string) (map[string]any, error) {
	var raw []byte
	err := q.QueryRow(ctx, `SELECT tree FROM hr_documents WHERE id = $1`+lock, r.key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: load document: %v", document.ErrStoreUnavailable, err)
	}

	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if len(tree) == 0 {
		return nil, nil
	}
	return tree, nil
}

// Subscribe implements document.Subscriber using LISTEN/NOTIFY.
func (r *DocumentRepository) Subscribe(ctx context.Context, onChange func(tree map[string]any)) error {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquire listener: %v", document.ErrStoreUnavailable, err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return fmt.Errorf("%w: listen: %v", document.ErrStoreUnavailable, err)
	}

	tree, err := r.Fetch(ctx)
	if err != nil {
		return err
	}
	onChange(tree)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: wait for notification: %v", document.ErrStoreUnavailable, err)
		}
		if n.Payload != r.key {
			continue
		}
		tree, err := r.Fetch(ctx)
		if err != nil {
			return err
		}
		onChange(tree)
	}
}
