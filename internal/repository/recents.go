package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vellum/internal/database"
	repoerrors "vellum/internal/infrastructure/errors"
	"vellum/internal/infrastructure/logging"
)

// DefaultMaxRecents bounds the history when the caller does not configure a limit
const DefaultMaxRecents = 20

// SQLiteRecentsRepository implements the RecentsRepository interface using SQLite
type SQLiteRecentsRepository struct {
	db          *sql.DB
	dbService   database.Service
	retryConfig *repoerrors.RetryConfig
	maxRecents  int
	logger      logging.Logger
}

var _ RecentsRepository = (*SQLiteRecentsRepository)(nil)

// NewSQLiteRecentsRepository creates a recents repository on top of a connected
// database service. maxRecents bounds how many entries the history keeps.
func NewSQLiteRecentsRepository(dbService database.Service, maxRecents int, logger logging.Logger) *SQLiteRecentsRepository {
	if maxRecents <= 0 {
		maxRecents = DefaultMaxRecents
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &SQLiteRecentsRepository{
		db:          dbService.DB(),
		dbService:   dbService,
		retryConfig: repoerrors.DefaultRetryConfig(),
		maxRecents:  maxRecents,
		logger:      logger,
	}
}

// storageError classifies, wraps, and logs a failed query. Retryable errors
// log at debug level so the retry loop stays quiet unless it gives up.
func (r *SQLiteRecentsRepository) storageError(op string, err error, contextMap map[string]string) error {
	repoErr := repoerrors.NewPipelineErrorWithContext(op, err, repoerrors.ClassifyStorageError(err), contextMap)
	if repoErr.IsRetryable() {
		r.logger.Debug("Retryable storage error", "operation", op, "error", err)
	} else {
		fields := make(map[string]any, len(contextMap))
		for k, v := range contextMap {
			fields[k] = v
		}
		logging.LogPipelineError(r.logger, repoErr, op, fields)
	}
	return repoErr
}

// RecordOpen inserts a history entry for path, or bumps the open count and
// recency of the existing one. The history is pruned to maxRecents entries in
// the same transaction.
func (r *SQLiteRecentsRepository) RecordOpen(ctx context.Context, path, name string, sizeBytes int64) error {
	start := time.Now()

	if path == "" {
		err := repoerrors.HandleValidationError("record_open", "path", path, "path cannot be empty")
		logging.LogPipelineError(r.logger, err, "record_open", nil)
		return err
	}

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return r.storageError("record_open", err, map[string]string{"phase": "begin", "path": path})
		}

		var committed bool
		defer func() {
			if !committed {
				if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
					r.logger.Debug("Failed to rollback record_open transaction", "error", rollbackErr)
				}
			}
		}()

		now := time.Now().UTC()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO recent_documents (path, name, size_bytes, open_count, first_opened_at, last_opened_at)
			VALUES (?, ?, ?, 1, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				name = excluded.name,
				size_bytes = excluded.size_bytes,
				open_count = open_count + 1,
				last_opened_at = excluded.last_opened_at`,
			path, name, sizeBytes, now, now)
		if err != nil {
			return r.storageError("record_open", err, map[string]string{"phase": "upsert", "path": path})
		}

		// Drop whatever fell off the end of the history
		_, err = tx.ExecContext(ctx, `
			DELETE FROM recent_documents
			WHERE path NOT IN (
				SELECT path FROM recent_documents
				ORDER BY last_opened_at DESC, path
				LIMIT ?
			)`, r.maxRecents)
		if err != nil {
			return r.storageError("record_open", err, map[string]string{"phase": "prune", "path": path})
		}

		if err := tx.Commit(); err != nil {
			return r.storageError("record_open", err, map[string]string{"phase": "commit", "path": path})
		}
		committed = true
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "record_open", time.Since(start), map[string]any{
			"path": path,
		})
	}

	return err
}

// ListRecent returns the history ordered by most recently opened first
func (r *SQLiteRecentsRepository) ListRecent(ctx context.Context) ([]RecentDocument, error) {
	start := time.Now()

	var result []RecentDocument

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		rows, err := r.db.QueryContext(ctx, `
			SELECT path, name, size_bytes, open_count, first_opened_at, last_opened_at
			FROM recent_documents
			ORDER BY last_opened_at DESC, path
			LIMIT ?`, r.maxRecents)
		if err != nil {
			return r.storageError("list_recent", err, map[string]string{"phase": "query"})
		}
		defer rows.Close()

		docs := make([]RecentDocument, 0, r.maxRecents)
		for rows.Next() {
			var doc RecentDocument
			if err := rows.Scan(&doc.Path, &doc.Name, &doc.SizeBytes, &doc.OpenCount, &doc.FirstOpenedAt, &doc.LastOpenedAt); err != nil {
				return r.storageError("list_recent", err, map[string]string{"phase": "scan"})
			}
			docs = append(docs, doc)
		}
		if err := rows.Err(); err != nil {
			return r.storageError("list_recent", err, map[string]string{"phase": "rows"})
		}

		result = docs
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "list_recent", time.Since(start), map[string]any{
			"count": len(result),
		})
	}

	return result, err
}

// Remove deletes the entry for path. Removing a path that is not in the
// history succeeds without touching anything.
func (r *SQLiteRecentsRepository) Remove(ctx context.Context, path string) error {
	start := time.Now()

	if path == "" {
		err := repoerrors.HandleValidationError("remove_recent", "path", path, "path cannot be empty")
		logging.LogPipelineError(r.logger, err, "remove_recent", nil)
		return err
	}

	var removed int64

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		res, err := r.db.ExecContext(ctx, "DELETE FROM recent_documents WHERE path = ?", path)
		if err != nil {
			return r.storageError("remove_recent", err, map[string]string{"path": path})
		}
		removed, _ = res.RowsAffected()
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "remove_recent", time.Since(start), map[string]any{
			"path":    path,
			"removed": removed,
		})
	}

	return err
}

// Clear empties the history
func (r *SQLiteRecentsRepository) Clear(ctx context.Context) error {
	start := time.Now()

	var removed int64

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		res, err := r.db.ExecContext(ctx, "DELETE FROM recent_documents")
		if err != nil {
			return r.storageError("clear_recent", err, nil)
		}
		removed, _ = res.RowsAffected()
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "clear_recent", time.Since(start), map[string]any{
			"removed": removed,
		})
	}

	return err
}
