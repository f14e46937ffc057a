package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	appctx "billing/internal/core/context"
	"billing/internal/core/id"
	"billing/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm used for details.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the details size above which entries are compressed.
const DefaultCompressThreshold = 4 * 1024

// ActivityEntry is one row of the activity log.
type ActivityEntry struct {
	ID        id.ID           `db:"id" json:"id"`
	UserID    *id.ID          `db:"user_id" json:"userId,omitempty"`
	Action    string          `db:"action" json:"action"`
	Details   json.RawMessage `db:"details" json:"details,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`

	DetailsCompressed []byte          `db:"details_compressed" json:"-"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo" json:"-"`
}

// ActivityLog stores user actions. It implements audit.Recorder.
type ActivityLog struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
	now               func() time.Time
}

// NewActivityLog creates the activity log store.
func NewActivityLog(txManager *TxManager) (*ActivityLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &ActivityLog{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: DefaultCompressThreshold,
		now:               func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close releases the zstd decoder.
func (l *ActivityLog) Close() {
	l.decoder.Close()
}

// newEntry builds the row for an action, compressing large details.
func (l *ActivityLog) newEntry(ctx context.Context, action string, details map[string]any) (ActivityEntry, error) {
	entry := ActivityEntry{
		ID:              id.New(),
		Action:          action,
		CreatedAt:       l.now(),
		CompressionAlgo: CompressionNone,
	}

	if userID := appctx.GetUserID(ctx); userID != "" {
		if uid, err := id.Parse(userID); err == nil {
			entry.UserID = &uid
		}
	}

	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			return entry, fmt.Errorf("marshal details: %w", err)
		}
		entry.Details = raw
	}

	if len(entry.Details) > l.compressThreshold {
		entry.DetailsCompressed = l.encoder.EncodeAll(entry.Details, nil)
		entry.Details = nil
		entry.CompressionAlgo = CompressionZstd
	}
	return entry, nil
}

// expand restores compressed details in place.
func (l *ActivityLog) expand(e *ActivityEntry) error {
	if e.CompressionAlgo != CompressionZstd || len(e.DetailsCompressed) == 0 {
		return nil
	}
	decompressed, err := l.decoder.DecodeAll(e.DetailsCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress details: %w", err)
	}
	e.Details = decompressed
	e.DetailsCompressed = nil
	return nil
}

// Record implements audit.Recorder.
func (l *ActivityLog) Record(ctx context.Context, action string, details map[string]any) error {
	entry, err := l.newEntry(ctx, action, details)
	if err != nil {
		return err
	}

	sql := `
		INSERT INTO activity_log (
			id, user_id, action, details, details_compressed,
			compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var detailsArg any
	if entry.Details != nil {
		detailsArg = string(entry.Details)
	}

	_, err = l.txManager.GetQuerier(ctx).Exec(ctx, sql,
		entry.ID, entry.UserID, entry.Action, detailsArg,
		entry.DetailsCompressed, entry.CompressionAlgo, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// List returns the newest entries, optionally only those of one user.
func (l *ActivityLog) List(ctx context.Context, userID *id.ID, limit int) ([]ActivityEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("id", "user_id", "action", "details", "details_compressed", "compression_algo", "created_at").
		From("activity_log").
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if userID != nil {
		q = q.Where(squirrel.Eq{"user_id": *userID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := l.txManager.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		var (
			e       ActivityEntry
			details *string
		)
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Action, &details,
			&e.DetailsCompressed, &e.CompressionAlgo, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if details != nil {
			e.Details = json.RawMessage(*details)
		}
		if err := l.expand(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

var _ audit.Recorder = (*ActivityLog)(nil)
