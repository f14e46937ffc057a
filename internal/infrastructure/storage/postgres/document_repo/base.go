// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/domain/documents/lines"
	"billing/internal/infrastructure/storage/postgres"
)

// itemColumns are the line-item columns shared by every document type.
var itemColumns = []string{"id", "document_id", "activity_id", "quantity", "unit_price", "line_amount"}

// BaseDocumentRepo provides common CRUD operations for document entities
// and their line items.
type BaseDocumentRepo[T any] struct {
	txm        *postgres.TxManager
	tableName  string
	itemsTable string
	entityName string
	selectCols []string
	newFn      func() T

	// numberConstraint is the unique constraint on the document number
	numberConstraint string
	// itemConstraint is the unique constraint on (document_id, activity_id)
	itemConstraint string
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T any](
	txm *postgres.TxManager,
	tableName, itemsTable, entityName string,
	selectCols []string,
	newFn func() T,
) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txm:              txm,
		tableName:        tableName,
		itemsTable:       itemsTable,
		entityName:       entityName,
		selectCols:       selectCols,
		newFn:            newFn,
		numberConstraint: tableName + "_number_key",
		itemConstraint:   itemsTable + "_document_activity_key",
	}
}

// Builder returns a new squirrel builder.
func (r *BaseDocumentRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseDocumentRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

func (r *BaseDocumentRepo[T]) writableData(entity T, skip ...string) (map[string]any, error) {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return nil, fmt.Errorf("no db tags found in entity")
	}
	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if contains(skip, col) {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}
	return filtered, nil
}

// Create inserts a new document. A taken number is a NUMBER_COLLISION conflict.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, entity T) error {
	data, err := r.writableData(entity)
	if err != nil {
		return err
	}

	sql, args, err := r.Builder().
		Insert(r.tableName).
		SetMap(data).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err, r.numberConstraint) {
			return apperror.NewNumberCollision(r.entityName, fmt.Sprint(data["number"])).WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

// Update saves the header. Callers Touch the entity first, so the stored
// row is expected one version behind.
func (r *BaseDocumentRepo[T]) Update(ctx context.Context, entity T) error {
	data, err := r.writableData(entity, "id", "number", "created_at", "created_by")
	if err != nil {
		return err
	}

	entityID := postgres.StructToMap(entity)["id"]
	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("entity has no 'version' field or it is not an int")
	}

	sql, args, err := r.Builder().
		Update(r.tableName).
		SetMap(data).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"version": version - 1}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.entityName, entityID)
	}
	return nil
}

// Delete removes a document. Items go with it through ON DELETE CASCADE.
func (r *BaseDocumentRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewProtected(r.entityName, entityID.String()).WithCause(err)
		}
		return fmt.Errorf("delete %s: %w", r.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID.String())
	}
	return nil
}

// baseSelect creates a SELECT builder.
func (r *BaseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

func (r *BaseDocumentRepo[T]) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (T, error) {
	entity := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.entityName, key)
		}
		return entity, fmt.Errorf("get %s: %w", r.entityName, err)
	}
	return entity, nil
}

// GetByID retrieves a document header by ID.
func (r *BaseDocumentRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": entityID}), entityID.String())
}

// GetByNumber retrieves a document header by number.
func (r *BaseDocumentRepo[T]) GetByNumber(ctx context.Context, number string) (T, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"number": number}), number)
}

// GetForUpdate retrieves the header and locks its row until the transaction ends.
func (r *BaseDocumentRepo[T]) GetForUpdate(ctx context.Context, entityID id.ID) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": entityID}).
		Suffix("FOR UPDATE")
	return r.getOne(ctx, q, entityID.String())
}

// ListItems returns the lines of a document in insertion order.
func (r *BaseDocumentRepo[T]) ListItems(ctx context.Context, documentID id.ID) (lines.Items, error) {
	sql, args, err := r.Builder().
		Select(itemColumns...).
		From(r.itemsTable).
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := lines.Items{}
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// InsertItems adds lines in one statement.
func (r *BaseDocumentRepo[T]) InsertItems(ctx context.Context, items lines.Items) error {
	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(r.itemsTable).
		Columns(itemColumns...)
	for _, it := range items {
		q = q.Values(it.ID, it.DocumentID, it.ActivityID, it.Quantity, it.UnitPrice, it.LineAmount)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err, r.itemConstraint) {
			return apperror.NewDuplicate("item", "activity_id", "").WithCause(err)
		}
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

// UpdateItem stores the quantity and amount of an item.
func (r *BaseDocumentRepo[T]) UpdateItem(ctx context.Context, item lines.Item) error {
	sql, args, err := r.Builder().
		Update(r.itemsTable).
		Set("quantity", item.Quantity).
		Set("unit_price", item.UnitPrice).
		Set("line_amount", item.LineAmount).
		Where(squirrel.Eq{"id": item.ID, "document_id": item.DocumentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", item.ID.String())
	}
	return nil
}

// DeleteItem removes the item only if it belongs to the document.
func (r *BaseDocumentRepo[T]) DeleteItem(ctx context.Context, documentID, itemID id.ID) error {
	sql, args, err := r.Builder().
		Delete(r.itemsTable).
		Where(squirrel.Eq{"id": itemID, "document_id": documentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}
	return nil
}

// paginate counts q and then selects one page of it into dst.
func (r *BaseDocumentRepo[T]) paginate(ctx context.Context, q squirrel.SelectBuilder, orderBy string, limit, offset int, dst any) (int64, error) {
	countSQL, countArgs, err := r.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy(orderBy)
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, dst, sql, args...); err != nil {
		return 0, fmt.Errorf("list: %w", err)
	}
	return total, nil
}

// summarySelect selects a listing row joined with the area and client
// names and the total computed from the items.
func (r *BaseDocumentRepo[T]) summarySelect(extraCols ...string) squirrel.SelectBuilder {
	cols := []string{
		"d.id", "d.number", "d.date", "d.sales_area_id", "a.name AS area_name",
		"d.client_id", "c.name AS client_name",
	}
	cols = append(cols, extraCols...)
	cols = append(cols, fmt.Sprintf(
		"COALESCE((SELECT SUM(i.line_amount) FROM %s i WHERE i.document_id = d.id), 0) AS total",
		r.itemsTable))

	return r.Builder().
		Select(cols...).
		From(r.tableName + " d").
		Join("sales_areas a ON a.id = d.sales_area_id").
		Join("clients c ON c.id = d.client_id")
}

// parseOrderBy whitelists listing sort fields.
func parseOrderBy(orderBy string, allowed map[string]string, fallback string) (string, error) {
	orderBy = strings.TrimSpace(orderBy)
	if orderBy == "" {
		return fallback, nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	col, ok := allowed[strings.TrimSpace(field)]
	if !ok {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}
	return col + " " + direction, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
