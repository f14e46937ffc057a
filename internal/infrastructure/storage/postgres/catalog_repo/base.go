// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/domain"
	"billing/internal/infrastructure/storage/postgres"
)

// BaseCatalogRepo provides common CRUD operations for catalog entities.
// Embed this in specific catalog repositories.
type BaseCatalogRepo[T any] struct {
	txm          *postgres.TxManager
	tableName    string
	entityName   string
	selectCols   []string
	searchCols   []string
	defaultOrder string
	// uniqueFields maps a unique constraint name to the field reported in DUPLICATE_ENTRY
	uniqueFields map[string]string
	newFn        func() T
}

// Option configures a BaseCatalogRepo.
type Option func(*baseOptions)

type baseOptions struct {
	searchCols   []string
	defaultOrder string
	uniqueFields map[string]string
}

// WithSearch sets the columns matched by ListFilter.Search.
func WithSearch(cols ...string) Option {
	return func(o *baseOptions) { o.searchCols = cols }
}

// WithDefaultOrder sets the ORDER BY used when the filter names none.
func WithDefaultOrder(order string) Option {
	return func(o *baseOptions) { o.defaultOrder = order }
}

// WithUnique names the field reported when the constraint is violated.
func WithUnique(constraint, field string) Option {
	return func(o *baseOptions) {
		if o.uniqueFields == nil {
			o.uniqueFields = make(map[string]string)
		}
		o.uniqueFields[constraint] = field
	}
}

// NewBaseCatalogRepo creates a new base catalog repository.
func NewBaseCatalogRepo[T any](
	txm *postgres.TxManager,
	tableName, entityName string,
	selectCols []string,
	newFn func() T,
	opts ...Option,
) *BaseCatalogRepo[T] {
	o := baseOptions{searchCols: []string{"name"}, defaultOrder: "name ASC"}
	for _, opt := range opts {
		opt(&o)
	}
	return &BaseCatalogRepo[T]{
		txm:          txm,
		tableName:    tableName,
		entityName:   entityName,
		selectCols:   selectCols,
		searchCols:   o.searchCols,
		defaultOrder: o.defaultOrder,
		uniqueFields: o.uniqueFields,
		newFn:        newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseCatalogRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

func (r *BaseCatalogRepo[T]) hasColumn(col string) bool {
	return slices.Contains(r.selectCols, col)
}

// mapWriteError translates constraint violations into AppErrors.
func (r *BaseCatalogRepo[T]) mapWriteError(err error, data map[string]any) error {
	pgErr, ok := postgres.PgError(err, postgres.CodeUniqueViolation)
	if !ok {
		return nil
	}
	field := r.uniqueFields[pgErr.ConstraintName]
	if field == "" {
		field = "key"
	}
	return apperror.NewDuplicate(r.entityName, field, fmt.Sprint(data[field])).WithCause(err)
}

// Create inserts a new entity using its "db" tags.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, entity T) error {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	sql, args, err := r.Builder().
		Insert(r.tableName).
		SetMap(filteredData).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if mapped := r.mapWriteError(err, data); mapped != nil {
			return mapped
		}
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

// Update modifies an existing entity with optimistic locking. The entity
// carries the version it was read at; on success its version is bumped to match the row.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, entity T) error {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	entityID, ok := data["id"]
	if !ok {
		return fmt.Errorf("entity has no 'id' field with db tag")
	}
	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("entity has no 'version' field or it is not an int")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		switch col {
		case "id", "version", "created_at", "updated_at":
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Update(r.tableName).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"version": version})
	if r.hasColumn("updated_at") {
		q = q.Set("updated_at", squirrel.Expr("NOW()"))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if mapped := r.mapWriteError(err, data); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.entityName, entityID)
	}
	if t, ok := any(entity).(interface{ Touch() }); ok {
		t.Touch()
	}
	return nil
}

// baseSelect creates a SELECT builder.
func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByID retrieves entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity, err := r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": entityID}).Limit(1))
	if apperror.IsNotFound(err) {
		return entity, apperror.NewNotFound(r.entityName, entityID.String())
	}
	return entity, err
}

// FindOne executes a SELECT query and returns a single entity.
func (r *BaseCatalogRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder) (T, error) {
	entity := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.entityName, "matching query")
		}
		return entity, fmt.Errorf("find one %s: %w", r.tableName, err)
	}
	return entity, nil
}

// FindAll executes a SELECT query and returns every matching entity.
func (r *BaseCatalogRepo[T]) FindAll(ctx context.Context, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []T
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("find all %s: %w", r.tableName, err)
	}
	return items, nil
}

// buildListQuery applies the filter without pagination or ordering.
func (r *BaseCatalogRepo[T]) buildListQuery(filter domain.ListFilter) squirrel.SelectBuilder {
	q := r.baseSelect()

	if filter.Search != "" && len(r.searchCols) > 0 {
		pattern := "%" + filter.Search + "%"
		or := make(squirrel.Or, 0, len(r.searchCols))
		for _, col := range r.searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	if filter.Active != nil && r.hasColumn("active") {
		q = q.Where(squirrel.Eq{"active": *filter.Active})
	}

	return q
}

// List retrieves entities with filtering and pagination.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.buildListQuery(filter)

	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}
	return result, nil
}

// Exists checks if entity exists.
func (r *BaseCatalogRepo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	sql, args, err := r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}

// Count returns the number of rows matching the predicates.
func (r *BaseCatalogRepo[T]) Count(ctx context.Context, pred ...squirrel.Sqlizer) (int64, error) {
	q := r.Builder().Select("COUNT(*)").From(r.tableName)
	for _, p := range pred {
		q = q.Where(p)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int64
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.tableName, err)
	}
	return n, nil
}

// Delete performs physical removal. Rows still referenced through a
// RESTRICT foreign key fail with PROTECTED_REFERENCE.
func (r *BaseCatalogRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
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
		return fmt.Errorf("execute delete %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID.String())
	}
	return nil
}

// SetActive sets or clears the active flag.
func (r *BaseCatalogRepo[T]) SetActive(ctx context.Context, entityID id.ID, active bool) error {
	if !r.hasColumn("active") {
		return fmt.Errorf("%s has no active column", r.tableName)
	}

	sql, args, err := r.Builder().
		Update(r.tableName).
		Set("active", active).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set active: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("execute set active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID.String())
	}
	return nil
}

func (r *BaseCatalogRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if strings.TrimSpace(orderBy) == "" {
		return r.defaultOrder, nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" || !r.hasColumn(field) {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	return field + " " + direction, nil
}
