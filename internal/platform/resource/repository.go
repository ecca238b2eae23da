// Copyright (c) 2026 Souqly. All rights reserved.

/*
Package resource implements the generic CRUD machinery shared by every
catalog collection (categories, products, orders).

A collection plugs in once — table name, column allow-list, search columns —
and receives the full read pipeline (filter, search, sort, projection,
pagination) plus create/update/delete, without writing per-collection SQL.
Rows travel as ordered-agnostic documents (map[string]any) because the
projected column set varies per request.
*/
package resource

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/backend/internal/platform/dberr"
	"github.com/souqly/backend/pkg/pagination"
	"github.com/souqly/backend/pkg/query"
	"github.com/souqly/backend/pkg/uuid"
)

// Document is one stored row with a request-dependent column set.
type Document = map[string]any

// Repository is the storage contract of a generic collection.
//
// pre carries server-side mandatory filters (e.g. restricting a customer to
// their own orders); they are combined with the client's query parameters
// and cannot be overridden by them.
type Repository interface {
	List(ctx context.Context, values url.Values, pre Document) ([]Document, pagination.Meta, error)
	Get(ctx context.Context, id string) (Document, error)
	Create(ctx context.Context, doc Document) (Document, error)
	Update(ctx context.Context, id string, doc Document) (Document, error)
	Delete(ctx context.Context, id string) error
}

// PostgresRepository implements [Repository] over one pgx pool and one
// [query.Options] shape.
type PostgresRepository struct {
	db       *pgxpool.Pool
	opts     query.Options
	resource string
}

func NewPostgresRepository(db *pgxpool.Pool, resource string, opts query.Options) *PostgresRepository {
	return &PostgresRepository{db: db, opts: opts, resource: resource}
}

/*
List runs the two-phase read pipeline.

Phase one counts the rows matching the predicate; phase two fetches the
requested page. Both phases share one predicate builder, so the pagination
metadata can never disagree with the rows it describes.
*/
func (repository *PostgresRepository) List(ctx context.Context, values url.Values, pre Document) ([]Document, pagination.Meta, error) {
	spec := query.Parse(values, repository.opts)
	for _, column := range sortedKeys(pre) {
		spec.PreFilter(column, pre[column])
	}

	// ── 1. Count ──────────────────────────────────────────────────────────
	countSQL, countArgs := spec.CountSQL()

	var total int
	if err := repository.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, pagination.Meta{}, dberr.Wrap(err, repository.resource)
	}

	meta := pagination.NewMeta(spec.Page(), spec.Limit(), total)
	if total == 0 {
		return []Document{}, meta, nil
	}

	// ── 2. Fetch ──────────────────────────────────────────────────────────
	selectSQL, selectArgs := spec.SelectSQL()

	rows, err := repository.db.Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		return nil, pagination.Meta{}, dberr.Wrap(err, repository.resource)
	}

	docs, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, pagination.Meta{}, dberr.Wrap(err, repository.resource)
	}

	return docs, meta, nil
}

func (repository *PostgresRepository) Get(ctx context.Context, id string) (Document, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`,
		strings.Join(repository.opts.Columns, ", "), repository.opts.Table)

	rows, err := repository.db.Query(ctx, sql, id)
	if err != nil {
		return nil, dberr.Wrap(err, repository.resource)
	}

	doc, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, dberr.Wrap(err, repository.resource)
	}

	return doc, nil
}

// Create inserts the document and returns the stored row.
//
// The id and both timestamps are assigned here; caller-supplied values for
// them are overwritten.
func (repository *PostgresRepository) Create(ctx context.Context, doc Document) (Document, error) {
	now := time.Now().UTC()
	doc["id"] = uuid.New()
	doc["createdat"] = now
	doc["updatedat"] = now

	columns := sortedKeys(doc)
	placeholders := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for i, column := range columns {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, doc[column])
	}

	sql := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		repository.opts.Table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(repository.opts.Columns, ", "))

	rows, err := repository.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dberr.Wrap(err, repository.resource)
	}

	stored, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, dberr.Wrap(err, repository.resource)
	}

	return stored, nil
}

// Update applies a partial document to the identified row and returns the
// stored row. The updatedat timestamp is refreshed on every write.
func (repository *PostgresRepository) Update(ctx context.Context, id string, doc Document) (Document, error) {
	delete(doc, "id")
	delete(doc, "createdat")
	doc["updatedat"] = time.Now().UTC()

	columns := sortedKeys(doc)
	assignments := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)+1)
	for i, column := range columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, i+1))
		args = append(args, doc[column])
	}
	args = append(args, id)

	sql := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
		repository.opts.Table,
		strings.Join(assignments, ", "),
		len(args),
		strings.Join(repository.opts.Columns, ", "))

	rows, err := repository.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dberr.Wrap(err, repository.resource)
	}

	stored, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, dberr.Wrap(err, repository.resource)
	}

	return stored, nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, repository.opts.Table)

	tag, err := repository.db.Exec(ctx, sql, id)
	if err != nil {
		return dberr.Wrap(err, repository.resource)
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, repository.resource)
	}

	return nil
}

// sortedKeys returns the map's keys in lexical order so generated SQL and
// placeholder numbering stay deterministic.
func sortedKeys(doc Document) []string {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
