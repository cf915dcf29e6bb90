package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/radahn42/chronicles/internal/domain/models"
	"github.com/radahn42/chronicles/internal/storage"
)

// Field names are inlined into json_extract paths so that the expression
// indexes from the migrations can be used.
var fieldNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func fieldExpr(field string) (string, error) {
	if field == models.IDField {
		return "id", nil
	}
	if !fieldNameRe.MatchString(field) {
		return "", fmt.Errorf("%w: field %q", storage.ErrInvalidQuery, field)
	}

	return "json_extract(body, '$." + field + "')", nil
}

// Find returns the documents of a collection matching every equality
// filter, in insertion order unless a sort field is given.
func (s *Storage) Find(ctx context.Context, collection string, query models.Query) ([]models.Document, error) {
	const op = "storage.sqlite.Find"

	var (
		b    strings.Builder
		args = []any{collection}
	)

	b.WriteString("SELECT body FROM documents WHERE collection = ?")

	fields := make([]string, 0, len(query.Filter))
	for field := range query.Filter {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		expr, err := fieldExpr(field)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		b.WriteString(" AND " + expr + " = ?")
		args = append(args, query.Filter[field])
	}

	if query.SortField != "" {
		expr, err := fieldExpr(query.SortField)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		direction := "ASC"
		if query.SortDesc {
			direction = "DESC"
		}
		b.WriteString(" ORDER BY " + expr + " " + direction + ", rowid")
	} else {
		b.WriteString(" ORDER BY rowid")
	}

	if query.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, query.Limit)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		doc, err := decode(body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docs, nil
}

// FindOne retrieves a document by id.
func (s *Storage) FindOne(ctx context.Context, collection, id string) (models.Document, error) {
	const op = "storage.sqlite.FindOne"

	var body []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE collection = ? AND id = ?", collection, id,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	doc, err := decode(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc, nil
}

// InsertOne stores doc under a new UUIDv7 unless it already carries a
// string _id.
func (s *Storage) InsertOne(ctx context.Context, collection string, doc models.Document) (models.InsertResult, error) {
	const op = "storage.sqlite.InsertOne"

	stored := make(models.Document, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}

	var id string
	switch v := stored[models.IDField].(type) {
	case nil:
		generated, err := uuid.NewV7()
		if err != nil {
			return models.InsertResult{}, fmt.Errorf("%s: %w", op, err)
		}
		id = generated.String()
	case string:
		if v == "" {
			return models.InsertResult{}, fmt.Errorf("%s: %w", op, storage.ErrInvalidID)
		}
		id = v
	default:
		return models.InsertResult{}, fmt.Errorf("%s: %w", op, storage.ErrInvalidID)
	}
	stored[models.IDField] = id

	body, err := json.Marshal(stored)
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UnixMilli()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		collection, id, string(body), now, now,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return models.InsertResult{}, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return models.InsertResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// UpdateOne replaces the given top-level fields of a document and keeps the
// rest. The _id field is immutable and ignored.
func (s *Storage) UpdateOne(ctx context.Context, collection, id string, fields models.Document) (models.UpdateResult, error) {
	const op = "storage.sqlite.UpdateOne"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	var body []byte
	err = tx.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE collection = ? AND id = ?", collection, id,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UpdateResult{Acknowledged: true}, nil
		}
		return models.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	doc, err := decode(body)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	before, err := json.Marshal(doc)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	for k, v := range fields {
		if k == models.IDField {
			continue
		}
		doc[k] = v
	}

	after, err := json.Marshal(doc)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if bytes.Equal(before, after) {
		return models.UpdateResult{Acknowledged: true, MatchedCount: 1}, nil
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE documents SET body = ?, updated_at = ? WHERE collection = ? AND id = ?",
		string(after), time.Now().UnixMilli(), collection, id,
	)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return models.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (s *Storage) DeleteOne(ctx context.Context, collection, id string) (models.DeleteResult, error) {
	const op = "storage.sqlite.DeleteOne"

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?", collection, id,
	)
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.DeleteResult{Acknowledged: true, DeletedCount: rowsAffected}, nil
}

func decode(body []byte) (models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	return doc, nil
}
