package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/formrequest/internal/model/contact"
	"github.com/deppfellow/formrequest/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const contactsTable = "contacts"

var contactColumns = []string{"id", "owner_id", "name", "email", "phone", "age", "tags", "created_at", "updated_at"}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DBTX is the part of *pgxpool.Pool (and pgx.Tx) repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ContactFilter narrows List.
type ContactFilter struct {
	OwnerID string
	IDs     []uuid.UUID
	Tag     string
	Limit   uint64
	Offset  uint64
}

type ContactRepository struct {
	db DBTX
}

func NewContactRepository(db DBTX) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts one contact and returns the stored row.
func (r *ContactRepository) Create(ctx context.Context, c *contact.Contact) (*contact.Contact, error) {
	created, err := r.CreateMany(ctx, []*contact.Contact{c})
	if err != nil {
		return nil, err
	}

	return created[0], nil
}

// CreateMany inserts every contact in a single statement.
func (r *ContactRepository) CreateMany(ctx context.Context, contacts []*contact.Contact) ([]*contact.Contact, error) {
	if len(contacts) == 0 {
		return []*contact.Contact{}, nil
	}

	query, args, err := insertContactsQuery(contacts)
	if err != nil {
		return nil, fmt.Errorf("building insert contacts query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, sqlerr.WithTable(contactsTable, err)
	}

	created, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[contact.Contact])
	if err != nil {
		return nil, sqlerr.WithTable(contactsTable, err)
	}

	return created, nil
}

// GetByID returns the owner's contact with id.
func (r *ContactRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*contact.Contact, error) {
	query, args, err := psql.
		Select(contactColumns...).
		From(contactsTable).
		Where(sq.Eq{"id": id.String(), "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building get contact query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, sqlerr.WithTable(contactsTable, err)
	}

	found, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[contact.Contact])
	if err != nil {
		return nil, sqlerr.WithTable(contactsTable, err)
	}

	return found, nil
}

// List returns the owner's contacts, newest first.
func (r *ContactRepository) List(ctx context.Context, filter ContactFilter) ([]*contact.Contact, error) {
	query, args, err := listContactsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("building list contacts query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, sqlerr.WithTable(contactsTable, err)
	}

	contacts, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[contact.Contact])
	if err != nil {
		return nil, sqlerr.WithTable(contactsTable, err)
	}

	return contacts, nil
}

func insertContactsQuery(contacts []*contact.Contact) (string, []any, error) {
	insert := psql.
		Insert(contactsTable).
		Columns("owner_id", "name", "email", "phone", "age", "tags")

	for _, c := range contacts {
		insert = insert.Values(c.OwnerID, c.Name, c.Email, c.Phone, c.Age, c.Tags)
	}

	return insert.Suffix("RETURNING " + strings.Join(contactColumns, ", ")).ToSql()
}

func listContactsQuery(filter ContactFilter) (string, []any, error) {
	query := psql.
		Select(contactColumns...).
		From(contactsTable).
		Where(sq.Eq{"owner_id": filter.OwnerID}).
		OrderBy("created_at DESC", "id")

	if len(filter.IDs) > 0 {
		ids := make([]string, 0, len(filter.IDs))
		for _, id := range filter.IDs {
			ids = append(ids, id.String())
		}
		query = query.Where(sq.Eq{"id": ids})
	}

	if filter.Tag != "" {
		query = query.Where("? = ANY(tags)", filter.Tag)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	return query.ToSql()
}
