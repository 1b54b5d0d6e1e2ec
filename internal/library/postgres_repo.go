package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) ListBooks(ctx context.Context, q Query) ([]Book, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Search != "" {
		clauses = append(clauses, fmt.Sprintf("(b.title ILIKE $%d OR a.name ILIKE $%d)", argn, argn+1))
		pattern := "%" + q.Search + "%"
		args = append(args, pattern, pattern)
		argn += 2
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	orderBy := "b.title ASC"
	switch q.Sort {
	case "author":
		orderBy = "a.name ASC"
	case "year":
		orderBy = "b.publication_year DESC NULLS LAST"
	case "rating":
		orderBy = "b.rating DESC NULLS LAST"
	}

	sql := fmt.Sprintf(`
		SELECT b.id, b.title, b.publication_year, b.isbn, b.rating, b.cover_url,
		       b.author_id, a.name, b.created_at
		FROM books b
		JOIN authors a ON a.id = b.author_id
		%s
		ORDER BY %s`, where, orderBy)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.PublicationYear, &b.ISBN, &b.Rating, &b.CoverURL,
			&b.AuthorID, &b.AuthorName, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetBook(ctx context.Context, id int64) (Book, error) {
	const query = `
		SELECT b.id, b.title, b.publication_year, b.isbn, b.rating, b.cover_url,
		       b.author_id, a.name, b.created_at
		FROM books b
		JOIN authors a ON a.id = b.author_id
		WHERE b.id = $1`

	var b Book
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&b.ID, &b.Title, &b.PublicationYear, &b.ISBN, &b.Rating, &b.CoverURL,
		&b.AuthorID, &b.AuthorName, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrBookNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) CreateBook(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (title, publication_year, isbn, rating, cover_url, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.Title, b.PublicationYear, b.ISBN, b.Rating, b.CoverURL, b.AuthorID,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ErrAuthorNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) DeleteBook(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

func (r *PostgresRepo) CountBooksByAuthor(ctx context.Context, authorID int64) (int, error) {
	var count int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM books WHERE author_id = $1`, authorID).Scan(&count)
	return count, err
}

func (r *PostgresRepo) ListAuthors(ctx context.Context) ([]Author, error) {
	const query = `
		SELECT id, name, birth_date, date_of_death, created_at
		FROM authors
		ORDER BY name ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.BirthDate, &a.DateOfDeath, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CreateAuthor(ctx context.Context, a *Author) error {
	const query = `
		INSERT INTO authors (name, birth_date, date_of_death)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, a.Name, a.BirthDate, a.DateOfDeath).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAuthorExists
		}
		return err
	}
	return nil
}

// DeleteAuthor removes the author row; the books FK cascades, so their
// books go with them.
func (r *PostgresRepo) DeleteAuthor(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAuthorNotFound
	}
	return nil
}
