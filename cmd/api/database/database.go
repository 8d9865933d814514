package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/books-catalog/cmd/api/book"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/shopspring/decimal"

	_ "github.com/golang-migrate/migrate/v4/source/file"

	_ "github.com/lib/pq"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	exc *Executor
}

type Executor struct {
	DBTX
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:  db,
		exc: NewExc(db),
	}
}

func NewExc(dbtx DBTX) *Executor {
	return &Executor{DBTX: dbtx}
}

/* Returns a Store whose statements run inside tx, together with the tx itself. */
func (store *Store) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Store, *sql.Tx, error) {
	tx, err := store.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}

	txStore := &Store{
		db:  store.db,
		exc: NewExc(tx),
	}
	return txStore, tx, nil
}

/* Runs fn inside a transaction, committing on success and rolling back on any error. */
func (store *Store) withTx(ctx context.Context, fn func(txStore *Store) error) error {
	txStore, tx, err := store.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = fn(txStore)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rolling back transaction: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

/* Connects to the database through a connection string and returns a pointer to a valid DB object (*sql.DB). */
func ConnectDb(connStr string) (*sql.DB, error) {

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("connecting to db, opening: %w", err)
	}

	err = sqlDB.Ping()
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connecting to db, pinging: %w", err)
	}

	return sqlDB, nil
}

func newMigrate(store *Store, path string) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(store.db, &postgres.Config{})
	if err != nil {
		return nil, err
	}

	return migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", path),
		"postgres", driver)
}

/* Applies every pending migration. Returns migrate.ErrNoChange when the schema is already current. */
func MigrationUp(store *Store, path string) error {
	m, err := newMigrate(store, path)
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}

	err = m.Up()
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}
	return nil
}

func MigrationDown(store *Store, path string) error {
	m, err := newMigrate(store, path)
	if err != nil {
		return fmt.Errorf("migrating down: %w", err)
	}

	err = m.Down()
	if err != nil {
		return fmt.Errorf("migrating down: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

/* Reads one books row; the price column comes back as decimal text. */
func scanBook(row scanner) (book.Book, error) {
	var bookToReturn book.Book
	var price string
	err := row.Scan(&bookToReturn.ID, &bookToReturn.Title, &bookToReturn.Author, &price)
	if err != nil {
		return book.Book{}, err
	}

	bookToReturn.Price, err = decimal.NewFromString(price)
	if err != nil {
		return book.Book{}, fmt.Errorf("parsing stored price %q: %w", price, err)
	}
	return bookToReturn, nil
}

/* Returns every stored book, in insertion order. */
func (store *Store) ListBooks(ctx context.Context) ([]book.Book, error) {
	sqlStatement := `SELECT id, title, author, price
	FROM books
	ORDER BY id ASC;`

	rows, err := store.exc.QueryContext(ctx, sqlStatement)
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}
	defer rows.Close()

	bookslist := []book.Book{}
	for rows.Next() {
		bookToReturn, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("listing books from db: %w", err)
		}
		bookslist = append(bookslist, bookToReturn)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}

	return bookslist, nil
}

/* Searches a book in database based on ID and returns it if succeed. */
func (store *Store) GetBookByID(ctx context.Context, id int64) (book.Book, error) {
	sqlStatement := `SELECT id, title, author, price
	FROM books
	WHERE id=$1;`
	return store.getBook(ctx, sqlStatement, id)
}

/* Same as GetBookByID, but locks the row until the surrounding transaction ends. */
func (store *Store) getBookForUpdate(ctx context.Context, id int64) (book.Book, error) {
	sqlStatement := `SELECT id, title, author, price
	FROM books
	WHERE id=$1
	FOR UPDATE;`
	return store.getBook(ctx, sqlStatement, id)
}

func (store *Store) getBook(ctx context.Context, sqlStatement string, id int64) (book.Book, error) {
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, id)
	bookToReturn, err := scanBook(foundRow)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return book.Book{}, fmt.Errorf("searching by ID: %w", book.ErrResponseBookNotFound)
		default:
			return book.Book{}, fmt.Errorf("searching by ID: %w", err)
		}
	}

	return bookToReturn, nil
}

/* Stores the book into the database and returns it with the id assigned by the store. */
func (store *Store) CreateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	sqlStatement := `
	INSERT INTO books (title, author, price)
	VALUES ($1, $2, $3)
	RETURNING id, title, author, price`
	price, err := book.NormalizePrice(bookEntry.Price)
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	createdRow := store.exc.QueryRowContext(ctx, sqlStatement, bookEntry.Title, bookEntry.Author, price.StringFixed(book.PriceScale))
	bookToReturn, err := scanBook(createdRow)
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	return bookToReturn, nil
}

/* Checks the book exists and overwrites title, author and price, all in one transaction. */
func (store *Store) UpdateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	price, err := book.NormalizePrice(bookEntry.Price)
	if err != nil {
		return book.Book{}, fmt.Errorf("updating on db: %w", err)
	}

	var bookToReturn book.Book
	err = store.withTx(ctx, func(txStore *Store) error {
		_, err := txStore.getBookForUpdate(ctx, bookEntry.ID)
		if err != nil {
			return err
		}

		sqlStatement := `
		UPDATE books
		SET title = $2, author = $3, price = $4
		WHERE id = $1
		RETURNING id, title, author, price`
		updatedRow := txStore.exc.QueryRowContext(ctx, sqlStatement, bookEntry.ID, bookEntry.Title, bookEntry.Author, price.StringFixed(book.PriceScale))
		bookToReturn, err = scanBook(updatedRow)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return book.Book{}, fmt.Errorf("updating on db: %w", book.ErrResponseBookNotFound)
		default:
			return book.Book{}, fmt.Errorf("updating on db: %w", err)
		}
	}

	return bookToReturn, nil
}

/* Checks the book exists and removes it, all in one transaction. */
func (store *Store) DeleteBook(ctx context.Context, id int64) error {
	err := store.withTx(ctx, func(txStore *Store) error {
		_, err := txStore.getBookForUpdate(ctx, id)
		if err != nil {
			return err
		}

		sqlStatement := `
		DELETE FROM books
		WHERE id = $1;`
		_, err = txStore.exc.ExecContext(ctx, sqlStatement, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("deleting from db: %w", err)
	}
	return nil
}
