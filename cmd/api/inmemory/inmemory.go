package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/books-catalog/cmd/api/book"
	"github.com/hashicorp/go-memdb"
	"github.com/shopspring/decimal"
)

const booksTable = "books"

type InMemoryStore struct {
	db *memdb.MemDB
	// lastID is only read and written while holding the memdb write transaction, which is exclusive.
	lastID int64
}

func NewInMemoryStore() (*InMemoryStore, error) {
	// Define the schema
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			booksTable: {
				Name: booksTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
				},
			},
		},
	}

	err := schema.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating in-memory schema: %w", err)
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize in-memory database: %w", err)
	}
	return &InMemoryStore{db: db}, nil
}

// AdaptedBook is the stored row: the id is indexed as text and the price
// is kept as fixed two-digit decimal text, within the NUMERIC(10,2) range.
type AdaptedBook struct {
	ID     string
	Title  string
	Author string
	Price  string
}

func adaptBookToRow(bookEntry book.Book) (AdaptedBook, error) {
	price, err := book.NormalizePrice(bookEntry.Price)
	if err != nil {
		return AdaptedBook{}, err
	}

	return AdaptedBook{
		ID:     formatID(bookEntry.ID),
		Title:  bookEntry.Title,
		Author: bookEntry.Author,
		Price:  price.StringFixed(book.PriceScale),
	}, nil
}

func adaptRowToBook(row AdaptedBook) (book.Book, error) {
	id, err := strconv.ParseInt(row.ID, 10, 64)
	if err != nil {
		return book.Book{}, fmt.Errorf("parsing stored id %q: %w", row.ID, err)
	}
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return book.Book{}, fmt.Errorf("parsing stored price %q: %w", row.Price, err)
	}
	return book.Book{
		ID:     id,
		Title:  row.Title,
		Author: row.Author,
		Price:  price,
	}, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (store *InMemoryStore) ListBooks(ctx context.Context) ([]book.Book, error) {
	txn := store.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(booksTable, "id")
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}

	books := []book.Book{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		b, err := adaptRowToBook(obj.(AdaptedBook))
		if err != nil {
			return nil, fmt.Errorf("listing books from db: %w", err)
		}
		books = append(books, b)
	}

	// The id index orders by text, so "10" would come before "9".
	sort.Slice(books, func(i, j int) bool {
		return books[i].ID < books[j].ID
	})

	return books, nil
}

func (store *InMemoryStore) GetBookByID(ctx context.Context, id int64) (book.Book, error) {
	txn := store.db.Txn(false)
	defer txn.Abort()

	return getBook(txn, id)
}

func getBook(txn *memdb.Txn, id int64) (book.Book, error) {
	raw, err := txn.First(booksTable, "id", formatID(id))
	if err != nil {
		return book.Book{}, fmt.Errorf("searching by ID: %w", err)
	}
	if raw == nil {
		return book.Book{}, fmt.Errorf("searching by ID: %w", book.ErrResponseBookNotFound)
	}

	return adaptRowToBook(raw.(AdaptedBook))
}

func (store *InMemoryStore) CreateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	txn := store.db.Txn(true)
	defer txn.Abort()

	bookEntry.ID = store.lastID + 1
	row, err := adaptBookToRow(bookEntry)
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	err = txn.Insert(booksTable, row)
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	createdBook, err := adaptRowToBook(row)
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	store.lastID = bookEntry.ID
	txn.Commit()
	return createdBook, nil
}

/* The existence check and the overwrite share one write transaction, so nothing can delete the book in between. */
func (store *InMemoryStore) UpdateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	txn := store.db.Txn(true)
	defer txn.Abort()

	_, err := getBook(txn, bookEntry.ID)
	if err != nil {
		return book.Book{}, fmt.Errorf("updating on db: %w", err)
	}

	row, err := adaptBookToRow(bookEntry)
	if err != nil {
		return book.Book{}, fmt.Errorf("updating on db: %w", err)
	}
	if err := txn.Insert(booksTable, row); err != nil {
		return book.Book{}, fmt.Errorf("updating on db: %w", err)
	}

	updatedBook, err := adaptRowToBook(row)
	if err != nil {
		return book.Book{}, fmt.Errorf("updating on db: %w", err)
	}

	txn.Commit()
	return updatedBook, nil
}

func (store *InMemoryStore) DeleteBook(ctx context.Context, id int64) error {
	txn := store.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(booksTable, "id", formatID(id))
	if err != nil {
		return fmt.Errorf("deleting from db: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("deleting from db: %w", book.ErrResponseBookNotFound)
	}

	if err := txn.Delete(booksTable, raw); err != nil {
		return fmt.Errorf("deleting from db: %w", err)
	}

	txn.Commit()
	return nil
}
