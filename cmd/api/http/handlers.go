package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/books-catalog/cmd/api/book"
	"github.com/books-catalog/cmd/api/logger"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock_handlers.go -package=mocks

type ServiceAPI interface {
	ListBooks(ctx context.Context) ([]book.Book, error)
	GetBook(ctx context.Context, id int64) (book.Book, error)
	CreateBook(ctx context.Context, req book.CreateBookRequest) (book.Book, error)
	UpdateBook(ctx context.Context, req book.UpdateBookRequest) (book.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type BookHandler struct {
	bookService    ServiceAPI
	requestTimeout time.Duration
	validate       *validator.Validate
	log            *zap.Logger
}

func NewBookHandler(bookService ServiceAPI, requestTimeout time.Duration, log *zap.Logger) *BookHandler {
	return &BookHandler{
		bookService:    bookService,
		requestTimeout: requestTimeout,
		validate:       validator.New(),
		log:            log.Named("http"),
	}
}

/* Addresses a call to "/books" according to the requested action.  */
func (h *BookHandler) books(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	switch r.Method {
	case http.MethodGet:
		h.listBooks(w, r)
	case http.MethodPost:
		h.createBook(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

/* Addresses a call to "/books/(expected id here)" according to the requested action.  */
func (h *BookHandler) bookById(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	switch r.Method {
	case http.MethodGet:
		h.getBookById(w, r)
	case http.MethodPut:
		h.updateBook(w, r)
	case http.MethodDelete:
		h.deleteBook(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

const maxEntryBytes = 1 << 20

// BookEntry is the body of POST /books and PUT /books/{id}.
// Pointers tell a missing field apart from a zero value; empty strings and negative prices are accepted.
type BookEntry struct {
	Title  *string          `json:"title" validate:"required"`
	Author *string          `json:"author" validate:"required"`
	Price  *decimal.Decimal `json:"price" validate:"required"`
}

/* Returns every stored book. */
func (h *BookHandler) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.ListBooks(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.responseJSON(w, r, http.StatusOK, booksToResponse(books))
}

/* Returns the book with that specific ID. */
func (h *BookHandler) getBookById(w http.ResponseWriter, r *http.Request) {
	id, err := h.isolateId(w, r)
	if err != nil {
		return
	}

	returnedBook, err := h.bookService.GetBook(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.responseJSON(w, r, http.StatusOK, bookToResponse(returnedBook))
}

/* Validates the entry, then stores the entry as a new book. */
func (h *BookHandler) createBook(w http.ResponseWriter, r *http.Request) {
	bookEntry, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}

	storedBook, err := h.bookService.CreateBook(r.Context(), bookToCreateReq(bookEntry))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.responseJSON(w, r, http.StatusCreated, bookToResponse(storedBook))
}

/* Validates the entry, then overwrites the asked book. */
func (h *BookHandler) updateBook(w http.ResponseWriter, r *http.Request) {
	id, err := h.isolateId(w, r)
	if err != nil {
		return
	}

	bookEntry, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}

	updatedBook, err := h.bookService.UpdateBook(r.Context(), bookToUpdateReq(bookEntry, id))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.responseJSON(w, r, http.StatusOK, bookToResponse(updatedBook))
}

/* Removes the asked book. Answers with an empty body. */
func (h *BookHandler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := h.isolateId(w, r)
	if err != nil {
		return
	}

	err = h.bookService.DeleteBook(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

/* Reads the JSON body into a BookEntry and checks every field is present.
On failure the error response is already written. */
func (h *BookHandler) decodeEntry(w http.ResponseWriter, r *http.Request) (BookEntry, bool) {
	var bookEntry BookEntry
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEntryBytes)).Decode(&bookEntry)
	if err != nil {
		errR := book.ErrResponse{
			Code:    book.ErrResponseEntryInvalidJSON.Code,
			Message: book.ErrResponseEntryInvalidJSON.Message + err.Error(),
		}
		h.responseJSON(w, r, http.StatusBadRequest, errR)
		return BookEntry{}, false
	}

	err = h.validate.Struct(bookEntry)
	if err != nil {
		h.responseJSON(w, r, http.StatusBadRequest, book.ErrResponseBookEntryBlankFields)
		return BookEntry{}, false
	}

	return bookEntry, true
}

/* Translates an error from the service into its status code and JSON body. */
func (h *BookHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context(), h.log)

	var errR book.ErrResponse
	switch {
	case errors.Is(err, book.ErrResponseBookNotFound):
		h.responseJSON(w, r, http.StatusNotFound, book.ErrResponseBookNotFound)
	case errors.Is(err, book.ErrResponsePriceOutOfRange):
		h.responseJSON(w, r, http.StatusBadRequest, book.ErrResponsePriceOutOfRange)
	case errors.As(err, &errR) && errR.Code == book.ErrResponseRequestTimeout.Code:
		log.Warn("request did not finish in time", zap.Error(err))
		h.responseJSON(w, r, http.StatusGatewayTimeout, errR)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		log.Warn("request did not finish in time", zap.Error(err))
		errR = book.ErrResponse{
			Code:    book.ErrResponseRequestTimeout.Code,
			Message: book.ErrResponseRequestTimeout.Message + contextErrorText(err),
		}
		h.responseJSON(w, r, http.StatusGatewayTimeout, errR)
	case errors.As(err, &errR):
		log.Error("request failed", zap.Error(err))
		h.responseJSON(w, r, http.StatusInternalServerError, errR)
	default:
		log.Error("request failed", zap.Error(err))
		errR = book.ErrResponse{
			Code:    book.ErrResponseFromRepository.Code,
			Message: book.ErrResponseFromRepository.Message + err.Error(),
		}
		h.responseJSON(w, r, http.StatusInternalServerError, errR)
	}
}

func contextErrorText(err error) string {
	if errors.Is(err, context.Canceled) {
		return context.Canceled.Error()
	}
	return context.DeadlineExceeded.Error()
}

/* Converts from BookEntry type to CreateBookRequest type, with no json tags. */
func bookToCreateReq(b BookEntry) book.CreateBookRequest {
	return book.CreateBookRequest{
		Title:  *b.Title,
		Author: *b.Author,
		Price:  *b.Price,
	}
}

/* Converts from BookEntry type to UpdateBookRequest type, with no json tags. */
func bookToUpdateReq(b BookEntry, id int64) book.UpdateBookRequest {
	return book.UpdateBookRequest{
		ID:     id,
		Title:  *b.Title,
		Author: *b.Author,
		Price:  *b.Price,
	}
}

/* Isolates the ID from the URL. */
func (h *BookHandler) isolateId(w http.ResponseWriter, r *http.Request) (id int64, err error) {
	justId, _ := strings.CutPrefix(r.URL.Path, "/books/")
	id, err = strconv.ParseInt(justId, 10, 64)
	if err != nil {
		h.responseJSON(w, r, http.StatusBadRequest, book.ErrResponseIdInvalidFormat)
		return id, err
	}
	return id, nil
}

type BookResponse struct {
	ID     int64       `json:"id"`
	Title  string      `json:"title"`
	Author string      `json:"author"`
	Price  json.Number `json:"price"`
}

/*Copy the fields of a book object to an http layer struct with json tags.
The price goes out as a JSON number written from its decimal text, never through a float.*/
func bookToResponse(b book.Book) BookResponse {
	return BookResponse{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Price:  json.Number(b.Price.String()),
	}
}

type BooksResponse struct {
	Books []BookResponse `json:"books"`
}

func booksToResponse(books []book.Book) BooksResponse {
	results := []BookResponse{}
	for _, b := range books {
		results = append(results, bookToResponse(b))
	}
	return BooksResponse{Books: results}
}

/*Writes a JSON response into a http.ResponseWriter. */
func responseJSON(w http.ResponseWriter, log *zap.Logger, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.Error("writing json response", zap.Error(err))
	}
}

func (h *BookHandler) responseJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	responseJSON(w, logger.FromContext(r.Context(), h.log), status, body)
}
