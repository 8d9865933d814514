package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/books-catalog/cmd/api/book"
	bookhttp "github.com/books-catalog/cmd/api/http"
	httpmock "github.com/books-catalog/cmd/api/http/mocks"
	"github.com/books-catalog/cmd/api/inmemory"
	"github.com/matryer/is"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const requestTimeout = 50 * time.Millisecond

func newServer(api bookhttp.ServiceAPI) *http.Server {
	bookHandler := bookhttp.NewBookHandler(api, requestTimeout, zap.NewNop())
	return bookhttp.NewServer(bookhttp.ServerConfig{Port: 8080}, bookHandler, zap.NewNop())
}

func serve(server *http.Server, request *http.Request) (int, string, http.Header) {
	response := httptest.NewRecorder()
	server.Handler.ServeHTTP(response, request)
	body, _ := io.ReadAll(response.Result().Body)
	return response.Result().StatusCode, string(body), response.Result().Header
}

func TestCreateBook(t *testing.T) {

	ctrl := gomock.NewController(t)
	mockAPI := httpmock.NewMockServiceAPI(ctrl)
	server := newServer(mockAPI)

	t.Run("creates a book without errors", func(t *testing.T) {
		is := is.New(t)

		bookToCreate := `{
			"title": "Dune",
			"author": "Herbert",
			"price": 15.50
		}`
		expectedJSONresponse := `{"id":1,"title":"Dune","author":"Herbert","price":15.5}` + "\n"

		mockAPI.EXPECT().CreateBook(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
			is.Equal(req.Title, "Dune")
			is.Equal(req.Author, "Herbert")
			is.True(req.Price.Equal(decimal.RequireFromString("15.50")))
			return book.Book{ID: 1, Title: req.Title, Author: req.Author, Price: req.Price}, nil
		})

		request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(bookToCreate))
		status, body, header := serve(server, request)

		is.Equal(status, http.StatusCreated)
		is.Equal(body, expectedJSONresponse)
		is.Equal(header.Get("content-type"), "application/json")
	})

	t.Run("empty strings and a zero price are structurally valid", func(t *testing.T) {
		is := is.New(t)

		bookToCreate := `{"title": "", "author": "", "price": 0}`
		expectedJSONresponse := `{"id":2,"title":"","author":"","price":0}` + "\n"

		mockAPI.EXPECT().CreateBook(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
			return book.Book{ID: 2, Title: req.Title, Author: req.Author, Price: req.Price}, nil
		})

		request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(bookToCreate))
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusCreated)
		is.Equal(body, expectedJSONresponse)
	})

	t.Run("a price sent as a quoted decimal string is accepted", func(t *testing.T) {
		is := is.New(t)

		bookToCreate := `{"title": "Dune", "author": "Herbert", "price": "15.50"}`
		expectedJSONresponse := `{"id":3,"title":"Dune","author":"Herbert","price":15.5}` + "\n"

		mockAPI.EXPECT().CreateBook(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
			is.True(req.Price.Equal(decimal.RequireFromString("15.50")))
			return book.Book{ID: 3, Title: req.Title, Author: req.Author, Price: req.Price}, nil
		})

		request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(bookToCreate))
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusCreated)
		is.Equal(body, expectedJSONresponse)
	})

	t.Run("expected invalid json error on a price that is not a decimal", func(t *testing.T) {
		is := is.New(t)

		for _, invalidBookToCreate := range []string{
			`{"title": "t", "author": "a", "price": true}`,
			`{"title": "t", "author": "a", "price": "abc"}`,
			`{"title": "t", "author": "a", "price": [1]}`,
		} {
			request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(invalidBookToCreate))
			status, body, _ := serve(server, request)

			var errR book.ErrResponse
			is.NoErr(json.Unmarshal([]byte(body), &errR))
			is.Equal(status, http.StatusBadRequest)
			is.Equal(errR.Code, book.ErrResponseEntryInvalidJSON.Code)
		}
	})

	t.Run("expected invalid json error on an oversized body", func(t *testing.T) {
		is := is.New(t)

		bookToCreate := `{"title": "` + strings.Repeat("a", 2<<20) + `", "author": "a", "price": 1}`

		request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(bookToCreate))
		status, body, _ := serve(server, request)

		var errR book.ErrResponse
		is.NoErr(json.Unmarshal([]byte(body), &errR))
		is.Equal(status, http.StatusBadRequest)
		is.Equal(errR.Code, book.ErrResponseEntryInvalidJSON.Code)
	})

	t.Run("expected price out of range error", func(t *testing.T) {
		is := is.New(t)

		expectedJSONresponse := fmt.Sprintln(`{"error_code":104,"error_message":"the price must be lower than 100000000 in absolute value, with at most 20 decimal places."}`)

		mockAPI.EXPECT().CreateBook(gomock.Any(), gomock.Any()).Return(book.Book{}, book.ErrResponsePriceOutOfRange)

		request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title": "t", "author": "a", "price": 123456789.00}`))
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusBadRequest)
		is.Equal(body, expectedJSONresponse)
	})

	t.Run("expected invalid json error", func(t *testing.T) {
		is := is.New(t)

		invalidBookToCreate := `{
				"title": "test with missing comma after title"
				"author": "Someone",
				"price": 100
			}`
		expectedJSONresponse := fmt.Sprintln(`{"error_code":102,"error_message":"invalid json request.invalid character '\"' after object key:value pair"}`)

		request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(invalidBookToCreate))
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusBadRequest)
		is.Equal(body, expectedJSONresponse)
	})

	t.Run("expected invalid json error on a wrongly typed field", func(t *testing.T) {
		is := is.New(t)

		invalidBookToCreate := `{"title": 42, "author": "Someone", "price": 100}`

		request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(invalidBookToCreate))
		status, body, _ := serve(server, request)

		var errR book.ErrResponse
		is.NoErr(json.Unmarshal([]byte(body), &errR))
		is.Equal(status, http.StatusBadRequest)
		is.Equal(errR.Code, book.ErrResponseEntryInvalidJSON.Code)
	})

	t.Run("expected blank fields error", func(t *testing.T) {
		is := is.New(t)

		for _, invalidBookToCreate := range []string{
			`{"title": "missing price", "author": "Someone"}`,
			`{"author": "Someone", "price": 10}`,
			`{"title": "null author", "author": null, "price": 10}`,
			`{}`,
		} {
			expectedJSONresponse := fmt.Sprintln(`{"error_code":100,"error_message":"all the fields - title, author and price - must be filled correctly."}`)

			request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(invalidBookToCreate))
			status, body, _ := serve(server, request)

			is.Equal(status, http.StatusBadRequest)
			is.Equal(body, expectedJSONresponse)
		}
	})

	t.Run("expected error from repository", func(t *testing.T) {
		is := is.New(t)

		bookToCreate := `{"title": "Dune", "author": "Herbert", "price": 15.50}`
		errRepo := book.ErrResponse{
			Code:    book.ErrResponseFromRepository.Code,
			Message: book.ErrResponseFromRepository.Message + "storing book on db: connection refused",
		}
		expectedJSONresponse := fmt.Sprintln(`{"error_code":108,"error_message":"error from repository:storing book on db: connection refused"}`)

		mockAPI.EXPECT().CreateBook(gomock.Any(), gomock.Any()).Return(book.Book{}, errRepo)

		request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(bookToCreate))
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusInternalServerError)
		is.Equal(body, expectedJSONresponse)
	})

	t.Run("expected context timeout error", func(t *testing.T) {
		is := is.New(t)

		bookToCreate := `{"title": "Dune", "author": "Herbert", "price": 15.50}`
		expectedJSONresponse := fmt.Sprintln(`{"error_code":109,"error_message":"error from context:context deadline exceeded"}`)

		mockAPI.EXPECT().CreateBook(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
			<-ctx.Done() // bounded by the handler's request timeout
			return book.Book{}, ctx.Err()
		})

		request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(bookToCreate))
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusGatewayTimeout)
		is.Equal(body, expectedJSONresponse)
	})

	t.Run("expected context canceled error", func(t *testing.T) {
		is := is.New(t)

		bookToCreate := `{"title": "Dune", "author": "Herbert", "price": 15.50}`
		expectedJSONresponse := fmt.Sprintln(`{"error_code":109,"error_message":"error from context:context canceled"}`)

		ctxTest, cancel := context.WithCancel(context.Background())
		defer cancel()

		mockAPI.EXPECT().CreateBook(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
			cancel()
			return book.Book{}, ctx.Err()
		})

		request, _ := http.NewRequestWithContext(ctxTest, http.MethodPost, "/books", strings.NewReader(bookToCreate))
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusGatewayTimeout)
		is.Equal(body, expectedJSONresponse)
	})
}

func TestUpdateBook(t *testing.T) {

	ctrl := gomock.NewController(t)
	mockAPI := httpmock.NewMockServiceAPI(ctrl)
	server := newServer(mockAPI)

	t.Run("updates a book without errors", func(t *testing.T) {
		is := is.New(t)

		bookToUpdate := `{"title": "Dune (Reissue)", "author": "Herbert", "price": 17.00}`
		expectedJSONresponse := `{"id":1,"title":"Dune (Reissue)","author":"Herbert","price":17}` + "\n"

		mockAPI.EXPECT().UpdateBook(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, req book.UpdateBookRequest) (book.Book, error) {
			is.Equal(req.ID, int64(1))
			is.Equal(req.Title, "Dune (Reissue)")
			is.True(req.Price.Equal(decimal.NewFromInt(17)))
			return book.Book{ID: req.ID, Title: req.Title, Author: req.Author, Price: req.Price}, nil
		})

		request, _ := http.NewRequest(http.MethodPut, "/books/1", strings.NewReader(bookToUpdate))
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusOK)
		is.Equal(body, expectedJSONresponse)
	})

	t.Run("updates a non existing book should return a not found error", func(t *testing.T) {
		is := is.New(t)

		bookToUpdate := `{"title": "Nothing", "author": "Nobody", "price": 1}`
		expectedJSONresponse := fmt.Sprintln(`{"error_code":101,"error_message":"book not found"}`)

		mockAPI.EXPECT().UpdateBook(gomock.Any(), gomock.Any()).Return(book.Book{}, book.ErrResponseBookNotFound)

		request, _ := http.NewRequest(http.MethodPut, "/books/999999", strings.NewReader(bookToUpdate))
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusNotFound)
		is.Equal(body, expectedJSONresponse)
	})

	t.Run("expected invalid id error", func(t *testing.T) {
		is := is.New(t)

		bookToUpdate := `{"title": "Nothing", "author": "Nobody", "price": 1}`
		expectedJSONresponse := fmt.Sprintln(`{"error_code":103,"error_message":"the endpoint is not a valid format ID. Must be /books/{id}"}`)

		for _, path := range []string{"/books/abc", "/books/", "/books/1/2"} {
			request, _ := http.NewRequest(http.MethodPut, path, strings.NewReader(bookToUpdate))
			status, body, _ := serve(server, request)

			is.Equal(status, http.StatusBadRequest)
			is.Equal(body, expectedJSONresponse)
		}
	})

	t.Run("expected blank fields error", func(t *testing.T) {
		is := is.New(t)

		expectedJSONresponse := fmt.Sprintln(`{"error_code":100,"error_message":"all the fields - title, author and price - must be filled correctly."}`)

		request, _ := http.NewRequest(http.MethodPut, "/books/1", strings.NewReader(`{"title": "no price", "author": "Someone"}`))
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusBadRequest)
		is.Equal(body, expectedJSONresponse)
	})

	t.Run("expected price out of range error", func(t *testing.T) {
		is := is.New(t)

		mockAPI.EXPECT().UpdateBook(gomock.Any(), gomock.Any()).Return(book.Book{}, book.ErrResponsePriceOutOfRange)

		request, _ := http.NewRequest(http.MethodPut, "/books/1", strings.NewReader(`{"title": "t", "author": "a", "price": 1e1000000}`))
		status, body, _ := serve(server, request)

		var errR book.ErrResponse
		is.NoErr(json.Unmarshal([]byte(body), &errR))
		is.Equal(status, http.StatusBadRequest)
		is.Equal(errR.Code, book.ErrResponsePriceOutOfRange.Code)
	})

	t.Run("expected error from repository", func(t *testing.T) {
		is := is.New(t)

		mockAPI.EXPECT().UpdateBook(gomock.Any(), gomock.Any()).Return(book.Book{}, errors.New("unexpected failure"))

		request, _ := http.NewRequest(http.MethodPut, "/books/1", strings.NewReader(`{"title": "t", "author": "a", "price": 1}`))
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusInternalServerError)
		is.Equal(body, fmt.Sprintln(`{"error_code":108,"error_message":"error from repository:unexpected failure"}`))
	})
}

func TestDeleteBook(t *testing.T) {

	ctrl := gomock.NewController(t)
	mockAPI := httpmock.NewMockServiceAPI(ctrl)
	server := newServer(mockAPI)

	t.Run("deletes a book without errors", func(t *testing.T) {
		is := is.New(t)

		mockAPI.EXPECT().DeleteBook(gomock.Any(), int64(1)).Return(nil)

		request, _ := http.NewRequest(http.MethodDelete, "/books/1", nil)
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusNoContent)
		is.Equal(body, "")
	})

	t.Run("deletes a non existing book should return a not found error", func(t *testing.T) {
		is := is.New(t)

		mockAPI.EXPECT().DeleteBook(gomock.Any(), int64(999999)).Return(book.ErrResponseBookNotFound)

		request, _ := http.NewRequest(http.MethodDelete, "/books/999999", nil)
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusNotFound)
		is.Equal(body, fmt.Sprintln(`{"error_code":101,"error_message":"book not found"}`))
	})

	t.Run("expected error from repository", func(t *testing.T) {
		is := is.New(t)

		errRepo := book.ErrResponse{
			Code:    book.ErrResponseFromRepository.Code,
			Message: book.ErrResponseFromRepository.Message + "deleting from db: broken pipe",
		}
		mockAPI.EXPECT().DeleteBook(gomock.Any(), int64(1)).Return(errRepo)

		request, _ := http.NewRequest(http.MethodDelete, "/books/1", nil)
		status, _, _ := serve(server, request)

		is.Equal(status, http.StatusInternalServerError)
	})
}

func TestGetBook(t *testing.T) {

	ctrl := gomock.NewController(t)
	mockAPI := httpmock.NewMockServiceAPI(ctrl)
	server := newServer(mockAPI)

	t.Run("gets a book by ID without errors", func(t *testing.T) {
		is := is.New(t)

		stored := book.Book{ID: 7, Title: "Found", Author: "Someone", Price: decimal.RequireFromString("29.90")}
		mockAPI.EXPECT().GetBook(gomock.Any(), int64(7)).Return(stored, nil)

		request, _ := http.NewRequest(http.MethodGet, "/books/7", nil)
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusOK)
		is.Equal(body, `{"id":7,"title":"Found","author":"Someone","price":29.9}`+"\n")
	})

	t.Run("gets a non existing book should return a not found error", func(t *testing.T) {
		is := is.New(t)

		mockAPI.EXPECT().GetBook(gomock.Any(), int64(8)).Return(book.Book{}, book.ErrResponseBookNotFound)

		request, _ := http.NewRequest(http.MethodGet, "/books/8", nil)
		status, _, _ := serve(server, request)

		is.Equal(status, http.StatusNotFound)
	})
}

func TestListBooks(t *testing.T) {

	ctrl := gomock.NewController(t)
	mockAPI := httpmock.NewMockServiceAPI(ctrl)
	server := newServer(mockAPI)

	t.Run("lists all books without errors", func(t *testing.T) {
		is := is.New(t)

		stored := []book.Book{
			{ID: 1, Title: "First", Author: "A", Price: decimal.NewFromInt(1)},
			{ID: 2, Title: "Second", Author: "B", Price: decimal.RequireFromString("2.50")},
		}
		expectedJSONresponse := `{"books":[{"id":1,"title":"First","author":"A","price":1},{"id":2,"title":"Second","author":"B","price":2.5}]}` + "\n"

		mockAPI.EXPECT().ListBooks(gomock.Any()).Return(stored, nil)

		request, _ := http.NewRequest(http.MethodGet, "/books", nil)
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusOK)
		is.Equal(body, expectedJSONresponse)
	})

	t.Run("no books to list returns an empty list", func(t *testing.T) {
		is := is.New(t)

		mockAPI.EXPECT().ListBooks(gomock.Any()).Return([]book.Book{}, nil)

		request, _ := http.NewRequest(http.MethodGet, "/books", nil)
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusOK)
		is.Equal(body, `{"books":[]}`+"\n")
	})

	t.Run("expected error from repository", func(t *testing.T) {
		is := is.New(t)

		errRepo := book.ErrResponse{
			Code:    book.ErrResponseFromRepository.Code,
			Message: book.ErrResponseFromRepository.Message + "listing books from db: timeout",
		}
		mockAPI.EXPECT().ListBooks(gomock.Any()).Return(nil, errRepo)

		request, _ := http.NewRequest(http.MethodGet, "/books", nil)
		status, body, _ := serve(server, request)

		is.Equal(status, http.StatusInternalServerError)
		is.Equal(body, fmt.Sprintln(`{"error_code":108,"error_message":"error from repository:listing books from db: timeout"}`))
	})
}

func TestServer(t *testing.T) {

	ctrl := gomock.NewController(t)
	mockAPI := httpmock.NewMockServiceAPI(ctrl)
	server := newServer(mockAPI)

	t.Run("ping answers with no content", func(t *testing.T) {
		is := is.New(t)

		request, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		status, _, _ := serve(server, request)
		is.Equal(status, http.StatusNoContent)

		request, _ = http.NewRequest(http.MethodPost, "/ping", nil)
		status, _, _ = serve(server, request)
		is.Equal(status, http.StatusMethodNotAllowed)
	})

	t.Run("unsupported methods are not allowed", func(t *testing.T) {
		is := is.New(t)

		request, _ := http.NewRequest(http.MethodPatch, "/books", nil)
		status, _, _ := serve(server, request)
		is.Equal(status, http.StatusMethodNotAllowed)

		request, _ = http.NewRequest(http.MethodPost, "/books/1", nil)
		status, _, _ = serve(server, request)
		is.Equal(status, http.StatusMethodNotAllowed)
	})

	t.Run("generates a request id when the client sends none", func(t *testing.T) {
		is := is.New(t)

		request, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		_, _, header := serve(server, request)
		is.True(header.Get(bookhttp.RequestIDHeader) != "")
	})

	t.Run("echoes the request id sent by the client", func(t *testing.T) {
		is := is.New(t)

		request, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		request.Header.Set(bookhttp.RequestIDHeader, "req-42")
		_, _, header := serve(server, request)
		is.Equal(header.Get(bookhttp.RequestIDHeader), "req-42")
	})

	t.Run("a panicking handler answers with internal server error", func(t *testing.T) {
		is := is.New(t)

		mockAPI.EXPECT().ListBooks(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]book.Book, error) {
			panic("unexpected state")
		})

		request, _ := http.NewRequest(http.MethodGet, "/books", nil)
		status, body, header := serve(server, request)
		is.Equal(status, http.StatusInternalServerError)
		is.Equal(header.Get("content-type"), "application/json")
		is.Equal(body, fmt.Sprintln(`{"error_code":107,"error_message":"unexpected internal error."}`))
	})
}

// The create, update, delete walk-through against the real service and the in-memory store.
func TestBookLifecycle(t *testing.T) {
	is := is.New(t)

	store, err := inmemory.NewInMemoryStore()
	is.NoErr(err)
	server := newServer(book.NewService(store, nil, time.Second, zap.NewNop()))

	request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title": "Dune", "author": "Herbert", "price": 15.50}`))
	status, body, _ := serve(server, request)
	is.Equal(status, http.StatusCreated)

	var created bookhttp.BookResponse
	is.NoErr(json.Unmarshal([]byte(body), &created))
	is.True(created.ID > 0)
	is.Equal(created.Price.String(), "15.5")

	path := fmt.Sprintf("/books/%d", created.ID)

	request, _ = http.NewRequest(http.MethodPut, path, strings.NewReader(`{"title": "Dune (Reissue)", "author": "Herbert", "price": 17.00}`))
	status, body, _ = serve(server, request)
	is.Equal(status, http.StatusOK)
	is.Equal(body, fmt.Sprintf(`{"id":%d,"title":"Dune (Reissue)","author":"Herbert","price":17}`+"\n", created.ID))

	request, _ = http.NewRequest(http.MethodGet, "/books", nil)
	status, body, _ = serve(server, request)
	is.Equal(status, http.StatusOK)
	is.Equal(body, fmt.Sprintf(`{"books":[{"id":%d,"title":"Dune (Reissue)","author":"Herbert","price":17}]}`+"\n", created.ID))

	request, _ = http.NewRequest(http.MethodDelete, path, nil)
	status, _, _ = serve(server, request)
	is.Equal(status, http.StatusNoContent)

	request, _ = http.NewRequest(http.MethodGet, "/books", nil)
	status, body, _ = serve(server, request)
	is.Equal(status, http.StatusOK)
	is.Equal(body, `{"books":[]}`+"\n")

	// Missing ids leave the store untouched.
	request, _ = http.NewRequest(http.MethodPut, "/books/999999", strings.NewReader(`{"title": "t", "author": "a", "price": 1}`))
	status, _, _ = serve(server, request)
	is.Equal(status, http.StatusNotFound)

	request, _ = http.NewRequest(http.MethodDelete, "/books/999999", nil)
	status, _, _ = serve(server, request)
	is.Equal(status, http.StatusNotFound)

	request, _ = http.NewRequest(http.MethodGet, "/books", nil)
	_, body, _ = serve(server, request)
	is.Equal(body, `{"books":[]}`+"\n")
}

// Prices outside NUMERIC(10,2) are refused quickly and never reach the store.
func TestPriceOutOfRange(t *testing.T) {
	store, err := inmemory.NewInMemoryStore()
	if err != nil {
		t.Fatal(err)
	}
	server := newServer(book.NewService(store, nil, time.Second, zap.NewNop()))

	expectedJSONresponse := fmt.Sprintln(`{"error_code":104,"error_message":"the price must be lower than 100000000 in absolute value, with at most 20 decimal places."}`)

	t.Run("expected price out of range error on create", func(t *testing.T) {
		is := is.New(t)

		for _, price := range []string{"1e1000000", "1e-1000000", "123456789.00", "99999999.995", `"1e1000000"`} {
			start := time.Now()
			request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title": "t", "author": "a", "price": `+price+`}`))
			status, body, _ := serve(server, request)

			is.True(time.Since(start) < time.Second)
			is.Equal(status, http.StatusBadRequest)
			is.Equal(body, expectedJSONresponse)
		}

		books, err := store.ListBooks(context.Background())
		is.NoErr(err)
		is.Equal(len(books), 0)
	})

	t.Run("expected price out of range error on update", func(t *testing.T) {
		is := is.New(t)

		created, err := store.CreateBook(context.Background(), book.Book{Title: "Dune", Author: "Herbert", Price: decimal.RequireFromString("15.50")})
		is.NoErr(err)

		path := fmt.Sprintf("/books/%d", created.ID)
		request, _ := http.NewRequest(http.MethodPut, path, strings.NewReader(`{"title": "t", "author": "a", "price": 1e1000000}`))
		status, body, _ := serve(server, request)
		is.Equal(status, http.StatusBadRequest)
		is.Equal(body, expectedJSONresponse)

		request, _ = http.NewRequest(http.MethodGet, path, nil)
		status, body, _ = serve(server, request)
		is.Equal(status, http.StatusOK)
		is.Equal(body, fmt.Sprintf(`{"id":%d,"title":"Dune","author":"Herbert","price":15.5}`+"\n", created.ID))
	})

	t.Run("the largest price the column holds is accepted", func(t *testing.T) {
		is := is.New(t)

		request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title": "t", "author": "a", "price": 99999999.99}`))
		status, body, _ := serve(server, request)
		is.Equal(status, http.StatusCreated)

		var created bookhttp.BookResponse
		is.NoErr(json.Unmarshal([]byte(body), &created))
		is.Equal(created.Price.String(), "99999999.99")
	})
}
