package book

import (
	"context"
	"time"

	"go.uber.org/zap"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

type Repository interface {
	ListBooks(ctx context.Context) ([]Book, error)
	GetBookByID(ctx context.Context, id int64) (Book, error)
	CreateBook(ctx context.Context, bookEntry Book) (Book, error)
	UpdateBook(ctx context.Context, bookEntry Book) (Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type Notifier interface {
	BookCreated(ctx context.Context, b Book) error
}

type Service struct {
	repo                 Repository
	ntfy                 Notifier
	notificationsTimeout time.Duration
	log                  *zap.Logger
}

func NewService(repo Repository, ntfy Notifier, notificationsTimeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		repo:                 repo,
		ntfy:                 ntfy,
		notificationsTimeout: notificationsTimeout,
		log:                  logger.Named("book"),
	}
}

func (s *Service) ListBooks(ctx context.Context) ([]Book, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, repositoryError(err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

func (s *Service) GetBook(ctx context.Context, id int64) (Book, error) {
	b, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return Book{}, repositoryError(err)
	}
	return b, nil
}

func (s *Service) CreateBook(ctx context.Context, req CreateBookRequest) (Book, error) {
	price, err := NormalizePrice(req.Price)
	if err != nil {
		return Book{}, err
	}

	newBook := Book{
		Title:  req.Title,
		Author: req.Author,
		Price:  price,
	}

	createdBook, err := s.repo.CreateBook(ctx, newBook)
	if err != nil {
		return Book{}, repositoryError(err)
	}

	// Detached from the request context, bounded by notificationsTimeout.
	go s.notifyBookCreated(createdBook)

	return createdBook, nil
}

func (s *Service) UpdateBook(ctx context.Context, req UpdateBookRequest) (Book, error) {
	price, err := NormalizePrice(req.Price)
	if err != nil {
		return Book{}, err
	}

	bookEntry := Book{
		ID:     req.ID,
		Title:  req.Title,
		Author: req.Author,
		Price:  price,
	}

	updatedBook, err := s.repo.UpdateBook(ctx, bookEntry)
	if err != nil {
		return Book{}, repositoryError(err)
	}
	return updatedBook, nil
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	err := s.repo.DeleteBook(ctx, id)
	if err != nil {
		return repositoryError(err)
	}
	return nil
}

func (s *Service) notifyBookCreated(b Book) {
	if s.ntfy == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.notificationsTimeout)
	defer cancel()

	err := s.ntfy.BookCreated(ctx, b)
	if err != nil {
		s.log.Warn("book created notification failed", zap.Int64("book_id", b.ID), zap.Error(err))
	}
}
