package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pustakahub/pustaka-backend/internal/models"
	"github.com/pustakahub/pustaka-backend/internal/repository"
)

var ErrBookNotFound = errors.New("book not found")

// BookCatalog is the external book store consumed by the book service.
type BookCatalog interface {
	List(ctx context.Context) ([]models.Book, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Save(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookInput carries the writable fields of a book. Title and Description are
// applied only when non-nil; Cover and File are applied only when non-empty,
// so assets survive updates that carry no new upload.
type BookInput struct {
	Title       *string
	Description *string
	Cover       string
	File        string
}

// BookService implements catalog CRUD. Authentication and role checks happen
// in the middleware pipeline before any of these methods run.
type BookService struct {
	books BookCatalog
}

func NewBookService(books BookCatalog) *BookService {
	return &BookService{books: books}
}

func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	return s.books.List(ctx)
}

func (s *BookService) Get(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *BookService) Create(ctx context.Context, input BookInput) (*models.Book, error) {
	book := &models.Book{
		Cover: input.Cover,
		File:  input.File,
	}
	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if book.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) Update(ctx context.Context, id uuid.UUID, input BookInput) (*models.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.Cover != "" {
		book.Cover = input.Cover
	}
	if input.File != "" {
		book.File = input.File
	}

	if err := s.books.Save(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.books.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrBookNotFound
	}
	return err
}
