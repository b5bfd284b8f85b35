package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pustakahub/pustaka-backend/internal/dto"
	"github.com/pustakahub/pustaka-backend/internal/services"
	"github.com/pustakahub/pustaka-backend/internal/storage"
)

type BookHandler struct {
	bookService *services.BookService
	uploads     *storage.Store
}

func NewBookHandler(bookService *services.BookService, uploads *storage.Store) *BookHandler {
	return &BookHandler{bookService: bookService, uploads: uploads}
}

func (h *BookHandler) List(c *fiber.Ctx) error {
	books, err := h.bookService.List(c.Context())
	if err != nil {
		slog.Error("failed to list books", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch books",
		})
	}
	return c.JSON(books)
}

func (h *BookHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid book ID",
		})
	}

	book, err := h.bookService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Book not found",
			})
		}
		slog.Error("failed to fetch book", "error", err, "id", id)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch book",
		})
	}
	return c.JSON(book)
}

func (h *BookHandler) Create(c *fiber.Ctx) error {
	input, err := h.parseBookForm(c)
	if err != nil {
		return h.mapUploadError(c, err)
	}

	book, err := h.bookService.Create(c.Context(), *input)
	if err != nil {
		slog.Error("failed to create book", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create book",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(book)
}

func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid book ID",
		})
	}

	input, err := h.parseBookForm(c)
	if err != nil {
		return h.mapUploadError(c, err)
	}

	book, err := h.bookService.Update(c.Context(), id, *input)
	if err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Book not found",
			})
		}
		slog.Error("failed to update book", "error", err, "id", id)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update book",
		})
	}
	return c.JSON(book)
}

func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid book ID",
		})
	}

	if err := h.bookService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Book not found",
			})
		}
		slog.Error("failed to delete book", "error", err, "id", id)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete book",
		})
	}
	return c.JSON(fiber.Map{"message": "Book deleted successfully"})
}

// parseBookForm reads the multipart fields and stores any uploaded assets.
// Text fields are applied only when present in the form, so updates without
// them leave the record unchanged.
func (h *BookHandler) parseBookForm(c *fiber.Ctx) (*services.BookInput, error) {
	input := &services.BookInput{}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	if vals := form.Value["title"]; len(vals) > 0 {
		input.Title = &vals[0]
	}
	if vals := form.Value["description"]; len(vals) > 0 {
		input.Description = &vals[0]
	}

	if files := form.File["cover"]; len(files) > 0 {
		name, err := h.uploads.SaveCover(files[0])
		if err != nil {
			return nil, err
		}
		input.Cover = name
	}
	if files := form.File["file"]; len(files) > 0 {
		name, err := h.uploads.SaveDocument(files[0])
		if err != nil {
			return nil, err
		}
		input.File = name
	}

	return input, nil
}

func (h *BookHandler) mapUploadError(c *fiber.Ctx, err error) error {
	if errors.Is(err, storage.ErrUnsupportedMedia) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid multipart form",
	})
}
