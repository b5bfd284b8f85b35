package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pustakahub/pustaka-backend/internal/models"
)

type filePart struct {
	field       string
	filename    string
	contentType string
	content     []byte
}

func multipartRequest(t *testing.T, method, path, bearer string, fields map[string]string, files ...filePart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	return req
}

func decodeBook(t *testing.T, resp *http.Response) models.Book {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var book models.Book
	require.NoError(t, json.Unmarshal(data, &book))
	return book
}

func TestBooksRequireAuthentication(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest("GET", "/api/books", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCreateBookForbiddenForMembers(t *testing.T) {
	env := newTestEnv(t)
	member := env.bearer(t, "member@x.com", models.RoleMember)

	req := multipartRequest(t, "POST", "/api/books", member, map[string]string{"title": "Nope"})
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminCreatesBookWithCover(t *testing.T) {
	env := newTestEnv(t)
	admin := env.bearer(t, "admin@x.com", models.RoleAdmin)

	req := multipartRequest(t, "POST", "/api/books", admin,
		map[string]string{"title": "Go Basics", "description": "An introduction"},
		filePart{field: "cover", filename: "cover.png", contentType: "image/png", content: []byte("png")},
		filePart{field: "file", filename: "book.pdf", contentType: "application/pdf", content: []byte("%PDF")},
	)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	book := decodeBook(t, resp)
	require.Equal(t, "Go Basics", book.Title)
	require.True(t, strings.HasSuffix(book.Cover, "-cover.png"))
	require.True(t, strings.HasSuffix(book.File, "-book.pdf"))
}

func TestCreateBookRejectsBadCoverType(t *testing.T) {
	env := newTestEnv(t)
	admin := env.bearer(t, "admin@x.com", models.RoleAdmin)

	req := multipartRequest(t, "POST", "/api/books", admin,
		map[string]string{"title": "Go Basics"},
		filePart{field: "cover", filename: "cover.gif", contentType: "image/gif", content: []byte("gif")},
	)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListAndGetBooks(t *testing.T) {
	env := newTestEnv(t)
	admin := env.bearer(t, "admin@x.com", models.RoleAdmin)
	member := env.bearer(t, "member@x.com", models.RoleMember)

	createReq := multipartRequest(t, "POST", "/api/books", admin, map[string]string{"title": "Go Basics"})
	createResp, err := env.app.Test(createReq)
	require.NoError(t, err)
	created := decodeBook(t, createResp)

	// Reads are open to any authenticated identity.
	listReq := httptest.NewRequest("GET", "/api/books", nil)
	listReq.Header.Set("Authorization", member)
	listResp, err := env.app.Test(listReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, listResp.StatusCode)

	data, err := io.ReadAll(listResp.Body)
	require.NoError(t, err)
	var books []models.Book
	require.NoError(t, json.Unmarshal(data, &books))
	require.Len(t, books, 1)

	getReq := httptest.NewRequest("GET", "/api/books/"+created.ID.String(), nil)
	getReq.Header.Set("Authorization", member)
	getResp, err := env.app.Test(getReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, getResp.StatusCode)
}

func TestGetBookNotFound(t *testing.T) {
	env := newTestEnv(t)
	member := env.bearer(t, "member@x.com", models.RoleMember)

	req := httptest.NewRequest("GET", "/api/books/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", member)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateBookKeepsAssetsWithoutNewUpload(t *testing.T) {
	env := newTestEnv(t)
	admin := env.bearer(t, "admin@x.com", models.RoleAdmin)

	createReq := multipartRequest(t, "POST", "/api/books", admin,
		map[string]string{"title": "Go Basics"},
		filePart{field: "cover", filename: "cover.png", contentType: "image/png", content: []byte("png")},
	)
	createResp, err := env.app.Test(createReq)
	require.NoError(t, err)
	created := decodeBook(t, createResp)
	require.NotEmpty(t, created.Cover)

	updateReq := multipartRequest(t, "PUT", "/api/books/"+created.ID.String(), admin,
		map[string]string{"description": "Second edition"})
	updateResp, err := env.app.Test(updateReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, updateResp.StatusCode)

	updated := decodeBook(t, updateResp)
	require.Equal(t, "Go Basics", updated.Title)
	require.Equal(t, "Second edition", updated.Description)
	require.Equal(t, created.Cover, updated.Cover)
}

func TestDeleteBook(t *testing.T) {
	env := newTestEnv(t)
	admin := env.bearer(t, "admin@x.com", models.RoleAdmin)
	member := env.bearer(t, "member@x.com", models.RoleMember)

	createReq := multipartRequest(t, "POST", "/api/books", admin, map[string]string{"title": "Go Basics"})
	createResp, err := env.app.Test(createReq)
	require.NoError(t, err)
	created := decodeBook(t, createResp)

	// Members cannot delete.
	memberDel := httptest.NewRequest("DELETE", "/api/books/"+created.ID.String(), nil)
	memberDel.Header.Set("Authorization", member)
	resp, err := env.app.Test(memberDel)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	adminDel := httptest.NewRequest("DELETE", "/api/books/"+created.ID.String(), nil)
	adminDel.Header.Set("Authorization", admin)
	resp, err = env.app.Test(adminDel)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// A second delete reports not found.
	adminDel = httptest.NewRequest("DELETE", "/api/books/"+created.ID.String(), nil)
	adminDel.Header.Set("Authorization", admin)
	resp, err = env.app.Test(adminDel)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
