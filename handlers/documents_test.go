package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"claims_backoffice/models"
	"claims_backoffice/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUpload builds a multipart request carrying one file under "file"
func setupUpload(t *testing.T, path, fileName string, content []byte, html bool) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	_, c, rec := setupEcho(http.MethodPost, path, nil)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	if html {
		req.Header.Set(echo.HeaderAccept, "text/html")
	}
	c.SetRequest(req)
	return c, rec
}

func TestUploadClaimDocumentHandler(t *testing.T) {
	database := setupTestDB(t)
	claim := createTestClaim(t, database, nil)
	path := "/api/claims/" + claim.ID + "/documents"

	t.Run("JSON", func(t *testing.T) {
		c, rec := setupUpload(t, path, "survey.pdf", []byte("%PDF-1.4 report"), false)
		withParam(c, "id", claim.ID)

		require.NoError(t, UploadClaimDocumentHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var document models.ClaimDocument
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &document))
		assert.Equal(t, "survey.pdf", document.FileName)
		assert.Equal(t, models.DocumentTypePdf, document.DocumentType)
		assert.Equal(t, "Tester", document.UploadedBy)
		assert.NotContains(t, rec.Body.String(), "storage_key")
	})

	t.Run("Rejected type from the page", func(t *testing.T) {
		c, rec := setupUpload(t, path, "payload.exe", []byte("MZ"), true)
		withParam(c, "id", claim.ID)

		require.NoError(t, UploadClaimDocumentHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "not allowed")
		assert.Contains(t, rec.Body.String(), claim.ClaimNumber)
	})

	t.Run("Missing file", func(t *testing.T) {
		c, rec := setupForm(http.MethodPost, path, url.Values{})
		c.Request().Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
		withParam(c, "id", claim.ID)

		require.NoError(t, UploadClaimDocumentHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "file")
	})

	t.Run("Unknown claim", func(t *testing.T) {
		c, rec := setupUpload(t, "/api/claims/missing/documents", "survey.pdf", []byte("x"), false)
		withParam(c, "id", "missing")

		require.NoError(t, UploadClaimDocumentHandler(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDownloadAndDeleteDocument(t *testing.T) {
	database := setupTestDB(t)
	claim := createTestClaim(t, database, nil)
	document, err := services.UploadClaimDocument(context.Background(), database, services.Storage, testActor, claim.ID, services.DocumentUpload{
		FileName: "notes.txt",
		Size:     5,
		Reader:   bytes.NewBufferString("hello"),
	})
	require.NoError(t, err)

	_, c, rec := setupEcho(http.MethodGet, "/api/documents/"+document.ID, nil)
	withParam(c, "id", document.ID)
	require.NoError(t, DownloadDocumentHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `filename="notes.txt"`)

	c, rec = setupForm(http.MethodDelete, "/api/documents/"+document.ID, url.Values{"_method": {"DELETE"}})
	withParam(c, "id", document.ID)
	require.NoError(t, DeleteDocumentHandler(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/claims/"+claim.ID, rec.Header().Get("Location"))

	_, c, rec = setupEcho(http.MethodGet, "/api/documents/"+document.ID, nil)
	withParam(c, "id", document.ID)
	require.NoError(t, DownloadDocumentHandler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
