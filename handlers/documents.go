package handlers

import (
	"net/http"
	"time"

	"claims_backoffice/db"
	"claims_backoffice/middleware"
	"claims_backoffice/services"
	"claims_backoffice/templates/pages"

	"github.com/labstack/echo/v4"
)

// GetClaimDocumentsHandler returns the documents attached to a claim
func GetClaimDocumentsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	claimID := c.Param("id")
	if _, err := services.GetClaimByID(ctx, db.DB, claimID); err != nil {
		return apiError(c, err)
	}

	documents, err := services.ListDocumentsByClaim(ctx, db.DB, claimID)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, documents)
}

// UploadClaimDocumentHandler stores a multipart "file" against a claim
func UploadClaimDocumentHandler(c echo.Context) error {
	ctx := c.Request().Context()
	claimID := c.Param("id")
	fromForm := wantsHTML(c)

	file, err := c.FormFile("file")
	if err != nil {
		return uploadError(c, claimID, fromForm, &services.ValidationError{Fields: map[string]string{"file": "is required"}})
	}
	src, err := file.Open()
	if err != nil {
		return uploadError(c, claimID, fromForm, err)
	}
	defer src.Close()

	document, err := services.UploadClaimDocument(ctx, db.DB, services.Storage, middleware.GetAuditContext(c), claimID, services.DocumentUpload{
		FileName:     file.Filename,
		Size:         file.Size,
		ContentType:  file.Header.Get(echo.HeaderContentType),
		DocumentType: c.FormValue("document_type"),
		Reader:       src,
	})
	if err != nil {
		return uploadError(c, claimID, fromForm, err)
	}

	if fromForm {
		return redirect(c, "/claims/"+claimID)
	}
	return c.JSON(http.StatusCreated, document)
}

func uploadError(c echo.Context, claimID string, fromForm bool, err error) error {
	if !fromForm {
		return apiError(c, err)
	}
	ve, ok := services.AsValidationError(err)
	if !ok {
		return pageError(c, err, "/claims")
	}
	claim, getErr := services.GetClaimByID(c.Request().Context(), db.DB, claimID)
	if getErr != nil {
		return pageError(c, getErr, "/claims")
	}
	view, viewErr := claimDetailView(c, claim)
	if viewErr != nil {
		return pageError(c, viewErr, "/claims")
	}
	view.UploadErrors = ve.Fields
	return render(c, http.StatusUnprocessableEntity, claim.ClaimNumber, "/claims", pages.ClaimDetail(view))
}

// DownloadDocumentHandler serves a document, redirecting to a signed URL for object storage
func DownloadDocumentHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if services.Storage.Name() == "s3" {
		document, err := services.GetDocumentByID(ctx, db.DB, id)
		if err != nil {
			return apiError(c, err)
		}
		url, err := services.Storage.GetSignedURL(ctx, document.StorageKey, 15*time.Minute)
		if err != nil {
			return apiError(c, err)
		}
		return c.Redirect(http.StatusTemporaryRedirect, url)
	}

	document, reader, err := services.OpenDocument(ctx, db.DB, services.Storage, id)
	if err != nil {
		return apiError(c, err)
	}
	defer reader.Close()

	contentType := document.MimeType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+document.FileName+"\"")
	return c.Stream(http.StatusOK, contentType, reader)
}

// DeleteDocumentHandler removes a document and its stored object
func DeleteDocumentHandler(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if !isFormRequest(c) {
		if err := services.DeleteDocument(ctx, db.DB, services.Storage, middleware.GetAuditContext(c), id); err != nil {
			return apiError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	document, err := services.GetDocumentByID(ctx, db.DB, id)
	if err == nil {
		err = services.DeleteDocument(ctx, db.DB, services.Storage, middleware.GetAuditContext(c), id)
	}
	if err != nil {
		return pageError(c, err, "/claims")
	}
	return redirect(c, "/claims/"+document.ClaimID)
}
