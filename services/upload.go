package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"claims_backoffice/models"
)

const MaxUploadSize = 10 * 1024 * 1024 // 10MB

// extensionDocumentTypes lists accepted extensions and the document type they imply
var extensionDocumentTypes = map[string]string{
	".pdf":  models.DocumentTypePdf,
	".doc":  models.DocumentTypeDoc,
	".docx": models.DocumentTypeDoc,
	".txt":  models.DocumentTypeDoc,
	".xls":  models.DocumentTypeXls,
	".xlsx": models.DocumentTypeXls,
	".csv":  models.DocumentTypeXls,
	".jpg":  models.DocumentTypeImage,
	".jpeg": models.DocumentTypeImage,
	".png":  models.DocumentTypeImage,
}

// ValidateDocumentUpload checks size and extension and returns the document
// type implied by the extension
func ValidateDocumentUpload(fileName string, size int64) (string, error) {
	ve := &ValidationError{}
	if size <= 0 {
		ve.Add("file", "is empty")
	}
	if size > MaxUploadSize {
		ve.Add("file", "exceeds maximum allowed size of 10MB")
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	documentType, ok := extensionDocumentTypes[ext]
	if !ok {
		ve.Add("file", fmt.Sprintf("type %q not allowed. Accepted formats: PDF, DOC, DOCX, TXT, XLS, XLSX, CSV, JPG, PNG", ext))
	}

	return documentType, ve.orNil()
}

func mimeTypeForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	case ".txt":
		return "text/plain"
	}
	return "application/octet-stream"
}
