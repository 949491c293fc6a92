package services

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"

	"claims_backoffice/models"

	"gorm.io/gorm"
)

// DocumentUpload describes an incoming claim document
type DocumentUpload struct {
	FileName     string
	Size         int64
	ContentType  string
	DocumentType string // optional, derived from the extension when empty
	Reader       io.Reader
}

// ListDocumentsByClaim returns a claim's documents newest first
func ListDocumentsByClaim(ctx context.Context, db *gorm.DB, claimID string) ([]models.ClaimDocument, error) {
	var documents []models.ClaimDocument
	err := db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("created_date DESC").
		Find(&documents).Error
	return documents, storeError("list", "document", err, nil)
}

// GetDocumentByID retrieves document metadata
func GetDocumentByID(ctx context.Context, db *gorm.DB, id string) (*models.ClaimDocument, error) {
	var document models.ClaimDocument
	if err := db.WithContext(ctx).First(&document, "id = ?", id).Error; err != nil {
		return nil, storeError("get", "document", err, ErrDocumentNotFound)
	}
	return &document, nil
}

// UploadClaimDocument stores the file and records its metadata. The stored
// object is removed again when the row cannot be written.
func UploadClaimDocument(ctx context.Context, db *gorm.DB, storage StorageProvider, actx AuditContext, claimID string, upload DocumentUpload) (*models.ClaimDocument, error) {
	fileName := strings.TrimSpace(filepath.Base(upload.FileName))
	detectedType, err := ValidateDocumentUpload(fileName, upload.Size)
	if err != nil {
		return nil, err
	}
	documentType := detectedType
	if upload.DocumentType != "" {
		if !models.IsValidDocumentType(upload.DocumentType) {
			return nil, &ValidationError{Fields: map[string]string{"document_type": "must be one of " + strings.Join(models.DocumentTypes, ", ")}}
		}
		documentType = upload.DocumentType
	}

	var claim models.Claim
	if err := db.WithContext(ctx).Select("id").First(&claim, "id = ?", claimID).Error; err != nil {
		return nil, storeError("get", "claim", err, ErrClaimNotFound)
	}

	contentType := upload.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimeTypeForExtension(filepath.Ext(fileName))
	}

	key := GenerateClaimDocumentKey(claimID, fileName)
	stored, err := storage.Put(ctx, key, upload.Reader, contentType, upload.Size)
	if err != nil {
		return nil, &StoreError{Op: "create", Entity: "document", Err: err}
	}

	document := models.ClaimDocument{
		ClaimID:      claimID,
		FileName:     fileName,
		StorageKey:   stored.Key,
		FileSize:     stored.FileSize,
		MimeType:     stored.MimeType,
		DocumentType: documentType,
		UploadedBy:   actx.Actor(),
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Claim").Create(&document).Error; err != nil {
			return err
		}
		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionCreate,
			ResourceType: models.AuditResourceDocument,
			ResourceID:   document.ID,
			ResourceName: document.FileName,
			ClaimID:      claimID,
			Description:  "Document uploaded",
			NewValues:    document,
		})
		return nil
	})
	if err != nil {
		if delErr := storage.Delete(ctx, stored.Key); delErr != nil {
			log.Printf("[WARNING] Failed to remove orphaned document %s: %v", stored.Key, delErr)
		}
		return nil, storeError("create", "document", err, nil)
	}

	return &document, nil
}

// OpenDocument returns the document's metadata and a reader over its content.
// The caller closes the reader.
func OpenDocument(ctx context.Context, db *gorm.DB, storage StorageProvider, id string) (*models.ClaimDocument, io.ReadCloser, error) {
	document, err := GetDocumentByID(ctx, db, id)
	if err != nil {
		return nil, nil, err
	}
	reader, _, err := storage.Get(ctx, document.StorageKey)
	if err != nil {
		return nil, nil, &StoreError{Op: "get", Entity: "document", Err: err}
	}
	return document, reader, nil
}

// DeleteDocument removes the row, detaches it from activities and then
// deletes the stored object. A failed object delete is only logged.
func DeleteDocument(ctx context.Context, db *gorm.DB, storage StorageProvider, actx AuditContext, id string) error {
	var document models.ClaimDocument
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&document, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Activity{}).
			Where("related_document_id = ?", id).
			Update("related_document_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&document).Error; err != nil {
			return err
		}
		LogAuditEvent(tx, actx, AuditEvent{
			Action:       models.AuditActionDelete,
			ResourceType: models.AuditResourceDocument,
			ResourceID:   document.ID,
			ResourceName: document.FileName,
			ClaimID:      document.ClaimID,
			Description:  "Document deleted",
			OldValues:    document,
		})
		return nil
	})
	if err != nil {
		return storeError("delete", "document", err, ErrDocumentNotFound)
	}

	if err := storage.Delete(ctx, document.StorageKey); err != nil {
		log.Printf("[WARNING] Failed to delete stored document %s: %v", document.StorageKey, err)
	}
	return nil
}
