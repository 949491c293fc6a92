package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"claims_backoffice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStorageProvider is a mock implementation of StorageProvider
type MockStorageProvider struct {
	mock.Mock
}

func (m *MockStorageProvider) Put(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (*StorageResult, error) {
	args := m.Called(ctx, key, reader, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StorageResult), args.Error(1)
}

func (m *MockStorageProvider) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorageProvider) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

func (m *MockStorageProvider) GetSignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, key, expiration)
	return args.String(0), args.Error(1)
}

func (m *MockStorageProvider) Name() string {
	return "mock"
}

func pdfUpload(name, content string) DocumentUpload {
	return DocumentUpload{
		FileName: name,
		Size:     int64(len(content)),
		Reader:   strings.NewReader(content),
	}
}

func TestUploadClaimDocument(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	storage := NewLocalStorage(t.TempDir())
	claim := createTestClaim(t, db, nil)

	document, err := UploadClaimDocument(ctx, db, storage, testActor, claim.ID, pdfUpload("../../Loss Report.pdf", "%PDF-1.4 report"))
	require.NoError(t, err)

	assert.Equal(t, "Loss Report.pdf", document.FileName)
	assert.Equal(t, models.DocumentTypePdf, document.DocumentType)
	assert.Equal(t, "application/pdf", document.MimeType)
	assert.Equal(t, int64(len("%PDF-1.4 report")), document.FileSize)
	assert.Equal(t, testActor.UserName, document.UploadedBy)
	assert.True(t, strings.HasPrefix(document.StorageKey, "claims/"+claim.ID+"/"))

	meta, reader, err := OpenDocument(ctx, db, storage, document.ID)
	require.NoError(t, err)
	defer reader.Close()
	content, _ := io.ReadAll(reader)
	assert.Equal(t, "%PDF-1.4 report", string(content))
	assert.Equal(t, document.ID, meta.ID)

	documents, err := ListDocumentsByClaim(ctx, db, claim.ID)
	require.NoError(t, err)
	assert.Len(t, documents, 1)

	// Claims with documents cannot be deleted
	assert.ErrorIs(t, DeleteClaim(ctx, db, testActor, claim.ID), ErrClaimHasDependents)
}

func TestUploadClaimDocumentValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	storage := new(MockStorageProvider)
	claim := createTestClaim(t, db, nil)

	t.Run("rejects unknown extension", func(t *testing.T) {
		_, err := UploadClaimDocument(ctx, db, storage, testActor, claim.ID, pdfUpload("malware.exe", "MZ"))
		ve, ok := AsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Fields["file"], "not allowed")
	})

	t.Run("rejects empty file", func(t *testing.T) {
		_, err := UploadClaimDocument(ctx, db, storage, testActor, claim.ID, pdfUpload("empty.pdf", ""))
		ve, ok := AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "is empty", ve.Fields["file"])
	})

	t.Run("rejects unknown document type", func(t *testing.T) {
		upload := pdfUpload("a.pdf", "x")
		upload.DocumentType = "Video"
		_, err := UploadClaimDocument(ctx, db, storage, testActor, claim.ID, upload)
		ve, ok := AsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Fields, "document_type")
	})

	t.Run("unknown claim", func(t *testing.T) {
		_, err := UploadClaimDocument(ctx, db, storage, testActor, "missing", pdfUpload("a.pdf", "x"))
		assert.ErrorIs(t, err, ErrClaimNotFound)
	})

	// None of the rejected uploads reached the storage
	storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadClaimDocumentStorageFailure(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	claim := createTestClaim(t, db, nil)

	storage := new(MockStorageProvider)
	storage.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/png", int64(3)).
		Return(nil, errors.New("bucket unavailable"))

	_, err := UploadClaimDocument(ctx, db, storage, testActor, claim.ID, pdfUpload("photo.png", "png"))
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "document", se.Entity)

	documents, err := ListDocumentsByClaim(ctx, db, claim.ID)
	require.NoError(t, err)
	assert.Empty(t, documents)
	storage.AssertExpectations(t)
}

func TestDeleteDocumentDetachesActivities(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	claim := createTestClaim(t, db, nil)

	storage := new(MockStorageProvider)
	storage.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&StorageResult{Key: "claims/k/photo.jpg", FileSize: 4, MimeType: "image/jpeg"}, nil)
	storage.On("Delete", mock.Anything, "claims/k/photo.jpg").Return(errors.New("already gone"))

	document, err := UploadClaimDocument(ctx, db, storage, testActor, claim.ID, pdfUpload("photo.jpg", "jpeg"))
	require.NoError(t, err)

	activity, err := CreateActivity(ctx, db, testActor, ActivityInput{
		ClaimID: claim.ID, Title: "Check photo", Assignee: "ana", Role: models.ActivityRoleSurveyor,
		DueDate: "2024-03-10", RelatedDocumentID: &document.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, activity.RelatedDocumentID)

	// A failing object delete does not fail the operation
	require.NoError(t, DeleteDocument(ctx, db, storage, testActor, document.ID))

	reloaded, err := GetActivityByID(ctx, db, activity.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.RelatedDocumentID)

	_, err = GetDocumentByID(ctx, db, document.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.ErrorIs(t, DeleteDocument(ctx, db, storage, testActor, document.ID), ErrDocumentNotFound)
	storage.AssertExpectations(t)
}
