package handler

import (
	"github.com/labstack/echo/v4"

	"skysend/internal/infrastructure/storage"
	"skysend/pkg/errors"
	"skysend/pkg/logger"
	"skysend/pkg/response"
)

// maxUploadBytes caps multipart uploads at 8 MB.
const maxUploadBytes = 8 << 20

type FileHandler struct {
	storageClient *storage.CloudStorageClient
}

func NewFileHandler(storageClient *storage.CloudStorageClient) *FileHandler {
	return &FileHandler{
		storageClient: storageClient,
	}
}

var uploadFolders = map[string]struct {
	folder string
	public bool
}{
	"avatar":          {storage.FolderAvatars, true},
	"kyc":             {storage.FolderKycDocuments, false},
	"item_photo":      {storage.FolderItemPhotos, true},
	"chat_attachment": {storage.FolderChatAttachments, false},
}

// Upload stores a multipart file under the purpose-specific folder and
// returns its URL.
func (h *FileHandler) Upload(c echo.Context) error {
	purpose := c.FormValue("purpose")
	dest, ok := uploadFolders[purpose]
	if !ok {
		return response.Error(c, errors.BadRequest("purpose must be one of: avatar, kyc, item_photo, chat_attachment", nil))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("file is required", err))
	}

	if fileHeader.Size > maxUploadBytes {
		logger.Warn("Upload rejected, file too large: %d bytes", fileHeader.Size)
		return response.Error(c, errors.BadRequest("File exceeds the 8MB limit", nil))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.AllowedContentType(contentType) {
		logger.Warn("Upload rejected, unsupported type: %s", contentType)
		return response.Error(c, errors.BadRequest("Unsupported file type", nil))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read file", err))
	}
	defer src.Close()

	logger.Debug("Uploading %s (%d bytes) to %s", fileHeader.Filename, fileHeader.Size, dest.folder)

	url, err := h.storageClient.UploadFile(c.Request().Context(), src, contentType, dest.folder, dest.public)
	if err != nil {
		logger.Error("Upload to storage failed: %v", err)
		return response.Error(c, errors.Internal("Failed to upload file", err))
	}

	return response.Created(c, map[string]string{
		"url": url,
	})
}

type signedUploadRequest struct {
	Purpose     string `json:"purpose" validate:"required,oneof=avatar kyc item_photo chat_attachment"`
	ContentType string `json:"content_type" validate:"required"`
}

// SignedUploadURL lets clients upload large files straight to the bucket.
func (h *FileHandler) SignedUploadURL(c echo.Context) error {
	var req signedUploadRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if !storage.AllowedContentType(req.ContentType) {
		return response.Error(c, errors.BadRequest("Unsupported file type", nil))
	}

	dest := uploadFolders[req.Purpose]

	url, err := h.storageClient.GenerateSignedUploadURL(c.Request().Context(), req.ContentType, dest.folder, dest.public)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to generate upload URL", err))
	}

	return response.Success(c, map[string]string{
		"upload_url": url,
	})
}
