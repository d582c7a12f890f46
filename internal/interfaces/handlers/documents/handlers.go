package documents

import (
	docsvc "seedlink-backend/internal/application/documents"
	"seedlink-backend/internal/middleware"
	"seedlink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handlers bundles document handlers with the service.
type Handlers struct {
	Service *docsvc.Service
}

type uploadRequest struct {
	FileName string `json:"file_name"`
}

// SignDocumentUpload POST /api/v1/documents/sign-upload — returns a
// signed upload URL for the startup-docs bucket.
func (h *Handlers) SignDocumentUpload(c *fiber.Ctx) error {
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil || req.FileName == "" {
		return response.Error(c, "file_name is required", 400, nil)
	}

	res, err := h.Service.GetSignedUploadURL(c.Context(), docsvc.BucketStartupDocs, req.FileName)
	if err != nil {
		log.Error().Err(err).Str("bucket", docsvc.BucketStartupDocs).Msg("documents: failed to generate signed URL")
		return response.Error(c, "Failed to generate upload URL", 500, nil)
	}
	return response.Success(c, "Upload URL generated", res, nil)
}

// SignProfileImageUpload POST /api/v1/documents/sign-profile-image —
// signed upload URL for the profile-images bucket.
func (h *Handlers) SignProfileImageUpload(c *fiber.Ctx) error {
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil || req.FileName == "" {
		return response.Error(c, "file_name is required", 400, nil)
	}

	res, err := h.Service.GetSignedUploadURL(c.Context(), docsvc.BucketProfileImages, req.FileName)
	if err != nil {
		log.Error().Err(err).Str("bucket", docsvc.BucketProfileImages).Msg("documents: failed to generate signed URL")
		return response.Error(c, "Failed to generate upload URL", 500, nil)
	}
	return response.Success(c, "Upload URL generated", res, nil)
}

// CreateDocument POST /api/v1/documents/create-document — records
// metadata after the client finished the signed upload.
func (h *Handlers) CreateDocument(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req docsvc.CreateDocumentInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}

	doc, err := h.Service.CreateDocument(c.Context(), actor, req)
	if err != nil {
		statusMap := map[string]int{
			"Document name is required": 400,
			"Storage path is required":  400,
			"Invalid document size":     400,
			"Startup not found":         404,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Document recorded successfully", fiber.Map{"document": doc}, nil)
}

// GetStartupDocuments GET /api/v1/documents/get-documents/:startup_id
func (h *Handlers) GetStartupDocuments(c *fiber.Ctx) error {
	startupID, err := uuid.Parse(c.Params("startup_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for startup_id", 400, nil)
	}
	docs, err := h.Service.ListForStartup(c.Context(), startupID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Documents fetched successfully", fiber.Map{"documents": docs}, nil)
}

func getActor(c *fiber.Ctx) uuid.UUID {
	u := middleware.GetUser(c)
	m, ok := u.(map[string]interface{})
	if !ok {
		return uuid.Nil
	}
	idStr, _ := m["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil
	}
	return id
}
