package updates

import (
	updatesvc "seedlink-backend/internal/application/updates"
	"seedlink-backend/internal/middleware"
	"seedlink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *updatesvc.Service
}

// PostUpdate POST /api/v1/updates/post-update — startup owner posts an
// update, optionally restricted to major investors.
func (h *Handlers) PostUpdate(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req updatesvc.PostUpdateInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Title and content are required", 400, nil)
	}
	if req.Title == "" || req.Content == "" {
		return response.Error(c, "Title and content are required", 400, nil)
	}

	update, err := h.Service.PostUpdate(c.Context(), actor, req)
	if err != nil {
		statusMap := map[string]int{
			"Title is required":        400,
			"Content is required":      400,
			"Invalid visibility scope": 400,
			"Startup not found":        404,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Update posted successfully", fiber.Map{"update": update}, nil)
}

// GetStartupUpdates GET /api/v1/updates/get-updates/:startup_id —
// investor view, gated on a completed contribution and tier.
func (h *Handlers) GetStartupUpdates(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	startupID, err := uuid.Parse(c.Params("startup_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for startup_id", 400, nil)
	}

	out, err := h.Service.ListForInvestor(c.Context(), actor, startupID)
	if err != nil {
		switch err {
		case updatesvc.ErrStartupNotFound:
			return response.Error(c, err.Error(), 404, nil)
		case updatesvc.ErrNoContribution:
			return response.Error(c, err.Error(), 403, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Updates fetched successfully", fiber.Map{"updates": out}, nil)
}

// MyUpdates GET /api/v1/updates/my-updates — all updates on the
// caller's startup, both visibility scopes.
func (h *Handlers) MyUpdates(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.ListForOwner(c.Context(), actor)
	if err != nil {
		if err == updatesvc.ErrStartupNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Updates fetched successfully", fiber.Map{"updates": out}, nil)
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
