package startups

import (
	startupsvc "seedlink-backend/internal/application/startups"
	"seedlink-backend/internal/domain"
	"seedlink-backend/internal/middleware"
	"seedlink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *startupsvc.Service
}

// CreateStartup POST /api/v1/startups/create-startup — startup role only
// (middleware applied on route).
func (h *Handlers) CreateStartup(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req startupsvc.CreateStartupInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if req.Name == "" || req.FundingStage == "" || req.FundingGoal == 0 {
		return response.Error(c, "Missing required fields", 400, nil)
	}

	startup, err := h.Service.CreateStartup(c.Context(), actor, req)
	if err != nil {
		statusMap := map[string]int{
			"Startup name is required":                     400,
			"Invalid funding stage":                        400,
			"Funding goal must be a positive number":       400,
			"Invalid wallet address":                       400,
			"Invalid UPI ID":                               400,
			"Startup profile already exists for this user": 409,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Startup created successfully", fiber.Map{"startup": publicStartup(startup)}, nil)
}

// GetAll GET /api/v1/startups/get-all-startups?stage= — any authenticated user.
func (h *Handlers) GetAll(c *fiber.Ctx) error {
	stage := c.Query("stage")
	out, err := h.Service.GetAll(c.Context(), stage)
	if err != nil {
		if err.Error() == "Invalid funding stage" {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	startups := make([]fiber.Map, 0, len(out))
	for i := range out {
		startups = append(startups, publicStartup(&out[i]))
	}
	return response.Success(c, "Startups fetched successfully", fiber.Map{"startups": startups}, nil)
}

// GetByID GET /api/v1/startups/get-startup/:startup_id
func (h *Handlers) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("startup_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for startup_id", 400, nil)
	}
	startup, err := h.Service.GetByID(c.Context(), id)
	if err != nil {
		if err.Error() == "Startup not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Startup found", fiber.Map{"startup": publicStartup(startup)}, nil)
}

// ViewMine GET /api/v1/startups/view-startup — the caller's own profile.
func (h *Handlers) ViewMine(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	startup, err := h.Service.GetByOwner(c.Context(), actor)
	if err != nil {
		if err.Error() == "Startup not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Startup found", fiber.Map{"startup": publicStartup(startup)}, nil)
}

// UpdateStartup PATCH /api/v1/startups/update-startup — owner only.
func (h *Handlers) UpdateStartup(c *fiber.Ctx) error {
	actor := getActor(c)
	if actor == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil || len(body) == 0 {
		return response.Error(c, "Missing update fields", 400, nil)
	}

	startup, err := h.Service.UpdateStartup(c.Context(), actor, body)
	if err != nil {
		statusMap := map[string]int{
			"Missing update fields":                  400,
			"No valid update fields provided":        400,
			"Invalid funding stage":                  400,
			"Funding goal must be a positive number": 400,
			"Invalid wallet address":                 400,
			"Invalid UPI ID":                         400,
			"Startup not found":                      404,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Startup updated successfully", fiber.Map{"startup": publicStartup(startup)}, nil)
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

// publicStartup exposes money fields as decimal amounts; cents stay internal.
func publicStartup(s *domain.Startup) fiber.Map {
	return fiber.Map{
		"startup_id":       s.StartupID.String(),
		"user_id":          s.UserID.String(),
		"name":             s.Name,
		"description":      s.Description,
		"pitch":            s.Pitch,
		"funding_stage":    s.FundingStage,
		"funding_goal":     float64(s.FundingGoalCents) / 100,
		"funds_raised":     float64(s.FundsRaisedCents) / 100,
		"wallet_address":   s.WalletAddress,
		"upi_id":           s.UpiID,
		"campaign_ends_at": s.CampaignEndsAt,
		"createdAt":        s.CreatedAt,
		"updatedAt":        s.UpdatedAt,
	}
}
