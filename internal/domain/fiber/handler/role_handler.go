package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hirestack/gauntlet/internal/usecase"
	"github.com/hirestack/gauntlet/internal/util"
)

type RoleHandler struct {
	uc *usecase.RoleUsecase
}

func NewRoleHandler(uc *usecase.RoleUsecase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

func (h *RoleHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/roles", h.Create)
	app.Get("/roles", h.List)
}

func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}

	profile, err := h.uc.CreateRole(c.Context(), req.Title, req.Description)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to create role profile",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Role profile created",
		Data:    fiber.Map{"id": profile.ID, "title": profile.Title},
	})
}

func (h *RoleHandler) List(c *fiber.Ctx) error {
	profiles, err := h.uc.ListRoles()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list role profiles",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list role profiles",
		Data:    profiles,
	})
}
