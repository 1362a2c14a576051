package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hirestack/gauntlet/internal/dto"
	"github.com/hirestack/gauntlet/internal/model"
	"github.com/hirestack/gauntlet/internal/repository"
	"github.com/hirestack/gauntlet/internal/util"
)

// CandidateHandler is the operator-facing CRUD surface. Deleting a candidate
// here while their session is live is the ghost race the persistence layer
// absorbs.
type CandidateHandler struct {
	repo *repository.CandidateRepository
}

func NewCandidateHandler(repo *repository.CandidateRepository) *CandidateHandler {
	return &CandidateHandler{repo: repo}
}

func (h *CandidateHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/candidates", h.Create)
	app.Get("/candidates/:id", h.Get)
	app.Delete("/candidates/:id", h.Delete)
	app.Get("/candidates/:id/log", h.Log)
}

func (h *CandidateHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	if req.Name == "" || req.Role == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "name and role are required",
		})
	}

	snapshot, err := model.NewSnapshot().Encode()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to initialize assessment state",
		}, err)
	}
	candidate := model.Candidate{
		Name:          req.Name,
		Email:         req.Email,
		Role:          req.Role,
		Narrative:     req.Narrative,
		Skills:        req.Skills,
		GauntletState: snapshot,
	}
	if err := h.repo.CreateCandidate(&candidate); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to create candidate",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Candidate created",
		Data:    h.toDTO(&candidate),
	})
}

func (h *CandidateHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid candidate id",
		}, err)
	}
	candidate, err := h.repo.FindCandidateByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateGone) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code: fiber.StatusNotFound, Message: "candidate not found",
			}, err)
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to load candidate",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get candidate",
		Data:    h.toDTO(candidate),
	})
}

func (h *CandidateHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid candidate id",
		}, err)
	}
	if err := h.repo.DeleteCandidate(id); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to delete candidate",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Candidate deleted"})
}

func (h *CandidateHandler) Log(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid candidate id",
		}, err)
	}
	entries, err := h.repo.ListLog(id)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to load event log",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get event log",
		Data:    entries,
	})
}

func (h *CandidateHandler) toDTO(candidate *model.Candidate) dto.CandidateDTO {
	phaseLabel := "Locked"
	if snapshot, err := model.DecodeSnapshot(candidate.GauntletState); err == nil {
		phaseLabel = snapshot.Phase.Label()
	}
	return dto.CandidateDTO{
		ID:                candidate.ID,
		Name:              candidate.Name,
		Email:             candidate.Email,
		Role:              candidate.Role,
		Skills:            candidate.Skills,
		Phase:             phaseLabel,
		GauntletStartDate: candidate.GauntletStartDate,
		Archived:          candidate.Archived,
		CommunicationSent: candidate.CommunicationSent,
		CreatedAt:         candidate.CreatedAt,
	}
}
