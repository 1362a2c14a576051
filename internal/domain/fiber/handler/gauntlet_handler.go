package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hirestack/gauntlet/internal/dto"
	"github.com/hirestack/gauntlet/internal/middleware"
	"github.com/hirestack/gauntlet/internal/phase"
	"github.com/hirestack/gauntlet/internal/repository"
	"github.com/hirestack/gauntlet/internal/usecase"
	"github.com/hirestack/gauntlet/internal/util"
)

type GauntletHandler struct {
	uc   *usecase.GauntletUsecase
	gate *usecase.SessionGate
}

func NewGauntletHandler(uc *usecase.GauntletUsecase, gate *usecase.SessionGate) *GauntletHandler {
	return &GauntletHandler{uc: uc, gate: gate}
}

func (h *GauntletHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/gauntlet/session", middleware.RateLimiter(10, time.Minute), h.OpenSession)

	session := app.Group("/gauntlet/:id", middleware.CandidateSession(h.gate), h.requireOwnSession)
	session.Get("/", h.Status)
	session.Post("/start", h.StartPhase)
	session.Post("/submit", middleware.RateLimiter(1, 2*time.Second), h.SubmitAnswer)
	session.Post("/evidence", h.Evidence)
	session.Get("/report", h.ExportReport)
	session.Delete("/", h.CloseSession)
}

// requireOwnSession pins each phase operation to the candidate the token was
// issued for.
func (h *GauntletHandler) requireOwnSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid candidate id",
		}, err)
	}
	if middleware.SessionCandidateID(c) != id {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusForbidden, Message: "session not valid for this candidate",
		})
	}
	return c.Next()
}

func (h *GauntletHandler) OpenSession(c *fiber.Ctx) error {
	var req dto.OpenSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	id, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid candidate id",
		}, err)
	}

	token, err := h.gate.Open(id, req.Secret)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "invalid credentials",
		}, err)
	}

	candidate, snapshot, err := h.uc.LoadSession(id)
	if err != nil {
		h.gate.Revoke(token)
		return h.mapError(c, err)
	}

	_, _, status, err := h.uc.Status(id)
	if err != nil {
		return h.mapError(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Session opened",
		Data: fiber.Map{
			"token":  token,
			"status": dto.NewGauntletStatusDTO(candidate, snapshot, status),
		},
	})
}

func (h *GauntletHandler) CloseSession(c *fiber.Ctx) error {
	id := middleware.SessionCandidateID(c)
	h.gate.Revoke(c.Get("X-Session-Token"))
	h.uc.EndSession(id)
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Session closed"})
}

func (h *GauntletHandler) Status(c *fiber.Ctx) error {
	id := middleware.SessionCandidateID(c)
	candidate, snapshot, status, err := h.uc.Status(id)
	if err != nil {
		return h.mapError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get gauntlet status",
		Data:    dto.NewGauntletStatusDTO(candidate, snapshot, status),
	})
}

func (h *GauntletHandler) StartPhase(c *fiber.Ctx) error {
	var req dto.StartPhaseRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	target := phase.Phase(req.Phase)
	if !phase.Valid(target) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: fmt.Sprintf("unknown phase %q", req.Phase),
		})
	}

	id := middleware.SessionCandidateID(c)
	if _, err := h.uc.StartPhase(c.Context(), id, target); err != nil {
		return h.mapError(c, err)
	}
	return h.Status(c)
}

func (h *GauntletHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}

	id := middleware.SessionCandidateID(c)
	if _, err := h.uc.SubmitAnswer(c.Context(), id, req.Answer); err != nil {
		return h.mapError(c, err)
	}
	return h.Status(c)
}

func (h *GauntletHandler) Evidence(c *fiber.Ctx) error {
	var req dto.EvidenceRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}

	id := middleware.SessionCandidateID(c)
	var err error
	switch req.Kind {
	case "hidden":
		err = h.uc.RecordHidden(id)
	case "transcript":
		err = h.uc.AppendTranscript(id, req.Transcript)
	case "permission":
		err = h.uc.SetCaptureBlocked(id, req.Blocked)
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: fmt.Sprintf("unknown evidence kind %q", req.Kind),
		})
	}
	if err != nil {
		return h.mapError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Evidence recorded"})
}

func (h *GauntletHandler) ExportReport(c *fiber.Ctx) error {
	id := middleware.SessionCandidateID(c)
	filename, content, err := h.uc.ExportReport(id)
	if err != nil {
		return h.mapError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.SendString(content)
}

func (h *GauntletHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrCandidateGone):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusNotFound, Message: "candidate no longer exists; session ended",
		}, err)
	case errors.Is(err, usecase.ErrNoSession):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusUnauthorized, Message: "no active session, open one first",
		}, err)
	case errors.Is(err, usecase.ErrGateInFlight):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusConflict, Message: "a review is already in progress",
		}, err)
	case errors.Is(err, usecase.ErrCaptureBlocked):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusForbidden, Message: "grant camera and microphone access to submit",
		}, err)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: err.Error(),
		}, err)
	case errors.Is(err, usecase.ErrJudgeUnavailable):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusServiceUnavailable, Message: "reviewer unavailable, please resubmit",
		}, err)
	}
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Message: "internal error",
	}, err)
}
