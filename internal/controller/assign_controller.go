package controller

import (
	"notefiber-assign-be/internal/dto"
	"notefiber-assign-be/internal/pkg/serverutils"
	"notefiber-assign-be/internal/service"
	"notefiber-assign-be/pkg/assign"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAssignController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Open(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Click(ctx *fiber.Ctx) error
	CreateContainer(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	ApplySuggestion(ctx *fiber.Ctx) error
	Commit(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type assignController struct {
	service service.IAssignService
}

func NewAssignController(svc service.IAssignService) IAssignController {
	serverutils.RegisterErrorStatus(service.ErrDialogNotFound, fiber.StatusNotFound)
	serverutils.RegisterErrorStatus(service.ErrForbidden, fiber.StatusForbidden)
	serverutils.RegisterErrorStatus(service.ErrUnknownKind, fiber.StatusBadRequest)
	serverutils.RegisterErrorStatus(service.ErrUnknownContainer, fiber.StatusBadRequest)
	serverutils.RegisterErrorStatus(service.ErrNoSuggestion, fiber.StatusConflict)
	serverutils.RegisterErrorStatus(assign.ErrSessionClosed, fiber.StatusConflict)
	serverutils.RegisterErrorStatus(assign.ErrEmptyTitle, fiber.StatusBadRequest)

	return &assignController{service: svc}
}

func (c *assignController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/assign/v1")
	h.Use(auth)
	h.Post("", c.Open)
	h.Get(":id", c.Show)
	h.Post(":id/click", c.Click)
	h.Post(":id/containers", c.CreateContainer)
	h.Post(":id/reset", c.Reset)
	h.Post(":id/suggestion/apply", c.ApplySuggestion)
	h.Post(":id/commit", c.Commit)
	h.Delete(":id", c.Cancel)
}

func currentUser(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return userId, nil
}

func (c *assignController) Open(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.OpenAssignRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Open(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success open assign dialog", res))
}

func (c *assignController) Show(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.State(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get assign dialog", res))
}

func (c *assignController) Click(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.AssignClickRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Click(ctx.UserContext(), userId, ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update selection", res))
}

func (c *assignController) CreateContainer(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateContainerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateContainer(ctx.UserContext(), userId, ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create container", res))
}

func (c *assignController) Reset(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Reset(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset selection", res))
}

func (c *assignController) ApplySuggestion(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ApplySuggestion(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success apply suggestion", res))
}

func (c *assignController) Commit(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Commit(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success commit assign dialog", res))
}

func (c *assignController) Cancel(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Cancel(ctx.UserContext(), userId, ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success cancel assign dialog", nil))
}
