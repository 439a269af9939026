package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"notefiber-assign-be/internal/pkg/logger"
	"notefiber-assign-be/internal/pkg/serverutils"
	"notefiber-assign-be/internal/repository/memory"
	"notefiber-assign-be/internal/service"
	"notefiber-assign-be/pkg/assign"
	"notefiber-assign-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	app       *fiber.App
	user      uuid.UUID
	note      uuid.UUID
	work      uuid.UUID
	archive   uuid.UUID
	relations *memory.RelationStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		user:      uuid.New(),
		note:      uuid.New(),
		work:      uuid.New(),
		archive:   uuid.New(),
		relations: memory.NewRelationStore(),
	}
	h.relations.AddContainer(h.work.String(), "Work")
	h.relations.AddContainer(h.archive.String(), "Archive")
	require.NoError(t, h.relations.Link(context.Background(), h.work.String(), []string{h.note.String()}))

	svc := service.NewAssignService(
		map[string]*service.RelationKind{
			store.KindNotebook: service.NewInMemoryRelationKind(assign.Kind{
				Name:             store.KindNotebook,
				Nouns:            assign.Nouns{Subject: "note", Container: "notebook"},
				AllowMultiSelect: true,
			}, h.relations),
		},
		memory.NewDialogRepository(time.Minute),
		memory.NewCandidateCache(time.Minute),
		assign.NewSuggestionCache(memory.NewSuggestionStore(time.Hour)),
		nil,
		nil,
		logger.NewNopLogger(),
	)

	h.app = fiber.New()
	h.app.Use(serverutils.ErrorHandlerMiddleware())
	auth := func(ctx *fiber.Ctx) error {
		ctx.Locals("user_id", ctx.Get("X-User"))
		return ctx.Next()
	}
	NewAssignController(svc).RegisterRoutes(h.app.Group("/api"), auth)
	return h
}

func (h *harness) do(t *testing.T, method, path, body string, user uuid.UUID) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", user.String())
	resp, err := h.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp.StatusCode, env
}

func TestAssignController_OpenClickCommit(t *testing.T) {
	h := newHarness(t)

	status, env := h.do(t, "POST", "/api/assign/v1", `{"kind":"notebook","subject_ids":["`+h.note.String()+`"]}`, h.user)
	require.Equal(t, fiber.StatusOK, status)
	var dialog struct {
		Id string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dialog))
	require.NotEmpty(t, dialog.Id)

	status, _ = h.do(t, "POST", "/api/assign/v1/"+dialog.Id+"/click", `{"id":"`+h.archive.String()+`"}`, h.user)
	require.Equal(t, fiber.StatusOK, status)

	status, env = h.do(t, "POST", "/api/assign/v1/"+dialog.Id+"/commit", ``, h.user)
	require.Equal(t, fiber.StatusOK, status)
	var commit struct {
		Applied int    `json:"applied"`
		Summary string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &commit))
	assert.Equal(t, 2, commit.Applied)
	assert.Equal(t, "1 note added to Archive & removed from Work.", commit.Summary)
	assert.Equal(t, []string{h.note.String()}, h.relations.Linked(h.archive.String()))

	status, _ = h.do(t, "POST", "/api/assign/v1/"+dialog.Id+"/commit", ``, h.user)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestAssignController_ErrorStatuses(t *testing.T) {
	h := newHarness(t)

	status, env := h.do(t, "POST", "/api/assign/v1", `{"kind":"folder","subject_ids":[]}`, h.user)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)

	status, _ = h.do(t, "GET", "/api/assign/v1/missing", ``, h.user)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env = h.do(t, "POST", "/api/assign/v1", `{"kind":"notebook","subject_ids":["`+h.note.String()+`"]}`, h.user)
	require.Equal(t, fiber.StatusOK, status)
	var dialog struct {
		Id string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dialog))

	status, _ = h.do(t, "POST", "/api/assign/v1/"+dialog.Id+"/click", `{"id":"`+uuid.NewString()+`"}`, h.user)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = h.do(t, "POST", "/api/assign/v1/"+dialog.Id+"/suggestion/apply", ``, h.user)
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = h.do(t, "GET", "/api/assign/v1/"+dialog.Id, ``, uuid.New())
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = h.do(t, "POST", "/api/assign/v1/"+dialog.Id+"/containers", `{"title":"  "}`, h.user)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = h.do(t, "DELETE", "/api/assign/v1/"+dialog.Id, ``, h.user)
	assert.Equal(t, fiber.StatusOK, status)
}
