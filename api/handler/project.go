package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/prodhub/backend/api/transport"
	"github.com/prodhub/backend/pkg/httpcontext"
	"github.com/prodhub/backend/pkg/pagination"
	projectUC "github.com/prodhub/backend/usecase/project"
)

type ProjectHandler struct {
	baseHandler
	uc *projectUC.UseCase
}

func NewProjectHandler(uc *projectUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List projects
// @Tags projects
// @Router /api/projects [get]
func (h *ProjectHandler) GetProjects(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == 0 {
		return
	}

	params := pagination.Params{
		Page:    parseInt(string(ctx.QueryArgs().Peek("page")), 1),
		PerPage: parseInt(string(ctx.QueryArgs().Peek("per_page")), pagination.DefaultPerPage),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	page, err := h.uc.ListProjects(stdCtx, userID, params)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	resp := transport.ProjectListResponse{
		Projects:    make([]transport.ProjectResponse, 0, len(page.Items)),
		Total:       page.Total,
		Pages:       page.Pages,
		CurrentPage: page.CurrentPage,
		PerPage:     page.PerPage,
	}
	for i := range page.Items {
		resp.Projects = append(resp.Projects, transport.NewProjectResponse(&page.Items[i]))
	}
	h.respondJSON(ctx, http.StatusOK, resp)
}

// @Summary Get project
// @Tags projects
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetProject(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == 0 {
		return
	}
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	project, err := h.uc.GetProject(stdCtx, userID, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewProjectResponse(project))
}

// @Summary Create project
// @Tags projects
// @Router /api/projects [post]
func (h *ProjectHandler) CreateProject(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == 0 {
		return
	}

	patch, ok := h.parsePatch(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateProject(stdCtx, userID, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.NewProjectMutationResponse(created))
}

// @Summary Update project
// @Tags projects
// @Router /api/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == 0 {
		return
	}
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	patch, ok := h.parsePatch(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateProject(stdCtx, userID, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewProjectMutationResponse(updated))
}

// @Summary Delete project
// @Tags projects
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == 0 {
		return
	}
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteProject(stdCtx, userID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, map[string]bool{"success": true})
}

func (h *ProjectHandler) parsePatch(ctx *fasthttp.RequestCtx) (projectUC.Patch, bool) {
	var patch projectUC.Patch
	body := ctx.PostBody()
	if len(body) == 0 {
		return patch, true
	}
	if err := json.Unmarshal(body, &patch); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("invalid payload"))
		return patch, false
	}
	return patch, true
}
