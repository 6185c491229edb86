package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaintService}
}

// Create POST /api/complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.CreateComplaint(c.UserContext(), actor, service.CreateInput{
		PolicyNumber: req.PolicyNumber,
		Category:     req.Category,
		Priority:     req.Priority,
		Subject:      req.Subject,
		Description:  req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":   "Complaint created successfully",
		"complaint": dto.FromComplaint(complaint),
	})
}

// List GET /api/complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	result, err := h.complaints.ListComplaints(c.UserContext(), actor, parseListQuery(c))
	if err != nil {
		return err
	}

	items := make([]dto.ComplaintResponse, 0, len(result.Complaints))
	for i := range result.Complaints {
		items = append(items, dto.FromComplaint(&result.Complaints[i]))
	}

	pages := 0
	if result.Limit > 0 {
		pages = (result.Total + result.Limit - 1) / result.Limit
	}
	return c.JSON(dto.ListComplaintsResponse{
		Complaints: items,
		Pagination: dto.Pagination{
			Current: result.Page,
			Pages:   pages,
			Total:   result.Total,
		},
	})
}

// Get GET /api/complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	complaint, err := h.complaints.GetComplaint(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"complaint": dto.FromComplaint(complaint)})
}

// UpdateStatus PUT /api/complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.UpdateStatus(c.UserContext(), actor, c.Params("id"), req.Status, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":   "Status updated successfully",
		"complaint": dto.FromComplaint(complaint),
	})
}

// UpdatePriority PUT /api/complaints/:id/priority.
func (h *ComplaintsHandler) UpdatePriority(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.UpdatePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.UpdatePriority(c.UserContext(), actor, c.Params("id"), req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":   "Priority updated successfully",
		"complaint": dto.FromComplaint(complaint),
	})
}

// AddComment POST /api/complaints/:id/comments.
func (h *ComplaintsHandler) AddComment(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.AddComment(c.UserContext(), actor, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":   "Comment added successfully",
		"complaint": dto.FromComplaint(complaint),
	})
}

// Archive PUT /api/complaints/:id/archive.
func (h *ComplaintsHandler) Archive(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	complaint, err := h.complaints.ArchiveComplaint(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":   "Complaint archived successfully",
		"complaint": dto.FromComplaint(complaint),
	})
}

// Stats GET /api/complaints/stats.
func (h *ComplaintsHandler) Stats(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	stats, err := h.complaints.GetStats(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(dto.StatsResponse{
		Total:      stats.Total,
		Submitted:  stats.Submitted,
		InProgress: stats.InProgress,
		Resolved:   stats.Resolved,
		Closed:     stats.Closed,
		Critical:   stats.Critical,
	})
}

func parseListQuery(c *fiber.Ctx) service.ListInput {
	input := service.ListInput{
		SortBy:    c.Query("sortBy", "createdAt"),
		SortOrder: c.Query("sortOrder", "desc"),
		Page:      parseInt(c.Query("page"), 1),
		Limit:     parseInt(c.Query("limit"), 10),
	}
	if v := c.Query("status"); v != "" {
		status := domain.ComplaintStatus(v)
		input.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := domain.ComplaintPriority(v)
		input.Priority = &priority
	}
	if v := c.Query("category"); v != "" {
		category := domain.ComplaintCategory(v)
		input.Category = &category
	}
	if v := c.Query("search"); v != "" {
		input.Search = &v
	}
	return input
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
