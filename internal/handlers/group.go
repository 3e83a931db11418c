package handlers

import (
	"context"

	"chattr/server/internal/groups"
	"chattr/server/internal/middleware"
	"chattr/server/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GroupService is the slice of the group directory the HTTP layer needs.
type GroupService interface {
	Create(ctx context.Context, creatorID string, params groups.CreateParams) (*models.GroupWithMembers, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Group, error)
	Get(ctx context.Context, groupID, requesterID string) (*models.GroupWithMembers, error)
	AddMembers(ctx context.Context, groupID, requesterID string, candidateIDs []string) (*models.GroupWithMembers, error)
	RemoveMember(ctx context.Context, groupID, requesterID, targetID string) (*models.GroupWithMembers, error)
	Update(ctx context.Context, groupID, requesterID string, params groups.UpdateParams) (*models.GroupWithMembers, error)
	Leave(ctx context.Context, groupID, requesterID string) error
	TransferAdmin(ctx context.Context, groupID, requesterID, newAdminID string) (*models.GroupWithMembers, error)
	Delete(ctx context.Context, groupID, requesterID string) error
}

// GroupHandler exposes the group directory over HTTP.
type GroupHandler struct {
	svc GroupService
	log *zap.Logger
}

func NewGroupHandler(svc GroupService, log *zap.Logger) *GroupHandler {
	return &GroupHandler{svc: svc, log: log}
}

// CreateGroupRequest represents create group request body
type CreateGroupRequest struct {
	Name         string                `json:"name"`
	Description  string                `json:"description,omitempty"`
	GroupPicture string                `json:"groupPicture,omitempty"`
	MemberIDs    []string              `json:"memberIds"`
	Settings     *models.GroupSettings `json:"settings,omitempty"`
}

// UpdateGroupRequest represents update group request body; absent fields are
// left unchanged.
type UpdateGroupRequest struct {
	Name         *string               `json:"name"`
	Description  *string               `json:"description"`
	GroupPicture *string               `json:"groupPicture"`
	Settings     *groups.SettingsPatch `json:"settings"`
}

// AddMembersRequest represents add members request body
type AddMembersRequest struct {
	MemberIDs []string `json:"memberIds"`
}

// RemoveMemberRequest represents remove member request body
type RemoveMemberRequest struct {
	MemberID string `json:"memberId"`
}

// TransferAdminRequest represents transfer ownership request body
type TransferAdminRequest struct {
	NewAdminID string `json:"newAdminId"`
}

// CreateGroup creates a new group with the caller as admin
func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	group, err := h.svc.Create(c.Context(), userID, groups.CreateParams{
		Name:         req.Name,
		Description:  req.Description,
		GroupPicture: req.GroupPicture,
		MemberIDs:    req.MemberIDs,
		Settings:     req.Settings,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Group created successfully",
		"data":    group,
	})
}

// GetGroups returns all groups for the current user, most recently active
// first
func (h *GroupHandler) GetGroups(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	list, err := h.svc.ListForUser(c.Context(), userID)
	if err != nil {
		return h.respondError(c, err)
	}
	if list == nil {
		list = []*models.Group{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    list,
	})
}

// GetGroupDetails returns group details with resolved member profiles
func (h *GroupHandler) GetGroupDetails(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	groupID := c.Params("groupId")

	group, err := h.svc.Get(c.Context(), groupID, userID)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    group,
	})
}

// UpdateGroup updates group name, description, picture or settings
func (h *GroupHandler) UpdateGroup(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	groupID := c.Params("groupId")

	var req UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	group, err := h.svc.Update(c.Context(), groupID, userID, groups.UpdateParams{
		Name:         req.Name,
		Description:  req.Description,
		GroupPicture: req.GroupPicture,
		Settings:     req.Settings,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Group updated successfully",
		"data":    group,
	})
}

// AddMembers adds new members to a group
func (h *GroupHandler) AddMembers(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	groupID := c.Params("groupId")

	var req AddMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	group, err := h.svc.AddMembers(c.Context(), groupID, userID, req.MemberIDs)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Members added successfully",
		"data":    group,
	})
}

// RemoveMember removes a member from a group (admin only)
func (h *GroupHandler) RemoveMember(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	groupID := c.Params("groupId")

	var req RemoveMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	group, err := h.svc.RemoveMember(c.Context(), groupID, userID, req.MemberID)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Member removed successfully",
		"data":    group,
	})
}

// LeaveGroup removes the caller from a group
func (h *GroupHandler) LeaveGroup(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	groupID := c.Params("groupId")

	if err := h.svc.Leave(c.Context(), groupID, userID); err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "You have left the group",
	})
}

// TransferAdmin hands group ownership to another member
func (h *GroupHandler) TransferAdmin(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	groupID := c.Params("groupId")

	var req TransferAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	group, err := h.svc.TransferAdmin(c.Context(), groupID, userID, req.NewAdminID)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Ownership transferred successfully",
		"data":    group,
	})
}

// DeleteGroup deletes a group and its provider channel (admin only)
func (h *GroupHandler) DeleteGroup(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	groupID := c.Params("groupId")

	if err := h.svc.Delete(c.Context(), groupID, userID); err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Group deleted successfully",
	})
}

func (h *GroupHandler) respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch groups.KindOf(err) {
	case groups.KindValidation, groups.KindInvariant:
		status = fiber.StatusBadRequest
	case groups.KindNotFound:
		status = fiber.StatusNotFound
	case groups.KindAuthorization:
		status = fiber.StatusForbidden
	case groups.KindProvider:
		status = fiber.StatusBadGateway
	}

	if status >= fiber.StatusInternalServerError {
		h.log.Error("group operation failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   groups.Message(err),
	})
}
