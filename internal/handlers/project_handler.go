package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aldikurniawan/workhive_be/internal/models"
)

type ProjectHandler struct {
	DB *gorm.DB
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{DB: db}
}

type CreateProjectReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      int64    `json:"budget"`
	Tags        []string `json:"tags"`
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	clientID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}

	var req CreateProjectReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Title is required",
		})
	}

	var tags datatypes.JSON
	if len(req.Tags) > 0 {
		b, _ := json.Marshal(req.Tags)
		tags = datatypes.JSON(b)
	}

	project := models.Project{
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Tags:        tags,
		Status:      models.ProjectStatusOpen,
	}
	if err := h.DB.Create(&project).Error; err != nil {
		return respondErr(c, err)
	}
	return respondCreated(c, project)
}

func (h *ProjectHandler) ListOpen(c *fiber.Ctx) error {
	var projects []models.Project
	if err := h.DB.Where("status = ?", models.ProjectStatusOpen).
		Order("created_at DESC").
		Limit(50).
		Find(&projects).Error; err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, projects)
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	projectID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var project models.Project
	if err := h.DB.Preload("Client").First(&project, "id = ?", projectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Project not found",
		})
	}
	return respondOK(c, project)
}

func (h *ProjectHandler) ListMine(c *fiber.Ctx) error {
	clientID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}

	var projects []models.Project
	if err := h.DB.Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, projects)
}
