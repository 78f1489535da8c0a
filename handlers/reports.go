package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"erecipe-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportHandler struct {
	DB *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db}
}

type reportInput struct {
	ContentID   string `json:"content_id" binding:"required"`
	ContentType string `json:"content_type" binding:"required,oneof=recipe comment"`
	Reason      string `json:"reason" binding:"required"`
	Description string `json:"description"`
}

// ReportView resolves the reporter's display name; credential fields
// never leave the store.
type ReportView struct {
	ID           string    `json:"id"`
	ContentID    string    `json:"contentId"`
	ContentType  string    `json:"contentType"`
	Reason       string    `json:"reason"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	ReporterName string    `json:"reporterName"`
}

func (h *ReportHandler) reportViews(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Report{}).
		Select(`reports.id, reports.content_id, reports.content_type, reports.reason,
			reports.description, reports.status, reports.created_at,
			users.username AS reporter_name`).
		Joins("JOIN users ON users.id = reports.reporter_id")
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	var input reportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ReportReasons[input.Reason] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report reason"})
		return
	}
	if uuid.Validate(input.ContentID) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content ID format"})
		return
	}

	if !h.contentExists(c, input.ContentType, input.ContentID) {
		return
	}

	report := models.Report{
		ReporterID:  c.GetString("user_id"),
		ContentID:   input.ContentID,
		ContentType: input.ContentType,
		Reason:      input.Reason,
		Description: input.Description,
		Status:      models.ReportPending,
	}
	if err := h.DB.Create(&report).Error; err != nil {
		log.Println("Error creating report:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Report submitted successfully", "report_id": report.ID})
}

func (h *ReportHandler) GetReports(c *gin.Context) {
	var reports []ReportView
	err := h.reportViews(h.DB).
		Order("reports.created_at DESC").
		Scan(&reports).Error
	if err != nil {
		log.Println("Error fetching reports:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}
	if reports == nil {
		reports = []ReportView{}
	}

	c.JSON(http.StatusOK, gin.H{"data": reports})
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	reportID := c.Param("id")
	if uuid.Validate(reportID) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID format"})
		return
	}

	var report ReportView
	result := h.reportViews(h.DB).Where("reports.id = ?", reportID).Scan(&report)
	if result.Error != nil {
		log.Println("Error fetching report:", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

// UpdateReportStatus applies a moderation decision. The only legal
// transitions are pending→resolved and pending→rejected.
func (h *ReportHandler) UpdateReportStatus(c *gin.Context) {
	reportID := c.Param("id")
	if uuid.Validate(reportID) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID format"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required,oneof=resolved rejected"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be resolved or rejected"})
		return
	}

	var report models.Report
	if err := h.DB.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		log.Println("Error fetching report:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update report"})
		return
	}

	if report.Status != models.ReportPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report has already been " + report.Status})
		return
	}

	if err := h.DB.Model(&report).Update("status", input.Status).Error; err != nil {
		log.Println("Error updating report:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report status updated", "status": input.Status})
}

// GetContentReports lists reports filed against one content item.
func (h *ReportHandler) GetContentReports(c *gin.Context) {
	contentID := c.Param("contentId")
	if uuid.Validate(contentID) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content ID format"})
		return
	}

	var reports []ReportView
	err := h.reportViews(h.DB).
		Where("reports.content_id = ?", contentID).
		Order("reports.created_at DESC").
		Scan(&reports).Error
	if err != nil {
		log.Println("Error fetching reports:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}
	if reports == nil {
		reports = []ReportView{}
	}

	c.JSON(http.StatusOK, gin.H{"data": reports})
}

func (h *ReportHandler) contentExists(c *gin.Context, contentType, contentID string) bool {
	var count int64
	var err error
	switch contentType {
	case models.ContentTypeRecipe:
		err = h.DB.Model(&models.Recipe{}).Where("id = ?", contentID).Count(&count).Error
	case models.ContentTypeComment:
		err = h.DB.Model(&models.Comment{}).Where("id = ?", contentID).Count(&count).Error
	}
	if err != nil {
		log.Println("Error checking reported content:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit report"})
		return false
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reported content not found"})
		return false
	}
	return true
}
