package controllers

import (
	"errors"

	"academix/backend/config"
	"academix/backend/models"
	"academix/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg}
}

// UpdateCourseProgress marks a lecture as completed for the calling student.
// The progress row is created on first touch; marking the same lecture again
// is a no-op that still reports success.
func (pc *ProgressController) UpdateCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		CourseID     uint `json:"courseId"`
		SubSectionID uint `json:"subSectionId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.CourseID == 0 || input.SubSectionID == 0 {
		return utils.BadRequest(c, "Course ID and lecture ID are required")
	}

	var enrollment models.Enrollment
	if err := pc.DB.Where("user_id = ? AND course_id = ?", userID, input.CourseID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Forbidden(c, "You are not enrolled in this course")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var sub models.SubSection
	if err := pc.DB.
		Joins("JOIN sections ON sections.id = sub_sections.section_id").
		Where("sub_sections.id = ? AND sections.course_id = ?", input.SubSectionID, input.CourseID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lecture does not belong to this course")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var progress models.CourseProgress
	err := pc.DB.Preload("CompletedVideos").
		Where("user_id = ? AND course_id = ?", userID, input.CourseID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.CourseProgress{UserID: userID, CourseID: input.CourseID}
		if err := pc.DB.Create(&progress).Error; err != nil {
			return utils.InternalServerError(c, "Could not create progress record")
		}
	} else if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	for _, done := range progress.CompletedVideos {
		if done.ID == sub.ID {
			return utils.SuccessMessage(c, "Lecture already completed", nil)
		}
	}

	if err := pc.DB.Model(&progress).Association("CompletedVideos").Append(&sub); err != nil {
		return utils.InternalServerError(c, "Could not update progress")
	}

	return utils.SuccessMessage(c, "Course progress updated", nil)
}
