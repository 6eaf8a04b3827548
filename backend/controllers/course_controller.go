package controllers

import (
	"errors"
	"strconv"

	"academix/backend/config"
	"academix/backend/models"
	"academix/backend/services"
	"academix/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CourseController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Store services.Storage
}

func NewCourseController(db *gorm.DB, cfg *config.Config, store services.Storage) *CourseController {
	return &CourseController{DB: db, Cfg: cfg, Store: store}
}

type CreateCourseRequest struct {
	Name             string  `json:"courseName" validate:"required"`
	Description      string  `json:"courseDescription" validate:"required"`
	WhatYouWillLearn string  `json:"whatYouWillLearn"`
	Price            float64 `json:"price" validate:"gte=0"`
	CategoryID       uint    `json:"categoryId" validate:"required"`
	Thumbnail        string  `json:"thumbnail"`
}

// CreateCourse starts a new Draft course owned by the calling instructor.
func (cc *CourseController) CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input CreateCourseRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var category models.Category
	if err := cc.DB.First(&category, input.CategoryID).Error; err != nil {
		return utils.NotFound(c, "Category not found")
	}

	course := models.Course{
		Name:             input.Name,
		Description:      input.Description,
		WhatYouWillLearn: input.WhatYouWillLearn,
		Price:            input.Price,
		Thumbnail:        input.Thumbnail,
		Status:           models.CourseStatusDraft,
		InstructorID:     userID,
		CategoryID:       input.CategoryID,
	}

	if err := cc.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return utils.SuccessMessage(c, "Course created", course)
}

// EditCourse applies a partial update: only the fields present in the body
// change, matching the diff the course-builder wizard submits. Status is a
// regular editable field here, which is how publishing lands in the store.
func (cc *CourseController) EditCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		CourseID         uint     `json:"courseId"`
		Name             *string  `json:"courseName"`
		Description      *string  `json:"courseDescription"`
		WhatYouWillLearn *string  `json:"whatYouWillLearn"`
		Price            *float64 `json:"price"`
		CategoryID       *uint    `json:"categoryId"`
		Thumbnail        *string  `json:"thumbnail"`
		Status           *string  `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.CourseID == 0 {
		return utils.BadRequest(c, "Course ID is required")
	}

	var course models.Course
	if err := cc.DB.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if course.InstructorID != userID {
		return utils.Forbidden(c, "You don't have permission to edit this course")
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.WhatYouWillLearn != nil {
		updates["what_you_will_learn"] = *input.WhatYouWillLearn
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return utils.BadRequest(c, "Course price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.CategoryID != nil {
		var category models.Category
		if err := cc.DB.First(&category, *input.CategoryID).Error; err != nil {
			return utils.NotFound(c, "Category not found")
		}
		updates["category_id"] = *input.CategoryID
	}
	if input.Thumbnail != nil {
		updates["thumbnail"] = *input.Thumbnail
	}
	if input.Status != nil {
		if *input.Status != models.CourseStatusDraft && *input.Status != models.CourseStatusPublished {
			return utils.BadRequest(c, "Invalid course status")
		}
		updates["status"] = *input.Status
	}

	if len(updates) > 0 {
		if err := cc.DB.Model(&course).Updates(updates).Error; err != nil {
			return utils.InternalServerError(c, "Could not update course")
		}
	}

	if err := cc.DB.Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Sections.SubSections").
		First(&course, course.ID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.SuccessMessage(c, "Course updated", course)
}

func (cc *CourseController) GetCourseDetails(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Sections.SubSections").
		Preload("Reviews").
		First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var enrolled int64
	cc.DB.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrolled)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course":           course,
		"studentsEnrolled": enrolled,
	})
}

func (cc *CourseController) GetInstructorCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var courses []models.Course
	if err := cc.DB.
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Sections.SubSections").
		Where("instructor_id = ?", userID).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, courses)
}

// DeleteCourse removes the course and everything hanging off it.
func (cc *CourseController) DeleteCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.Preload("Sections").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if course.InstructorID != userID {
		return utils.Forbidden(c, "You don't have permission to delete this course")
	}

	if err := cc.DB.Transaction(func(tx *gorm.DB) error {
		for _, section := range course.Sections {
			if err := tx.Where("section_id = ?", section.ID).Delete(&models.SubSection{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Section{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.CourseProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	}); err != nil {
		return utils.InternalServerError(c, "Could not delete course", err.Error())
	}

	return utils.SuccessMessage(c, "Course deleted", nil)
}

// --- Sections ---

func (cc *CourseController) CreateSection(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		CourseID    uint   `json:"courseId"`
		SectionName string `json:"sectionName"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.CourseID == 0 || input.SectionName == "" {
		return utils.BadRequest(c, "Course ID and section name are required")
	}

	course, errResp := cc.ownedCourse(c, input.CourseID, userID)
	if course == nil {
		return errResp
	}

	var count int64
	cc.DB.Model(&models.Section{}).Where("course_id = ?", course.ID).Count(&count)

	section := models.Section{
		CourseID: course.ID,
		Name:     input.SectionName,
		Position: int(count) + 1,
	}
	if err := cc.DB.Create(&section).Error; err != nil {
		return utils.InternalServerError(c, "Could not create section")
	}

	return cc.courseWithContent(c, course.ID, "Section created")
}

func (cc *CourseController) UpdateSection(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		CourseID    uint   `json:"courseId"`
		SectionID   uint   `json:"sectionId"`
		SectionName string `json:"sectionName"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.SectionID == 0 || input.SectionName == "" {
		return utils.BadRequest(c, "Section ID and section name are required")
	}

	course, errResp := cc.ownedCourse(c, input.CourseID, userID)
	if course == nil {
		return errResp
	}

	var section models.Section
	if err := cc.DB.Where("id = ? AND course_id = ?", input.SectionID, course.ID).First(&section).Error; err != nil {
		return utils.NotFound(c, "Section not found")
	}

	section.Name = input.SectionName
	if err := cc.DB.Save(&section).Error; err != nil {
		return utils.InternalServerError(c, "Could not update section")
	}

	return cc.courseWithContent(c, course.ID, "Section updated")
}

// DeleteSection drops the section with its lectures and renumbers the
// remaining positions so navigation stays gapless.
func (cc *CourseController) DeleteSection(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		CourseID  uint `json:"courseId"`
		SectionID uint `json:"sectionId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	course, errResp := cc.ownedCourse(c, input.CourseID, userID)
	if course == nil {
		return errResp
	}

	var section models.Section
	if err := cc.DB.Where("id = ? AND course_id = ?", input.SectionID, course.ID).First(&section).Error; err != nil {
		return utils.NotFound(c, "Section not found")
	}

	if err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id = ?", section.ID).Delete(&models.SubSection{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&section).Error; err != nil {
			return err
		}

		var remaining []models.Section
		if err := tx.Where("course_id = ?", course.ID).Order("position").Find(&remaining).Error; err != nil {
			return err
		}
		for i := range remaining {
			if remaining[i].Position != i+1 {
				if err := tx.Model(&remaining[i]).Update("position", i+1).Error; err != nil {
					return err
				}
			}
		}
		return nil
	}); err != nil {
		return utils.InternalServerError(c, "Could not delete section", err.Error())
	}

	return cc.courseWithContent(c, course.ID, "Section deleted")
}

// --- SubSections (lectures) ---

func (cc *CourseController) CreateSubSection(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	sectionID, err := strconv.Atoi(c.FormValue("sectionId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid section ID")
	}
	title := c.FormValue("title")
	description := c.FormValue("description")
	timeDuration := c.FormValue("timeDuration")
	if title == "" {
		return utils.BadRequest(c, "Lecture title is required")
	}

	var section models.Section
	if err := cc.DB.First(&section, sectionID).Error; err != nil {
		return utils.NotFound(c, "Section not found")
	}

	course, errResp := cc.ownedCourse(c, section.CourseID, userID)
	if course == nil {
		return errResp
	}

	videoURL := c.FormValue("videoUrl")
	if fileHeader, err := c.FormFile("video"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return utils.InternalServerError(c, "Could not read uploaded video")
		}
		defer file.Close()

		videoURL, err = cc.Store.Upload(cc.Cfg.FolderName, fileHeader.Filename, file)
		if err != nil {
			return utils.InternalServerError(c, "Could not upload video", err.Error())
		}
	}
	if videoURL == "" {
		return utils.BadRequest(c, "Lecture video is required")
	}

	sub := models.SubSection{
		SectionID:    section.ID,
		Title:        title,
		Description:  description,
		TimeDuration: timeDuration,
		VideoURL:     videoURL,
	}
	if err := cc.DB.Create(&sub).Error; err != nil {
		return utils.InternalServerError(c, "Could not create lecture")
	}

	return cc.courseWithContent(c, course.ID, "Lecture created")
}

func (cc *CourseController) UpdateSubSection(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		SubSectionID uint   `json:"subSectionId"`
		Title        string `json:"title"`
		Description  string `json:"description"`
		TimeDuration string `json:"timeDuration"`
		VideoURL     string `json:"videoUrl"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.SubSectionID == 0 {
		return utils.BadRequest(c, "SubSection ID is required")
	}

	var sub models.SubSection
	if err := cc.DB.First(&sub, input.SubSectionID).Error; err != nil {
		return utils.NotFound(c, "Lecture not found")
	}

	var section models.Section
	if err := cc.DB.First(&section, sub.SectionID).Error; err != nil {
		return utils.NotFound(c, "Section not found")
	}

	course, errResp := cc.ownedCourse(c, section.CourseID, userID)
	if course == nil {
		return errResp
	}

	if input.Title != "" {
		sub.Title = input.Title
	}
	if input.Description != "" {
		sub.Description = input.Description
	}
	if input.TimeDuration != "" {
		sub.TimeDuration = input.TimeDuration
	}
	if input.VideoURL != "" {
		sub.VideoURL = input.VideoURL
	}

	if err := cc.DB.Save(&sub).Error; err != nil {
		return utils.InternalServerError(c, "Could not update lecture")
	}

	return cc.courseWithContent(c, course.ID, "Lecture updated")
}

func (cc *CourseController) DeleteSubSection(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		SubSectionID uint `json:"subSectionId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var sub models.SubSection
	if err := cc.DB.First(&sub, input.SubSectionID).Error; err != nil {
		return utils.NotFound(c, "Lecture not found")
	}

	var section models.Section
	if err := cc.DB.First(&section, sub.SectionID).Error; err != nil {
		return utils.NotFound(c, "Section not found")
	}

	course, errResp := cc.ownedCourse(c, section.CourseID, userID)
	if course == nil {
		return errResp
	}

	if err := cc.DB.Delete(&sub).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete lecture")
	}

	return cc.courseWithContent(c, course.ID, "Lecture deleted")
}

// ownedCourse loads the course and enforces instructor ownership. A nil
// course means the accompanying error response was already written.
func (cc *CourseController) ownedCourse(c *fiber.Ctx, courseID, userID uint) (*models.Course, error) {
	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound(c, "Course not found")
		}
		return nil, utils.InternalServerError(c, "Could not query database")
	}
	if course.InstructorID != userID {
		return nil, utils.Forbidden(c, "You don't have permission to modify this course")
	}
	return &course, nil
}

func (cc *CourseController) courseWithContent(c *fiber.Ctx, courseID uint, message string) error {
	var course models.Course
	if err := cc.DB.
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Sections.SubSections").
		First(&course, courseID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.SuccessMessage(c, message, course)
}
