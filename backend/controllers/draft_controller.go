package controllers

import (
	"errors"
	"sync"

	"academix/backend/config"
	"academix/backend/models"
	"academix/backend/utils"
	"academix/backend/wizard"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DraftController drives the three step course builder. Each instructor gets
// at most one wizard session at a time, held in memory behind a mutex.
type DraftController struct {
	DB  *gorm.DB
	Cfg *config.Config

	mu       sync.Mutex
	sessions map[uint]*draftSession
}

// draftSession pairs a wizard with its own lock. Handlers hold the lock for
// the whole operation, so two requests from the same instructor cannot
// interleave their step transitions.
type draftSession struct {
	mu sync.Mutex
	w  *wizard.Wizard
}

func NewDraftController(db *gorm.DB, cfg *config.Config) *DraftController {
	return &DraftController{
		DB:       db,
		Cfg:      cfg,
		sessions: make(map[uint]*draftSession),
	}
}

func (dc *DraftController) session(userID uint) (*draftSession, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	s, ok := dc.sessions[userID]
	return s, ok
}

// StartDraft opens a wizard session. With a courseId in the body it becomes
// an edit session seeded from the stored course, otherwise a fresh create.
func (dc *DraftController) StartDraft(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	// Body is optional: no courseId means a fresh create session.
	var input struct {
		CourseID uint `json:"courseId"`
	}
	_ = c.BodyParser(&input)

	var w *wizard.Wizard
	if input.CourseID != 0 {
		var course models.Course
		if err := dc.DB.First(&course, input.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound(c, "Course not found")
			}
			return utils.InternalServerError(c, "Could not query database")
		}
		if course.InstructorID != userID {
			return utils.Forbidden(c, "You don't have permission to edit this course")
		}
		w = wizard.NewEdit(course.ID, wizard.CourseInfo{
			Name:             course.Name,
			Description:      course.Description,
			WhatYouWillLearn: course.WhatYouWillLearn,
			Price:            course.Price,
			CategoryID:       course.CategoryID,
			Thumbnail:        course.Thumbnail,
		})
	} else {
		w = wizard.New()
	}

	dc.mu.Lock()
	dc.sessions[userID] = &draftSession{w: w}
	dc.mu.Unlock()

	return utils.SuccessMessage(c, "Draft session started", fiber.Map{
		"step":    w.Step().String(),
		"editing": w.Editing(),
	})
}

// SubmitInformation validates step one and persists the new course or the
// field diff of an edited one, then moves the session to the builder step.
func (dc *DraftController) SubmitInformation(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	s, ok := dc.session(userID)
	if !ok {
		return utils.BadRequest(c, "No active draft session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.w

	var input struct {
		Name             string  `json:"courseName"`
		Description      string  `json:"courseDescription"`
		WhatYouWillLearn string  `json:"whatYouWillLearn"`
		Price            float64 `json:"price"`
		CategoryID       uint    `json:"categoryId"`
		Thumbnail        string  `json:"thumbnail"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	info := wizard.CourseInfo{
		Name:             input.Name,
		Description:      input.Description,
		WhatYouWillLearn: input.WhatYouWillLearn,
		Price:            input.Price,
		CategoryID:       input.CategoryID,
		Thumbnail:        input.Thumbnail,
	}

	updates, err := w.SubmitInformation(info)
	if err != nil {
		if errors.Is(err, wizard.ErrNoChanges) {
			return utils.SuccessMessage(c, "No changes to save", fiber.Map{
				"step": w.Step().String(),
			})
		}
		return utils.BadRequest(c, err.Error())
	}

	if w.Editing() {
		if err := dc.DB.Model(&models.Course{}).
			Where("id = ?", w.CourseID()).
			Updates(updates).Error; err != nil {
			return utils.InternalServerError(c, "Could not update course")
		}
	} else {
		var category models.Category
		if err := dc.DB.First(&category, info.CategoryID).Error; err != nil {
			return utils.NotFound(c, "Category not found")
		}
		course := models.Course{
			Name:             info.Name,
			Description:      info.Description,
			WhatYouWillLearn: info.WhatYouWillLearn,
			Price:            info.Price,
			Thumbnail:        info.Thumbnail,
			Status:           models.CourseStatusDraft,
			InstructorID:     userID,
			CategoryID:       info.CategoryID,
		}
		if err := dc.DB.Create(&course).Error; err != nil {
			return utils.InternalServerError(c, "Could not create course")
		}
		w.AttachCourse(course.ID, info)
	}

	return utils.SuccessMessage(c, "Course information saved", fiber.Map{
		"courseId": w.CourseID(),
		"step":     w.Step().String(),
	})
}

// AdvanceBuilder checks the stored outline and moves the session from the
// builder step to publish. An empty outline or a section without lectures
// keeps the session where it is.
func (dc *DraftController) AdvanceBuilder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	s, ok := dc.session(userID)
	if !ok {
		return utils.BadRequest(c, "No active draft session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.w

	var sections []models.Section
	if err := dc.DB.Preload("SubSections").
		Where("course_id = ?", w.CourseID()).
		Order("position").
		Find(&sections).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	summaries := make([]wizard.SectionSummary, len(sections))
	for i, s := range sections {
		summaries[i] = wizard.SectionSummary{Name: s.Name, Lectures: len(s.SubSections)}
	}

	if err := w.AdvanceToPublish(summaries); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	return utils.SuccessMessage(c, "Course builder complete", fiber.Map{
		"step": w.Step().String(),
	})
}

func (dc *DraftController) Back(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	s, ok := dc.session(userID)
	if !ok {
		return utils.BadRequest(c, "No active draft session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.w

	if err := w.Back(); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	return utils.SuccessMessage(c, "Moved back a step", fiber.Map{
		"step": w.Step().String(),
	})
}

// Publish finishes the wizard. The course status only changes when the
// visibility choice differs from what is stored, so re-publishing a public
// course writes nothing.
func (dc *DraftController) Publish(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	s, ok := dc.session(userID)
	if !ok {
		return utils.BadRequest(c, "No active draft session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.w

	var input struct {
		Public bool `json:"public"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var course models.Course
	if err := dc.DB.First(&course, w.CourseID()).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}

	needsUpdate, err := w.Publish(input.Public, course.Status == models.CourseStatusPublished)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if needsUpdate {
		status := models.CourseStatusDraft
		if input.Public {
			status = models.CourseStatusPublished
		}
		if err := dc.DB.Model(&course).Update("status", status).Error; err != nil {
			return utils.InternalServerError(c, "Could not update course status")
		}
		course.Status = status
	}

	dc.mu.Lock()
	delete(dc.sessions, userID)
	dc.mu.Unlock()

	return utils.SuccessMessage(c, "Course saved", fiber.Map{
		"courseId": course.ID,
		"status":   course.Status,
	})
}
