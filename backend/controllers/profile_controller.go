package controllers

import (
	"errors"
	"log"
	"math"
	"strconv"
	"time"

	"academix/backend/config"
	"academix/backend/models"
	"academix/backend/services"
	"academix/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProfileController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Store  services.Storage
	Logger *log.Logger
}

func NewProfileController(db *gorm.DB, cfg *config.Config, store services.Storage, logger *log.Logger) *ProfileController {
	return &ProfileController{DB: db, Cfg: cfg, Store: store, Logger: logger}
}

func (pc *ProfileController) GetUserDetails(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return utils.BadRequest(c, "Email is required")
	}

	var user models.User
	if err := pc.DB.Preload("Profile").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.SuccessMessage(c, "User found", user)
}

type UpdateProfileRequest struct {
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	DateOfBirth   string `json:"dateOfBirth"`
	About         string `json:"about"`
	ContactNumber string `json:"contactNumber"`
	Gender        string `json:"gender"`
}

// UpdateProfile writes only the fields the request actually carries, so a
// settings form submitting one field cannot clobber the rest.
func (pc *ProfileController) UpdateProfile(c *fiber.Ctx) error {
	var input UpdateProfileRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Email == "" {
		return utils.BadRequest(c, "Email is required")
	}

	var user models.User
	if err := pc.DB.Preload("Profile").Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if err := pc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	profileFields := map[string]interface{}{}
	if input.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", input.DateOfBirth)
		if err != nil {
			return utils.BadRequest(c, "Invalid dateOfBirth format. Use YYYY-MM-DD")
		}
		profileFields["date_of_birth"] = dob
	}
	if input.About != "" {
		profileFields["about"] = input.About
	}
	if input.ContactNumber != "" {
		profileFields["contact_number"] = input.ContactNumber
	}
	if input.Gender != "" {
		profileFields["gender"] = input.Gender
	}

	if len(profileFields) > 0 {
		if err := pc.DB.Model(&models.Profile{}).
			Where("id = ?", user.ProfileID).
			Updates(profileFields).Error; err != nil {
			return utils.InternalServerError(c, "Could not update profile")
		}
	}

	return utils.SuccessMessage(c, "Profile updated successfully", nil)
}

// DeleteAccount removes the authenticated user together with its profile,
// enrollments, progress rows and cart.
func (pc *ProfileController) DeleteAccount(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := pc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if user.ProfileID != 0 {
			if err := tx.Delete(&models.Profile{}, user.ProfileID).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.CourseProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	}); err != nil {
		return utils.InternalServerError(c, "Unable to delete account", err.Error())
	}

	return utils.SuccessMessage(c, "Account deleted successfully", nil)
}

func (pc *ProfileController) GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := pc.DB.Preload("Profile").Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Can't get all users")
	}
	return utils.Success(c, fiber.StatusOK, users)
}

// GetEnrolledCourses returns every course the user is enrolled in, annotated
// with duration totals and the completion percentage. All progress rows are
// fetched in one query, not one per course; a course with no progress row
// reads as 0% rather than an error.
func (pc *ProfileController) GetEnrolledCourses(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Query("userId"))
	if err != nil {
		return utils.BadRequest(c, "Missing or invalid userId")
	}

	var user models.User
	if err := pc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var enrollments []models.Enrollment
	if err := pc.DB.Where("user_id = ?", userID).Order("created_at, id").Find(&enrollments).Error; err != nil {
		return utils.InternalServerError(c, "Can't fetch the enrolled courses", err.Error())
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}

	courseByID := map[uint]models.Course{}
	if len(courseIDs) > 0 {
		var courses []models.Course
		if err := pc.DB.
			Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
			Preload("Sections.SubSections").
			Where("id IN ?", courseIDs).
			Find(&courses).Error; err != nil {
			return utils.InternalServerError(c, "Can't fetch the enrolled courses", err.Error())
		}
		for _, course := range courses {
			courseByID[course.ID] = course
		}
	}

	var progressRows []models.CourseProgress
	if err := pc.DB.Preload("CompletedVideos").Where("user_id = ?", userID).Find(&progressRows).Error; err != nil {
		return utils.InternalServerError(c, "Can't fetch the enrolled courses", err.Error())
	}
	progressByCourse := map[uint]models.CourseProgress{}
	for _, p := range progressRows {
		progressByCourse[p.CourseID] = p
	}

	result := make([]models.EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		course, ok := courseByID[e.CourseID]
		if !ok {
			continue
		}
		result = append(result, annotateCourse(course, progressByCourse[course.ID]))
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// annotateCourse flattens the section tree into duration and lecture totals
// and derives the rounded completion percentage. A malformed duration
// counts as 0 minutes; a course with no lectures is 0% complete.
func annotateCourse(course models.Course, progress models.CourseProgress) models.EnrolledCourse {
	var totalDuration float64
	totalLectures := 0

	for _, section := range course.Sections {
		totalLectures += len(section.SubSections)
		for _, sub := range section.SubSections {
			if d, err := strconv.ParseFloat(sub.TimeDuration, 64); err == nil {
				totalDuration += d
			}
		}
	}

	completed := len(progress.CompletedVideos)
	percentage := 0
	if totalLectures > 0 {
		percentage = int(math.Round(float64(completed) / float64(totalLectures) * 100))
	}

	return models.EnrolledCourse{
		Course:                 course,
		TotalDurationInMinutes: totalDuration,
		TotalLectures:          totalLectures,
		CompletedLectures:      completed,
		ProgressPercentage:     percentage,
	}
}

// InstructorDashboard returns the instructor with its courses annotated with
// enrollment counts and earnings.
func (pc *ProfileController) InstructorDashboard(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Query("userId"))
	if err != nil {
		return utils.BadRequest(c, "Missing or invalid userId in request")
	}

	var instructor models.User
	if err := pc.DB.Preload("Profile").
		Where("id = ? AND account_type = ?", userID, models.AccountTypeInstructor).
		First(&instructor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Instructor not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var courses []models.Course
	if err := pc.DB.Where("instructor_id = ?", userID).Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	stats := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		var enrolled int64
		pc.DB.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrolled)

		stats = append(stats, fiber.Map{
			"id":               course.ID,
			"name":             course.Name,
			"description":      course.Description,
			"price":            course.Price,
			"thumbnail":        course.Thumbnail,
			"status":           course.Status,
			"studentsEnrolled": enrolled,
			"totalIncome":      course.Price * float64(course.Sold),
		})
	}

	return utils.SuccessMessage(c, "Instructor data fetched successfully", fiber.Map{
		"instructor": instructor,
		"courses":    stats,
	})
}

// UpdateDisplayPicture replaces the user's avatar: upload the new asset,
// persist its URL, then best-effort delete the old one. The user row changes
// only if the upload succeeded; a failed cleanup is logged and swallowed.
func (pc *ProfileController) UpdateDisplayPicture(c *fiber.Ctx) error {
	email := c.FormValue("email")
	if email == "" {
		return utils.BadRequest(c, "Email is required")
	}

	var user models.User
	if err := pc.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	fileHeader, err := c.FormFile("displayPicture")
	if err != nil {
		return utils.BadRequest(c, "No image file uploaded")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.InternalServerError(c, "Could not read uploaded file")
	}
	defer file.Close()

	oldImageURL := user.Image

	newURL, err := pc.Store.Upload(pc.Cfg.FolderName, fileHeader.Filename, file)
	if err != nil {
		return utils.InternalServerError(c, "Could not upload image", err.Error())
	}

	if err := pc.DB.Model(&user).Update("image", newURL).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	if oldImageURL != "" {
		if err := pc.Store.Delete(oldImageURL); err != nil {
			pc.Logger.Printf("failed to delete old display picture %s: %v", oldImageURL, err)
		}
	}

	user.Image = newURL
	return utils.SuccessMessage(c, "Display picture updated successfully", user)
}
