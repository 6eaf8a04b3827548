package controllers

import (
	"errors"

	"academix/backend/config"
	"academix/backend/models"
	"academix/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CartController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCartController(db *gorm.DB, cfg *config.Config) *CartController {
	return &CartController{DB: db, Cfg: cfg}
}

func (cc *CartController) AddToCart(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		CourseID uint `json:"courseId"`
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
	if course.Status != models.CourseStatusPublished {
		return utils.BadRequest(c, "Course is not available for purchase")
	}

	var enrollment models.Enrollment
	if err := cc.DB.Where("user_id = ? AND course_id = ?", userID, course.ID).First(&enrollment).Error; err == nil {
		return utils.BadRequest(c, "You are already enrolled in this course")
	}

	var existing models.CartItem
	if err := cc.DB.Where("user_id = ? AND course_id = ?", userID, course.ID).First(&existing).Error; err == nil {
		return utils.BadRequest(c, "Course is already in your cart")
	}

	item := models.CartItem{UserID: userID, CourseID: course.ID}
	if err := cc.DB.Create(&item).Error; err != nil {
		return utils.InternalServerError(c, "Could not add course to cart")
	}

	return utils.SuccessMessage(c, "Course added to cart", nil)
}

func (cc *CartController) RemoveFromCart(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		CourseID uint `json:"courseId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	result := cc.DB.Where("user_id = ? AND course_id = ?", userID, input.CourseID).Delete(&models.CartItem{})
	if result.Error != nil {
		return utils.InternalServerError(c, "Could not remove course from cart")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Course is not in your cart")
	}

	return utils.SuccessMessage(c, "Course removed from cart", nil)
}

func (cc *CartController) GetCart(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var items []models.CartItem
	if err := cc.DB.Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&items).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var total float64
	for _, item := range items {
		total += item.Course.Price
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"items": items,
		"total": total,
	})
}

// Checkout enrolls the student in every cart course, counts the sales and
// seeds an empty progress row per course, then clears the cart. All of it in
// one transaction so a failure leaves the cart untouched.
func (cc *CartController) Checkout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var items []models.CartItem
	if err := cc.DB.Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&items).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if len(items) == 0 {
		return utils.BadRequest(c, "Your cart is empty")
	}

	enrolledIDs := make([]uint, 0, len(items))
	if err := cc.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			enrollment := models.Enrollment{UserID: userID, CourseID: item.CourseID}
			if err := tx.Create(&enrollment).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Course{}).
				Where("id = ?", item.CourseID).
				Update("sold", gorm.Expr("sold + 1")).Error; err != nil {
				return err
			}
			progress := models.CourseProgress{UserID: userID, CourseID: item.CourseID}
			if err := tx.Create(&progress).Error; err != nil {
				return err
			}
			enrolledIDs = append(enrolledIDs, item.CourseID)
		}
		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	}); err != nil {
		return utils.InternalServerError(c, "Checkout failed", err.Error())
	}

	return utils.SuccessMessage(c, "Checkout complete", fiber.Map{
		"enrolledCourseIds": enrolledIDs,
	})
}
