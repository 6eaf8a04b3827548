package controllers

import (
	"errors"
	"math/rand"
	"sort"

	"academix/backend/config"
	"academix/backend/models"
	"academix/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CategoryController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCategoryController(db *gorm.DB, cfg *config.Config) *CategoryController {
	return &CategoryController{DB: db, Cfg: cfg}
}

func (cc *CategoryController) CreateCategory(c *fiber.Ctx) error {
	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Name == "" || input.Description == "" {
		return utils.BadRequest(c, "Fields can't be empty")
	}

	category := models.Category{Name: input.Name, Description: input.Description}
	if err := cc.DB.Create(&category).Error; err != nil {
		return utils.InternalServerError(c, "Could not create category")
	}

	return utils.SuccessMessage(c, "Category created successfully", category)
}

func (cc *CategoryController) ShowAllCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := cc.DB.Find(&categories).Error; err != nil {
		return utils.InternalServerError(c, "Can't find all categories")
	}
	return utils.Success(c, fiber.StatusOK, categories)
}

// categoryPayload is the shape each category takes in the landing response.
type categoryPayload struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Courses     []models.Course `json:"courses"`
}

// CategoryPageDetails builds the catalog landing payload: the selected
// category with its published courses, one random sibling category, and the
// global top-10 best sellers.
func (cc *CategoryController) CategoryPageDetails(c *fiber.Ctx) error {
	var input struct {
		CategoryID uint `json:"categoryId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.CategoryID == 0 {
		return utils.BadRequest(c, "Category ID is required")
	}

	var selected models.Category
	if err := cc.DB.First(&selected, input.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Selected category not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	selectedCourses, err := cc.publishedCourses(selected.ID, true)
	if err != nil {
		return utils.InternalServerError(c, "Internal server error", err.Error())
	}
	selectedPayload := categoryPayload{
		ID:          selected.ID,
		Name:        selected.Name,
		Description: selected.Description,
		Courses:     selectedCourses,
	}

	// One uniformly random sibling; the empty placeholder (not null) keeps
	// client rendering simple when no sibling exists.
	differentCategory := categoryPayload{Name: "", Courses: []models.Course{}}
	var siblings []models.Category
	if err := cc.DB.Where("id <> ?", selected.ID).Find(&siblings).Error; err != nil {
		return utils.InternalServerError(c, "Internal server error", err.Error())
	}
	if len(siblings) > 0 {
		pick := siblings[rand.Intn(len(siblings))]
		courses, err := cc.publishedCourses(pick.ID, false)
		if err != nil {
			return utils.InternalServerError(c, "Internal server error", err.Error())
		}
		differentCategory = categoryPayload{
			ID:          pick.ID,
			Name:        pick.Name,
			Description: pick.Description,
			Courses:     courses,
		}
	}

	mostSelling, err := cc.topSellingCourses(10)
	if err != nil {
		return utils.InternalServerError(c, "Internal server error", err.Error())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"selectedCategory":   selectedPayload,
		"differentCategory":  differentCategory,
		"mostSellingCourses": mostSelling,
	})
}

func (cc *CategoryController) publishedCourses(categoryID uint, withReviews bool) ([]models.Course, error) {
	query := cc.DB.Where("category_id = ? AND status = ?", categoryID, models.CourseStatusPublished)
	if withReviews {
		query = query.Preload("Reviews")
	}

	courses := []models.Course{}
	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// topSellingCourses ranks every published course by its Sold counter,
// descending. The stable sort keeps the original fetch order for ties.
func (cc *CategoryController) topSellingCourses(limit int) ([]models.Course, error) {
	courses := []models.Course{}
	if err := cc.DB.Where("status = ?", models.CourseStatusPublished).Find(&courses).Error; err != nil {
		return nil, err
	}

	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].Sold > courses[j].Sold
	})

	if len(courses) > limit {
		courses = courses[:limit]
	}
	return courses, nil
}
