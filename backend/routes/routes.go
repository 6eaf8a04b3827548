package routes

import (
	"log"

	"academix/backend/config"
	"academix/backend/controllers"
	"academix/backend/middleware"
	"academix/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps carries the external services shared by the controllers so tests can
// swap in fakes.
type Deps struct {
	Store  services.Storage
	Mail   services.Mailer
	Gen    services.TextGenerator
	Video  services.VideoAPI
	Logger *log.Logger
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, deps Deps) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	auth := app.Group("/api/v1/auth")
	auth.Post("/signup", authController.Signup)
	auth.Post("/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	studentOnly := middleware.StudentOnly()
	instructorOnly := middleware.InstructorOnly()
	adminOnly := middleware.AdminOnly()

	auth.Post("/changepassword", authMiddleware, authController.ChangePassword)

	// Contact form
	contactController := controllers.NewContactController(cfg, deps.Mail, deps.Logger)
	app.Post("/api/v1/reach/contact", contactController.ContactUs)

	// Profile routes
	profileController := controllers.NewProfileController(db, cfg, deps.Store, deps.Logger)
	profile := app.Group("/api/v1/profile", authMiddleware)
	profile.Get("/getUserDetails", profileController.GetUserDetails)
	profile.Post("/updateProfile", profileController.UpdateProfile)
	profile.Delete("/deleteProfile", profileController.DeleteAccount)
	profile.Get("/getEnrolledCourses", profileController.GetEnrolledCourses)
	profile.Get("/instructorDashboard", instructorOnly, profileController.InstructorDashboard)
	profile.Put("/updateDisplayPicture", profileController.UpdateDisplayPicture)
	profile.Get("/getAllUsers", adminOnly, profileController.GetAllUsers)

	// Course catalog and authoring
	courseController := controllers.NewCourseController(db, cfg, deps.Store)
	categoryController := controllers.NewCategoryController(db, cfg)
	course := app.Group("/api/v1/course")
	course.Post("/createCategory", authMiddleware, adminOnly, categoryController.CreateCategory)
	course.Get("/showAllCategories", categoryController.ShowAllCategories)
	course.Post("/categoryPageDetails", categoryController.CategoryPageDetails)
	course.Get("/getCourseDetails/:id", courseController.GetCourseDetails)
	course.Post("/createCourse", authMiddleware, instructorOnly, courseController.CreateCourse)
	course.Put("/editCourse", authMiddleware, instructorOnly, courseController.EditCourse)
	course.Get("/getInstructorCourses", authMiddleware, instructorOnly, courseController.GetInstructorCourses)
	course.Delete("/deleteCourse/:id", authMiddleware, instructorOnly, courseController.DeleteCourse)
	course.Post("/addSection", authMiddleware, instructorOnly, courseController.CreateSection)
	course.Put("/updateSection", authMiddleware, instructorOnly, courseController.UpdateSection)
	course.Delete("/deleteSection", authMiddleware, instructorOnly, courseController.DeleteSection)
	course.Post("/addSubSection", authMiddleware, instructorOnly, courseController.CreateSubSection)
	course.Put("/updateSubSection", authMiddleware, instructorOnly, courseController.UpdateSubSection)
	course.Delete("/deleteSubSection", authMiddleware, instructorOnly, courseController.DeleteSubSection)

	// Progress tracking
	progressController := controllers.NewProgressController(db, cfg)
	course.Post("/updateCourseProgress", authMiddleware, studentOnly, progressController.UpdateCourseProgress)

	// Course builder wizard
	draftController := controllers.NewDraftController(db, cfg)
	draft := app.Group("/api/v1/course/draft", authMiddleware, instructorOnly)
	draft.Post("/start", draftController.StartDraft)
	draft.Post("/information", draftController.SubmitInformation)
	draft.Post("/builder/next", draftController.AdvanceBuilder)
	draft.Post("/back", draftController.Back)
	draft.Post("/publish", draftController.Publish)

	// Cart and checkout
	cartController := controllers.NewCartController(db, cfg)
	cart := app.Group("/api/v1/cart", authMiddleware, studentOnly)
	cart.Get("/", cartController.GetCart)
	cart.Post("/add", cartController.AddToCart)
	cart.Delete("/remove", cartController.RemoveFromCart)
	cart.Post("/checkout", cartController.Checkout)

	// SmartStudy AI tools
	smartStudyController := controllers.NewSmartStudyController(cfg, deps.Gen, deps.Video)
	smart := app.Group("/api/v1/smartStudy", authMiddleware)
	smart.Post("/generateSummary", smartStudyController.GenerateSummary)
	smart.Post("/chatWithDocument", smartStudyController.ChatWithDocument)
	smart.Post("/askDoubt", smartStudyController.AskDoubt)
	smart.Post("/summarizeYouTubeVideo", smartStudyController.SummarizeYouTubeVideo)
	smart.Post("/textToVideoSummarizer", smartStudyController.TextToVideoSummarizer)
	smart.Post("/generateVideo", smartStudyController.GenerateVideo)
	smart.Get("/checkVideoStatus", smartStudyController.CheckVideoStatus)
}
