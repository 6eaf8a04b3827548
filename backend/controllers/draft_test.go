package controllers_test

import (
	"encoding/json"
	"sync"
	"testing"

	"academix/backend/controllers"
	"academix/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestDraftFlowCreatesAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	instructor, token := env.createUser(t, "teach@example.com", models.AccountTypeInstructor)
	category := seedCategory(t, env, "Go")

	resp := env.request(t, "POST", "/api/v1/course/draft/start", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeBody(t, resp)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Information", data["step"])
	assert.Equal(t, false, data["editing"])

	// Missing name keeps the session at Information.
	resp = env.request(t, "POST", "/api/v1/course/draft/information", token, fiber.Map{
		"courseDescription": "no name yet",
		"price":             10,
		"categoryId":        category.ID,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, "POST", "/api/v1/course/draft/information", token, fiber.Map{
		"courseName":        "Go from scratch",
		"courseDescription": "All of it",
		"price":             10,
		"categoryId":        category.ID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	result = decodeBody(t, resp)
	data = result["data"].(map[string]interface{})
	assert.Equal(t, "Builder", data["step"])
	courseID := uint(data["courseId"].(float64))

	var course models.Course
	require.NoError(t, env.db.First(&course, courseID).Error)
	assert.Equal(t, models.CourseStatusDraft, course.Status)
	assert.Equal(t, instructor.ID, course.InstructorID)

	// An empty outline cannot advance.
	resp = env.request(t, "POST", "/api/v1/course/draft/builder/next", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	section := models.Section{CourseID: courseID, Name: "Basics", Position: 1}
	require.NoError(t, env.db.Create(&section).Error)

	// A section without lectures cannot advance either.
	resp = env.request(t, "POST", "/api/v1/course/draft/builder/next", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	sub := models.SubSection{SectionID: section.ID, Title: "Hello", TimeDuration: "5", VideoURL: "https://cdn.test/v.mp4"}
	require.NoError(t, env.db.Create(&sub).Error)

	resp = env.request(t, "POST", "/api/v1/course/draft/builder/next", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.request(t, "POST", "/api/v1/course/draft/publish", token, fiber.Map{"public": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, env.db.First(&course, courseID).Error)
	assert.Equal(t, models.CourseStatusPublished, course.Status)

	// The session is gone once the wizard finishes.
	resp = env.request(t, "POST", "/api/v1/course/draft/publish", token, fiber.Map{"public": true})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDraftEditSessionNoChanges(t *testing.T) {
	env := newTestEnv(t)
	instructor, token := env.createUser(t, "teach@example.com", models.AccountTypeInstructor)
	course := env.createCourse(t, instructor.ID, models.CourseStatusPublished, 0, 1)

	resp := env.request(t, "POST", "/api/v1/course/draft/start", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeBody(t, resp)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, true, data["editing"])

	// Resubmitting the stored values writes nothing and reports it.
	resp = env.request(t, "POST", "/api/v1/course/draft/information", token, fiber.Map{
		"courseName":        course.Name,
		"courseDescription": course.Description,
		"whatYouWillLearn":  course.WhatYouWillLearn,
		"price":             course.Price,
		"categoryId":        course.CategoryID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	result = decodeBody(t, resp)
	assert.Equal(t, "No changes to save", result["message"])
}

func TestDraftStartRejectsForeignCourse(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.createUser(t, "owner@example.com", models.AccountTypeInstructor)
	_, otherToken := env.createUser(t, "other@example.com", models.AccountTypeInstructor)
	course := env.createCourse(t, owner.ID, models.CourseStatusDraft, 0, 1)

	resp := env.request(t, "POST", "/api/v1/course/draft/start", otherToken, fiber.Map{"courseId": course.ID})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

// draftCtx builds a request context with the auth locals already set, so
// handlers can be invoked directly and truly in parallel; app.Test runs
// handlers one at a time and cannot exercise concurrent sessions.
func draftCtx(app *fiber.App, userID uint, body []byte) *fiber.Ctx {
	fctx := &fasthttp.RequestCtx{}
	fctx.Request.Header.SetMethod("POST")
	if body != nil {
		fctx.Request.Header.SetContentType("application/json")
		fctx.Request.SetBody(body)
	}
	c := app.AcquireCtx(fctx)
	c.Locals("userID", userID)
	return c
}

func TestDraftSessionConcurrentRequests(t *testing.T) {
	env := newTestEnv(t)
	instructor, _ := env.createUser(t, "teach@example.com", models.AccountTypeInstructor)
	category := seedCategory(t, env, "Go")

	dc := controllers.NewDraftController(env.db, env.cfg)

	c := draftCtx(env.app, instructor.ID, nil)
	require.NoError(t, dc.StartDraft(c))
	env.app.ReleaseCtx(c)

	info, err := json.Marshal(fiber.Map{
		"courseName":        "Concurrent drafting",
		"courseDescription": "desc",
		"price":             10,
		"categoryId":        category.ID,
	})
	require.NoError(t, err)

	// Hammer the same session from several goroutines. Individual requests
	// may be rejected for being at the wrong step; the session itself must
	// stay consistent throughout.
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				c := draftCtx(env.app, instructor.ID, info)
				_ = dc.SubmitInformation(c)
				env.app.ReleaseCtx(c)

				c = draftCtx(env.app, instructor.ID, nil)
				_ = dc.Back(c)
				env.app.ReleaseCtx(c)
			}
		}()
	}
	wg.Wait()

	// The session survives the storm: walk back to Information (ignoring
	// already-at-first-step rejections) and submit the form once more.
	for i := 0; i < 2; i++ {
		c = draftCtx(env.app, instructor.ID, nil)
		_ = dc.Back(c)
		env.app.ReleaseCtx(c)
	}

	c = draftCtx(env.app, instructor.ID, info)
	require.NoError(t, dc.SubmitInformation(c))
	status := c.Response().StatusCode()
	env.app.ReleaseCtx(c)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestDraftBack(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "teach@example.com", models.AccountTypeInstructor)
	category := seedCategory(t, env, "Go")

	resp := env.request(t, "POST", "/api/v1/course/draft/start", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Cannot go back from the first step.
	resp = env.request(t, "POST", "/api/v1/course/draft/back", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, "POST", "/api/v1/course/draft/information", token, fiber.Map{
		"courseName":        "Stepping back",
		"courseDescription": "desc",
		"price":             5,
		"categoryId":        category.ID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.request(t, "POST", "/api/v1/course/draft/back", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeBody(t, resp)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Information", data["step"])
}
