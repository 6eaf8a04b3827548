package controllers_test

import (
	"fmt"
	"testing"

	"academix/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCourseRequiresInstructor(t *testing.T) {
	env := newTestEnv(t)
	_, studentToken := env.createUser(t, "student@example.com", models.AccountTypeStudent)
	category := seedCategory(t, env, "Go")

	resp := env.request(t, "POST", "/api/v1/course/createCourse", studentToken, fiber.Map{
		"courseName":        "Intro",
		"courseDescription": "Basics",
		"price":             100,
		"categoryId":        category.ID,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCreateAndEditCourse(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "teach@example.com", models.AccountTypeInstructor)
	category := seedCategory(t, env, "Go")

	resp := env.request(t, "POST", "/api/v1/course/createCourse", token, fiber.Map{
		"courseName":        "Intro to Go",
		"courseDescription": "Start here",
		"price":             100,
		"categoryId":        category.ID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	created := result["data"].(map[string]interface{})
	courseID := uint(created["ID"].(float64))
	assert.Equal(t, models.CourseStatusDraft, created["Status"])

	// Partial edit: only the price and status change.
	resp = env.request(t, "PUT", "/api/v1/course/editCourse", token, fiber.Map{
		"courseId": courseID,
		"price":    250,
		"status":   models.CourseStatusPublished,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored models.Course
	require.NoError(t, env.db.First(&stored, courseID).Error)
	assert.Equal(t, "Intro to Go", stored.Name)
	assert.Equal(t, 250.0, stored.Price)
	assert.Equal(t, models.CourseStatusPublished, stored.Status)
}

func TestEditCourseOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.createUser(t, "owner@example.com", models.AccountTypeInstructor)
	_, otherToken := env.createUser(t, "other@example.com", models.AccountTypeInstructor)
	course := env.createCourse(t, owner.ID, models.CourseStatusDraft, 0)

	resp := env.request(t, "PUT", "/api/v1/course/editCourse", otherToken, fiber.Map{
		"courseId": course.ID,
		"price":    1,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestSectionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	instructor, token := env.createUser(t, "teach@example.com", models.AccountTypeInstructor)
	course := env.createCourse(t, instructor.ID, models.CourseStatusDraft, 0)

	for _, name := range []string{"Basics", "Middle", "Advanced"} {
		resp := env.request(t, "POST", "/api/v1/course/addSection", token, fiber.Map{
			"courseId":    course.ID,
			"sectionName": name,
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	var sections []models.Section
	require.NoError(t, env.db.Where("course_id = ?", course.ID).Order("position").Find(&sections).Error)
	require.Len(t, sections, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{sections[0].Position, sections[1].Position, sections[2].Position})

	// Deleting the middle section renumbers the rest.
	resp := env.request(t, "DELETE", "/api/v1/course/deleteSection", token, fiber.Map{
		"courseId":  course.ID,
		"sectionId": sections[1].ID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, env.db.Where("course_id = ?", course.ID).Order("position").Find(&sections).Error)
	require.Len(t, sections, 2)
	assert.Equal(t, "Basics", sections[0].Name)
	assert.Equal(t, 1, sections[0].Position)
	assert.Equal(t, "Advanced", sections[1].Name)
	assert.Equal(t, 2, sections[1].Position)
}

func TestCreateSubSectionUploadsVideo(t *testing.T) {
	env := newTestEnv(t)
	instructor, token := env.createUser(t, "teach@example.com", models.AccountTypeInstructor)
	course := env.createCourse(t, instructor.ID, models.CourseStatusDraft, 0, 0)
	section := course.Sections[0]

	resp := env.multipartRequest(t, "POST", "/api/v1/course/addSubSection", token,
		map[string]string{
			"sectionId":    fmt.Sprint(section.ID),
			"title":        "Hello World",
			"timeDuration": "15",
		}, "video", "lecture.mp4", []byte("mp4-bytes"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var sub models.SubSection
	require.NoError(t, env.db.Where("section_id = ?", section.ID).First(&sub).Error)
	assert.Equal(t, "Hello World", sub.Title)
	assert.Contains(t, sub.VideoURL, "https://cdn.test/academix/")
}

func TestUpdateCourseProgress(t *testing.T) {
	env := newTestEnv(t)
	instructor, _ := env.createUser(t, "teach@example.com", models.AccountTypeInstructor)
	student, token := env.createUser(t, "student@example.com", models.AccountTypeStudent)

	course := env.createCourse(t, instructor.ID, models.CourseStatusPublished, 0, 2)
	other := env.createCourse(t, instructor.ID, models.CourseStatusPublished, 0, 1)
	lecture := course.Sections[0].SubSections[0]
	foreign := other.Sections[0].SubSections[0]

	// Not enrolled yet.
	resp := env.request(t, "POST", "/api/v1/course/updateCourseProgress", token, fiber.Map{
		"courseId":     course.ID,
		"subSectionId": lecture.ID,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	env.enroll(t, student.ID, course.ID)

	// Lecture from a different course.
	resp = env.request(t, "POST", "/api/v1/course/updateCourseProgress", token, fiber.Map{
		"courseId":     course.ID,
		"subSectionId": foreign.ID,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// First completion creates the progress row.
	resp = env.request(t, "POST", "/api/v1/course/updateCourseProgress", token, fiber.Map{
		"courseId":     course.ID,
		"subSectionId": lecture.ID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Marking the same lecture again stays a success and adds nothing.
	resp = env.request(t, "POST", "/api/v1/course/updateCourseProgress", token, fiber.Map{
		"courseId":     course.ID,
		"subSectionId": lecture.ID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var progress models.CourseProgress
	require.NoError(t, env.db.Preload("CompletedVideos").
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).
		First(&progress).Error)
	assert.Len(t, progress.CompletedVideos, 1)
}

func TestDeleteCourseRemovesDependents(t *testing.T) {
	env := newTestEnv(t)
	instructor, token := env.createUser(t, "teach@example.com", models.AccountTypeInstructor)
	student, _ := env.createUser(t, "student@example.com", models.AccountTypeStudent)

	course := env.createCourse(t, instructor.ID, models.CourseStatusPublished, 0, 2, 1)
	env.enroll(t, student.ID, course.ID)

	resp := env.request(t, "DELETE", fmt.Sprintf("/api/v1/course/deleteCourse/%d", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	env.db.Model(&models.Course{}).Where("id = ?", course.ID).Count(&count)
	assert.Zero(t, count)
	env.db.Model(&models.Section{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Zero(t, count)
	env.db.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Zero(t, count)
}
