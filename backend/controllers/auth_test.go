package controllers_test

import (
	"testing"

	"academix/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/v1/auth/signup", "", fiber.Map{
		"firstName":   "Ada",
		"lastName":    "Lovelace",
		"email":       "ada@example.com",
		"password":    "longenoughpw",
		"accountType": models.AccountTypeInstructor,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	assert.NotEmpty(t, result["token"])
	user := result["user"].(map[string]interface{})
	assert.Equal(t, "ada@example.com", user["email"])
	assert.Equal(t, models.AccountTypeInstructor, user["accountType"])
	assert.NotEmpty(t, user["image"])

	// The profile is created alongside the user.
	var stored models.User
	require.NoError(t, env.db.Where("email = ?", "ada@example.com").First(&stored).Error)
	assert.NotZero(t, stored.ProfileID)

	resp = env.request(t, "POST", "/api/v1/auth/login", "", fiber.Map{
		"email":    "ada@example.com",
		"password": "longenoughpw",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	result = decodeBody(t, resp)
	assert.NotEmpty(t, result["token"])
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "taken@example.com", models.AccountTypeStudent)

	resp := env.request(t, "POST", "/api/v1/auth/signup", "", fiber.Map{
		"firstName": "Other",
		"email":     "taken@example.com",
		"password":  "longenoughpw",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSignupDefaultsToStudent(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/v1/auth/signup", "", fiber.Map{
		"firstName": "Default",
		"email":     "default@example.com",
		"password":  "longenoughpw",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeBody(t, resp)
	user := result["user"].(map[string]interface{})
	assert.Equal(t, models.AccountTypeStudent, user["accountType"])
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user@example.com", models.AccountTypeStudent)

	resp := env.request(t, "POST", "/api/v1/auth/login", "", fiber.Map{
		"email":    "user@example.com",
		"password": "not-the-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "user@example.com", models.AccountTypeStudent)

	resp := env.request(t, "POST", "/api/v1/auth/changepassword", token, fiber.Map{
		"oldPassword": "wrong",
		"newPassword": "brandnewpassword",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, "POST", "/api/v1/auth/changepassword", token, fiber.Map{
		"oldPassword": testPassword,
		"newPassword": "brandnewpassword",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.request(t, "POST", "/api/v1/auth/login", "", fiber.Map{
		"email":    "user@example.com",
		"password": "brandnewpassword",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectedRouteRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "GET", "/api/v1/profile/getEnrolledCourses?userId=1", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, "GET", "/api/v1/profile/getEnrolledCourses?userId=1", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
