package controllers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path"
	"path/filepath"
	"testing"

	"academix/backend/config"
	"academix/backend/models"
	"academix/backend/routes"
	"academix/backend/services"
	"academix/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "password123"

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	cfg   *config.Config
	store *fakeStorage
	mail  *fakeMailer
	gen   *fakeGen
	video *fakeVideo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		DBType:          "sqlite",
		DBName:          filepath.Join(t.TempDir(), "test.db"),
		JWTSecret:       "testsecret",
		ServerPort:      "8080",
		FolderName:      "academix",
		SupportMail:     "support@example.com",
		VideoPollMaxSec: 300,
	}

	db, err := utils.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))

	env := &testEnv{
		db:    db,
		cfg:   cfg,
		store: &fakeStorage{},
		mail:  &fakeMailer{},
		gen:   &fakeGen{},
		video: &fakeVideo{},
	}

	env.app = fiber.New()
	routes.SetupRoutes(env.app, db, cfg, routes.Deps{
		Store:  env.store,
		Mail:   env.mail,
		Gen:    env.gen,
		Video:  env.video,
		Logger: utils.InitLogger(),
	})
	return env
}

// createUser inserts a user directly and returns it with a valid token.
func (e *testEnv) createUser(t *testing.T, email, accountType string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: string(hash),
		AccountType:  accountType,
		Image:        "https://cdn.test/academix/initial.png",
		Profile:      models.Profile{},
	}
	require.NoError(t, e.db.Create(&user).Error)

	token, err := utils.GenerateJWTToken(user.ID, user.AccountType, e.cfg)
	require.NoError(t, err)
	return user, token
}

// createCourse seeds a category (when missing) and a course with the given
// section layout: each entry is the number of lectures in one section.
func (e *testEnv) createCourse(t *testing.T, instructorID uint, status string, sold int, lectures ...int) models.Course {
	t.Helper()

	category := models.Category{Name: "Programming", Description: "All things code"}
	require.NoError(t, e.db.FirstOrCreate(&category, models.Category{Name: "Programming"}).Error)

	course := models.Course{
		Name:         fmt.Sprintf("Course %d", sold),
		Description:  "A test course",
		Price:        499,
		Status:       status,
		Sold:         sold,
		InstructorID: instructorID,
		CategoryID:   category.ID,
	}
	require.NoError(t, e.db.Create(&course).Error)

	for si, n := range lectures {
		section := models.Section{CourseID: course.ID, Name: fmt.Sprintf("Section %d", si+1), Position: si + 1}
		require.NoError(t, e.db.Create(&section).Error)
		for li := 0; li < n; li++ {
			sub := models.SubSection{
				SectionID:    section.ID,
				Title:        fmt.Sprintf("Lecture %d.%d", si+1, li+1),
				TimeDuration: "10",
				VideoURL:     "https://cdn.test/academix/video.mp4",
			}
			require.NoError(t, e.db.Create(&sub).Error)
		}
	}

	require.NoError(t, e.db.
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Sections.SubSections").
		First(&course, course.ID).Error)
	return course
}

func (e *testEnv) enroll(t *testing.T, userID, courseID uint) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Enrollment{UserID: userID, CourseID: courseID}).Error)
}

func (e *testEnv) request(t *testing.T, method, target, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(jsonData)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

// --- fakes ---

type fakeStorage struct {
	uploads    int
	deleted    []string
	failUpload bool
	failDelete bool
}

func (f *fakeStorage) Upload(folder, filename string, r io.Reader) (string, error) {
	if f.failUpload {
		return "", errors.New("upload failed")
	}
	io.Copy(io.Discard, r)
	f.uploads++
	return fmt.Sprintf("https://cdn.test/%s/upload-%d%s", folder, f.uploads, path.Ext(filename)), nil
}

func (f *fakeStorage) Delete(fileURL string) error {
	if f.failDelete {
		return errors.New("delete failed")
	}
	f.deleted = append(f.deleted, fileURL)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
	fail bool
}

func (f *fakeMailer) Send(to, subject, htmlBody string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// fakeGen pops queued responses in order; once drained it answers "ok".
type fakeGen struct {
	responses []string
	prompts   []string
	err       error
}

func (f *fakeGen) GenerateContent(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) > 0 {
		next := f.responses[0]
		f.responses = f.responses[1:]
		return next, nil
	}
	return "ok", nil
}

type fakeVideo struct {
	submitted []services.Movie
	status    *services.RenderStatus
	submitErr error
}

func (f *fakeVideo) Submit(movie services.Movie) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, movie)
	return fmt.Sprintf("proj-%d", len(f.submitted)), nil
}

func (f *fakeVideo) Status(projectID string) (*services.RenderStatus, error) {
	if f.status == nil {
		return &services.RenderStatus{Status: "running"}, nil
	}
	return f.status, nil
}

func (e *testEnv) multipartRequest(t *testing.T, method, target, token string, fields map[string]string, fileField, fileName string, contents []byte) *http.Response {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(contents)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
