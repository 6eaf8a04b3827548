package controllers

import (
	"encoding/json"
	"fmt"
	"strings"

	"academix/backend/config"
	"academix/backend/services"
	"academix/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SmartStudyController fronts the AI study tools: document summaries, Q&A
// over uploaded text and short explainer video generation.
type SmartStudyController struct {
	Cfg   *config.Config
	Gen   services.TextGenerator
	Video services.VideoAPI
}

func NewSmartStudyController(cfg *config.Config, gen services.TextGenerator, video services.VideoAPI) *SmartStudyController {
	return &SmartStudyController{Cfg: cfg, Gen: gen, Video: video}
}

const (
	summaryChunkSize = 12000
	chatMaxChars     = 20000
	videoMaxChars    = 15000
	minVideoScenes   = 8
)

// chunkText splits text into pieces of at most size runes, breaking on the
// last sentence end inside the window when one exists.
func chunkText(text string, size int) []string {
	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= size {
			chunks = append(chunks, string(runes))
			break
		}
		cut := size
		for i := size - 1; i > size/2; i-- {
			if runes[i] == '.' || runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return chunks
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// GenerateSummary summarizes a document. Long documents are summarized per
// chunk and the partial summaries combined in a final pass.
func (sc *SmartStudyController) GenerateSummary(c *fiber.Ctx) error {
	var input struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(input.Text) == "" {
		return utils.BadRequest(c, "Document text is required")
	}

	chunks := chunkText(input.Text, summaryChunkSize)

	if len(chunks) == 1 {
		summary, err := sc.Gen.GenerateContent(
			"Summarize the following study material into clear, well-structured notes with headings and bullet points:\n\n" + chunks[0])
		if err != nil {
			return utils.InternalServerError(c, "Could not generate summary", err.Error())
		}
		return utils.Success(c, fiber.StatusOK, fiber.Map{"summary": summary})
	}

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		partial, err := sc.Gen.GenerateContent(fmt.Sprintf(
			"Summarize part %d of %d of a study document. Keep every key concept:\n\n%s", i+1, len(chunks), chunk))
		if err != nil {
			return utils.InternalServerError(c, "Could not generate summary", err.Error())
		}
		partials = append(partials, partial)
	}

	summary, err := sc.Gen.GenerateContent(
		"Combine the following partial summaries into one coherent set of study notes with headings and bullet points:\n\n" +
			strings.Join(partials, "\n\n---\n\n"))
	if err != nil {
		return utils.InternalServerError(c, "Could not generate summary", err.Error())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"summary": summary})
}

// ChatWithDocument answers a question grounded in the supplied document text.
func (sc *SmartStudyController) ChatWithDocument(c *fiber.Ctx) error {
	var input struct {
		Text     string `json:"text"`
		Question string `json:"question"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(input.Text) == "" || strings.TrimSpace(input.Question) == "" {
		return utils.BadRequest(c, "Document text and question are required")
	}

	prompt := fmt.Sprintf(
		"Answer the question using only the document below. If the document does not contain the answer, say so.\n\nDocument:\n%s\n\nQuestion: %s",
		truncate(input.Text, chatMaxChars), input.Question)

	answer, err := sc.Gen.GenerateContent(prompt)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate answer", err.Error())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"answer": answer})
}

// AskDoubt answers a free-standing study question.
func (sc *SmartStudyController) AskDoubt(c *fiber.Ctx) error {
	var input struct {
		Question string `json:"question"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(input.Question) == "" {
		return utils.BadRequest(c, "Question is required")
	}

	answer, err := sc.Gen.GenerateContent(
		"You are a patient tutor. Explain the answer to this question step by step:\n\n" + input.Question)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate answer", err.Error())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"answer": answer})
}

// SummarizeYouTubeVideo produces notes or a quiz for a video from its URL.
func (sc *SmartStudyController) SummarizeYouTubeVideo(c *fiber.Ctx) error {
	var input struct {
		URL  string `json:"url"`
		Type string `json:"type"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(input.URL) == "" {
		return utils.BadRequest(c, "Video URL is required")
	}

	var prompt string
	switch input.Type {
	case "quiz":
		prompt = "Create a 10 question multiple choice quiz with answers covering the content of this video: " + input.URL
	default:
		prompt = "Watch this video and write detailed study notes covering every topic it explains: " + input.URL
	}

	result, err := sc.Gen.GenerateContent(prompt)
	if err != nil {
		return utils.InternalServerError(c, "Could not summarize video", err.Error())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"result": result})
}

// TextToVideoSummarizer condenses a document into a narration script suitable
// for a short explainer video.
func (sc *SmartStudyController) TextToVideoSummarizer(c *fiber.Ctx) error {
	var input struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(input.Text) == "" {
		return utils.BadRequest(c, "Document text is required")
	}

	script, err := sc.Gen.GenerateContent(
		"Condense the following material into a tight narration script for a two minute explainer video:\n\n" +
			truncate(input.Text, videoMaxChars))
	if err != nil {
		return utils.InternalServerError(c, "Could not generate script", err.Error())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"script": script})
}

// stripCodeFence removes a leading ```json / ``` fence pair if the model
// wrapped its output in one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// GenerateVideo turns a document into a rendered explainer video: the model
// writes a scene script as JSON, the script becomes a movie payload and the
// payload is submitted for rendering.
func (sc *SmartStudyController) GenerateVideo(c *fiber.Ctx) error {
	var input struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(input.Text) == "" {
		return utils.BadRequest(c, "Document text is required")
	}

	prompt := fmt.Sprintf(
		`Create a video script from the study material below. Respond with JSON only, no prose, in this shape:
{"title":"...","scenes":[{"sceneNumber":1,"purpose":"...","text":"...","voiceText":"...","duration":12,"visualSuggestion":"...","imageSearchQuery":"...","keyTakeaways":["..."]}]}
Produce at least %d scenes. The voiceText is the narration and must be natural spoken English.

Material:
%s`, minVideoScenes, truncate(input.Text, videoMaxChars))

	raw, err := sc.Gen.GenerateContent(prompt)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate video script", err.Error())
	}

	var script services.VideoScript
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &script); err != nil {
		return utils.InternalServerError(c, "Model returned an unreadable script", err.Error())
	}
	if len(script.Scenes) < minVideoScenes {
		return utils.InternalServerError(c, fmt.Sprintf("Script too short: got %d scenes, need at least %d", len(script.Scenes), minVideoScenes))
	}

	movie := services.BuildMovie(script)
	projectID, err := sc.Video.Submit(movie)
	if err != nil {
		return utils.InternalServerError(c, "Could not submit video for rendering", err.Error())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"projectId":      projectID,
		"title":          script.Title,
		"scenes":         len(script.Scenes),
		"maxPollSeconds": sc.Cfg.VideoPollMaxSec,
	})
}

// CheckVideoStatus reports rendering progress for a submitted project.
func (sc *SmartStudyController) CheckVideoStatus(c *fiber.Ctx) error {
	projectID := c.Query("projectId")
	if projectID == "" {
		return utils.BadRequest(c, "Project ID is required")
	}

	status, err := sc.Video.Status(projectID)
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch video status", err.Error())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"status":         status.Status,
		"url":            status.URL,
		"message":        status.Message,
		"maxPollSeconds": sc.Cfg.VideoPollMaxSec,
	})
}
