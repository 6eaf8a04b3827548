package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"academix/backend/config"
)

const json2videoBaseURL = "https://api.json2video.com/v2/movies"

// VideoAPI is the render-service surface: submit a movie, poll a project.
type VideoAPI interface {
	Submit(movie Movie) (string, error)
	Status(projectID string) (*RenderStatus, error)
}

// VideoScript is the scene breakdown the text model produces before the
// movie payload is assembled from it.
type VideoScript struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Scenes      []Scene `json:"scenes"`
}

type Scene struct {
	SceneNumber      int    `json:"sceneNumber"`
	Purpose          string `json:"purpose"`
	Text             string `json:"text"`
	VoiceText        string `json:"voiceText"`
	Duration         int    `json:"duration"`
	VisualSuggestion string `json:"visualSuggestion"`
	ImageSearchQuery string `json:"imageSearchQuery"`
}

// Movie is the JSON2Video render request. Field names follow their API.
type Movie struct {
	ID         string       `json:"id"`
	Comment    string       `json:"comment"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Quality    string       `json:"quality"`
	Resolution string       `json:"resolution"`
	FPS        int          `json:"fps"`
	Scenes     []MovieScene `json:"scenes"`
}

type MovieScene struct {
	ID       string         `json:"id"`
	Comment  string         `json:"comment"`
	Duration int            `json:"duration"`
	Elements []MovieElement `json:"elements"`
}

type MovieElement struct {
	Type     string                 `json:"type"`
	ID       string                 `json:"id,omitempty"`
	Src      string                 `json:"src,omitempty"`
	Text     string                 `json:"text,omitempty"`
	Voice    string                 `json:"voice,omitempty"`
	X        int                    `json:"x"`
	Y        int                    `json:"y"`
	Settings map[string]interface{} `json:"settings,omitempty"`
	Comment  string                 `json:"comment,omitempty"`
}

// RenderStatus mirrors the movie object of the status endpoint.
type RenderStatus struct {
	Status  string `json:"status"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// Stock backgrounds assigned to scenes cyclically. Verified to
// resolve; the render service rejects dead image URLs.
var stockBackgrounds = []string{
	"https://images.unsplash.com/photo-1557683316-973673baf926?w=1920&h=1080&fit=crop",
	"https://images.unsplash.com/photo-1579546929518-9e396f3cc809?w=1920&h=1080&fit=crop",
	"https://images.unsplash.com/photo-1558591710-4b4a1ae0f04d?w=1920&h=1080&fit=crop",
	"https://images.unsplash.com/photo-1550745165-9bc0b252726f?w=1920&h=1080&fit=crop",
	"https://images.unsplash.com/photo-1618005182384-a83a8bd57fbe?w=1920&h=1080&fit=crop",
	"https://images.unsplash.com/photo-1617791160505-6f00504e3519?w=1920&h=1080&fit=crop",
	"https://images.unsplash.com/photo-1634017839464-5c339ebe3cb4?w=1920&h=1080&fit=crop",
	"https://images.unsplash.com/photo-1618172193763-c511deb635ca?w=1920&h=1080&fit=crop",
	"https://images.unsplash.com/photo-1620641788421-7a1c342ea42e?w=1920&h=1080&fit=crop",
	"https://images.unsplash.com/photo-1604076913837-52ab5629fba9?w=1920&h=1080&fit=crop",
}

var sceneOverlays = []string{
	"rgba(102, 126, 234, 0.6)",
	"rgba(240, 147, 251, 0.6)",
	"rgba(79, 172, 254, 0.6)",
	"rgba(67, 233, 123, 0.6)",
	"rgba(250, 112, 154, 0.6)",
	"rgba(48, 207, 208, 0.6)",
	"rgba(168, 237, 234, 0.6)",
	"rgba(255, 154, 158, 0.6)",
	"rgba(255, 236, 210, 0.6)",
	"rgba(255, 110, 127, 0.6)",
}

// BuildMovie assembles the landscape render payload from a generated script.
// Each scene gets a background image, a color overlay for text readability,
// the on-screen text, and the narration voice element.
func BuildMovie(script VideoScript) Movie {
	now := time.Now().UnixMilli()
	movie := Movie{
		ID:         fmt.Sprintf("movie_%d", now),
		Comment:    script.Title,
		Width:      1920,
		Height:     1080,
		Quality:    "high",
		Resolution: "landscape",
		FPS:        30,
	}
	if movie.Comment == "" {
		movie.Comment = "Educational Video"
	}

	for i, scene := range script.Scenes {
		duration := scene.Duration
		if duration <= 0 {
			duration = 12
		}

		elements := []MovieElement{
			{
				Type:    "image",
				ID:      fmt.Sprintf("bg_img_%d", i),
				Src:     stockBackgrounds[i%len(stockBackgrounds)],
				Comment: "Background image",
			},
			{
				Type:    "component",
				ID:      fmt.Sprintf("overlay_%d", i),
				Comment: "Color overlay",
				Settings: map[string]interface{}{
					"box": map[string]interface{}{
						"background":  sceneOverlays[i%len(sceneOverlays)],
						"final_width": "100%",
					},
				},
			},
			{
				Type: "text",
				ID:   fmt.Sprintf("text_%d", i),
				Text: scene.Text,
				Y:    420,
			},
			{
				Type:  "voice",
				ID:    fmt.Sprintf("voice_%d", i),
				Text:  scene.VoiceText,
				Voice: "en-US-AriaNeural",
			},
		}

		purpose := scene.Purpose
		if purpose == "" {
			purpose = fmt.Sprintf("Scene %d", i+1)
		}

		movie.Scenes = append(movie.Scenes, MovieScene{
			ID:       fmt.Sprintf("scene_%d_%d", i+1, now),
			Comment:  purpose,
			Duration: duration,
			Elements: elements,
		})
	}

	return movie
}

// Json2VideoClient is the live VideoAPI implementation.
type Json2VideoClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func NewJson2VideoClient(cfg *config.Config) *Json2VideoClient {
	return &Json2VideoClient{
		APIKey:  cfg.Json2VideoKey,
		BaseURL: json2videoBaseURL,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

type submitResponse struct {
	Success bool   `json:"success"`
	Project string `json:"project"`
	Message string `json:"message,omitempty"`
}

type statusResponse struct {
	Movie *RenderStatus `json:"movie"`
}

func (j *Json2VideoClient) Submit(movie Movie) (string, error) {
	jsonData, err := json.Marshal(movie)
	if err != nil {
		return "", fmt.Errorf("failed to serialize movie: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, j.BaseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", j.APIKey)

	resp, err := j.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("json2video returned status %d: %s", resp.StatusCode, string(body))
	}

	var sr submitResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", fmt.Errorf("failed to decode API response: %w", err)
	}
	if !sr.Success || sr.Project == "" {
		return "", fmt.Errorf("render submission rejected: %s", sr.Message)
	}

	return sr.Project, nil
}

func (j *Json2VideoClient) Status(projectID string) (*RenderStatus, error) {
	req, err := http.NewRequest(http.MethodGet, j.BaseURL+"?project="+projectID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", j.APIKey)

	resp, err := j.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("json2video returned status %d: %s", resp.StatusCode, string(body))
	}

	var sr statusResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	if sr.Movie == nil {
		return nil, fmt.Errorf("no movie data for project %s", projectID)
	}

	return sr.Movie, nil
}
