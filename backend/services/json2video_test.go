package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMovie(t *testing.T) {
	script := VideoScript{Title: "Gravity explained"}
	for i := 1; i <= 12; i++ {
		script.Scenes = append(script.Scenes, Scene{
			SceneNumber: i,
			Purpose:     fmt.Sprintf("Point %d", i),
			Text:        fmt.Sprintf("Text %d", i),
			VoiceText:   fmt.Sprintf("Narration %d", i),
			Duration:    8,
		})
	}

	movie := BuildMovie(script)
	assert.Equal(t, "Gravity explained", movie.Comment)
	assert.Equal(t, 1920, movie.Width)
	assert.Equal(t, 1080, movie.Height)
	assert.Equal(t, "high", movie.Quality)
	assert.Equal(t, 30, movie.FPS)
	require.Len(t, movie.Scenes, 12)

	for i, scene := range movie.Scenes {
		assert.Equal(t, 8, scene.Duration)
		require.Len(t, scene.Elements, 4)
		assert.Equal(t, "image", scene.Elements[0].Type)
		assert.Equal(t, "component", scene.Elements[1].Type)
		assert.Equal(t, "text", scene.Elements[2].Type)
		assert.Equal(t, "voice", scene.Elements[3].Type)
		assert.Equal(t, "en-US-AriaNeural", scene.Elements[3].Voice)
		assert.Equal(t, stockBackgrounds[i%len(stockBackgrounds)], scene.Elements[0].Src)
	}

	// Backgrounds wrap around once the stock list runs out.
	assert.Equal(t, movie.Scenes[0].Elements[0].Src, movie.Scenes[10].Elements[0].Src)
}

func TestBuildMovieDefaults(t *testing.T) {
	movie := BuildMovie(VideoScript{
		Scenes: []Scene{{Text: "only text", VoiceText: "only voice"}},
	})

	assert.Equal(t, "Educational Video", movie.Comment)
	require.Len(t, movie.Scenes, 1)
	assert.Equal(t, 12, movie.Scenes[0].Duration)
	assert.Equal(t, "Scene 1", movie.Scenes[0].Comment)
}
