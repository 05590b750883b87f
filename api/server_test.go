package api

import (
	"encoding/json"
	"image/png"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/animtx/anim"
)

func testApi() *Api {
	clips := map[string]*anim.Clip{
		"idle": {Name: "idle", Frames: []string{"frame_0001.png"}, FPS: 24, Loop: true},
	}
	animator := anim.NewAnimator(clips, anim.NewCacheSet())
	streamer := anim.NewStreamer(anim.Config{}, nil, animator)
	return NewApi("", streamer)
}

func TestHandleClips(t *testing.T) {
	a := testApi()
	rec := httptest.NewRecorder()
	a.handleClips(rec, httptest.NewRequest("GET", "/clips", nil))

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var infos []anim.ClipInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 1)
	require.Equal(t, "idle", infos[0].Name)
}

func TestHandleFrameServesPlaceholderBeforeFirstTick(t *testing.T) {
	a := testApi()
	rec := httptest.NewRecorder()
	a.handleFrame(rec, httptest.NewRequest("GET", "/frame.png", nil))

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	require.Equal(t, 96, img.Bounds().Dx())
}

func TestHandleSampleWithoutSample(t *testing.T) {
	a := testApi()
	rec := httptest.NewRecorder()
	a.handleSample(rec, httptest.NewRequest("GET", "/sample", nil))
	require.Equal(t, 404, rec.Code)
}
