package anim

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testClip(name string, count int, fps float64, loop bool) *Clip {
	frames := make([]string, count)
	for i := range frames {
		frames[i] = fmt.Sprintf("%s_%04d.png", name, i)
	}
	return &Clip{Name: name, Frames: frames, FPS: fps, Loop: loop}
}

func testAnimator(clips ...*Clip) *Animator {
	m := make(map[string]*Clip, len(clips))
	for _, c := range clips {
		m[c.Name] = c
	}
	return NewAnimator(m, NewCacheSet())
}

func TestTickNoActiveClip(t *testing.T) {
	a := testAnimator(testClip("idle", 4, 12, true))
	require.Nil(t, a.Tick(100))
}

func TestTickEmptyClip(t *testing.T) {
	a := testAnimator(testClip("empty", 0, 12, true))
	a.Select("empty", 0)
	require.Nil(t, a.Tick(100))
}

func TestLoopWrapAround(t *testing.T) {
	a := testAnimator(testClip("test", 6, 12, true))
	a.Select("test", 0)

	// Period is 500ms; progress wraps exactly at the boundary.
	fi := a.Tick(500)
	require.Equal(t, 0, fi.FrameIndex)
	require.Equal(t, 0.0, fi.Progress)

	for _, ms := range []int64{0, 100, 250, 333, 499} {
		first := a.Tick(ms)
		require.GreaterOrEqual(t, first.FrameIndex, 0)
		require.Less(t, first.FrameIndex, 6)
		for cycle := int64(1); cycle <= 3; cycle++ {
			require.Equal(t, first.FrameIndex, a.Tick(ms+cycle*500).FrameIndex, "t=%d cycle=%d", ms, cycle)
		}
	}
}

func TestLoopFrameAdvance(t *testing.T) {
	a := testAnimator(testClip("test", 6, 12, true))
	a.Select("test", 0)

	// One frame lasts 1000/12 ms.
	require.Equal(t, 0, a.Tick(0).FrameIndex)
	require.Equal(t, 0, a.Tick(83).FrameIndex)
	require.Equal(t, 1, a.Tick(84).FrameIndex)
	require.Equal(t, 5, a.Tick(499).FrameIndex)
}

func TestOneShotTerminalHold(t *testing.T) {
	a := testAnimator(testClip("oneshot", 4, 8, false))
	a.Select("oneshot", 0)

	fi := a.Tick(10000)
	require.Equal(t, 3, fi.FrameIndex)
	require.Equal(t, 1.0, fi.Progress)
	require.Equal(t, 3, a.Tick(20000).FrameIndex)
}

func TestOneShotHoldLastExtendsDuration(t *testing.T) {
	clip := testClip("oneshot", 4, 8, false)
	clip.HoldLastMs = 625 // base 375ms + hold = 1s total
	a := testAnimator(clip)
	a.Select("oneshot", 0)

	fi := a.Tick(500)
	require.Equal(t, 0.5, fi.Progress)
	require.Equal(t, 1, fi.FrameIndex)
	require.Equal(t, 3, a.Tick(1000).FrameIndex)
}

func TestOneShotEasedProgressCanOvershoot(t *testing.T) {
	clip := testClip("pop", 5, 10, false)
	clip.Easing = "out_back"
	a := testAnimator(clip)
	a.Select("pop", 0)

	// base duration 400ms; out_back peaks past 1 around 70% in.
	fi := a.Tick(280)
	require.Greater(t, fi.Progress, 1.0)
	require.Equal(t, 4, fi.FrameIndex)
}

func TestSingleFrameClip(t *testing.T) {
	loop := testClip("static", 1, 12, true)
	shot := testClip("shot", 1, 12, false)
	shot.Easing = "out_back"
	a := testAnimator(loop, shot)

	a.Select("static", 0)
	for _, ms := range []int64{0, 50, 5000} {
		require.Equal(t, 0, a.Tick(ms).FrameIndex)
	}

	a.Select("shot", 0)
	for _, ms := range []int64{0, 50, 5000} {
		require.Equal(t, 0, a.Tick(ms).FrameIndex)
	}
}

func TestElapsedClampedNonNegative(t *testing.T) {
	a := testAnimator(testClip("test", 6, 12, true))
	a.Select("test", 1000)

	fi := a.Tick(400)
	require.Equal(t, int64(0), fi.ElapsedMs)
	require.Equal(t, 0, fi.FrameIndex)
}

func TestPauseFreezesSample(t *testing.T) {
	a := testAnimator(testClip("test", 6, 12, true))
	a.Select("test", 0)
	before := a.Tick(100)

	a.Pause()
	s1 := a.Tick(200)
	s2 := a.Tick(900)
	require.Same(t, before, s1)
	require.Same(t, s1, s2)
}

func TestPauseDoesNotFreezeClock(t *testing.T) {
	a := testAnimator(testClip("oneshot", 4, 8, false))
	a.Select("oneshot", 0)
	require.Equal(t, 0, a.Tick(100).FrameIndex)

	a.Pause()
	require.Equal(t, 0, a.Tick(5000).FrameIndex)

	// The clip aged behind the pause; resuming reflects the full gap.
	a.Resume()
	fi := a.Tick(10000)
	require.Equal(t, 3, fi.FrameIndex)
	require.Equal(t, int64(10000), fi.ElapsedMs)
}

func TestTogglePause(t *testing.T) {
	a := testAnimator(testClip("test", 6, 12, true))
	require.False(t, a.Paused())
	a.TogglePause()
	require.True(t, a.Paused())
	a.TogglePause()
	require.False(t, a.Paused())
}

func TestSelectUnknownClipIsNoop(t *testing.T) {
	a := testAnimator(testClip("test", 6, 12, true))
	a.Select("test", 0)
	a.Select("nope", 400)

	fi := a.Tick(500)
	require.Equal(t, "test", fi.Clip)
	require.Equal(t, int64(500), fi.ElapsedMs)
}

func TestSelectWhilePausedStaysPaused(t *testing.T) {
	a := testAnimator(testClip("test", 6, 12, true), testClip("other", 3, 12, true))
	a.Select("test", 0)
	a.Tick(100)

	a.Pause()
	a.Select("other", 200)
	require.True(t, a.Paused())
	require.Equal(t, "test", a.Tick(300).Clip)
}

func TestFPSOverride(t *testing.T) {
	a := testAnimator(testClip("test", 6, 12, true))
	a.Select("test", 0)

	a.SetFPSOverride(24)
	require.Equal(t, 2, a.Tick(100).FrameIndex)

	a.SetFPSOverride(0)
	require.Equal(t, 1, a.Tick(100).FrameIndex)
}

func TestFPSClampedPositive(t *testing.T) {
	clip := testClip("test", 6, 0, true)
	a := testAnimator(clip)
	a.Select("test", 0)

	fi := a.Tick(100)
	require.NotNil(t, fi)
	require.GreaterOrEqual(t, fi.FrameIndex, 0)
	require.Less(t, fi.FrameIndex, 6)
}

func TestFrameForProgress(t *testing.T) {
	loop := testClip("loop", 6, 12, true)
	shot := testClip("shot", 4, 8, false)
	a := testAnimator(loop, shot)

	require.Equal(t, 0, a.FrameForProgress("loop", 0))
	require.Equal(t, 3, a.FrameForProgress("loop", 0.5))
	require.Equal(t, 0, a.FrameForProgress("loop", 1)) // wraps at the boundary

	require.Equal(t, 0, a.FrameForProgress("shot", 0))
	require.Equal(t, 1, a.FrameForProgress("shot", 0.5))
	require.Equal(t, 3, a.FrameForProgress("shot", 1))

	// Input is clamped into [0,1].
	require.Equal(t, 0, a.FrameForProgress("loop", -3))
	require.Equal(t, 3, a.FrameForProgress("shot", 7))

	require.Equal(t, 0, a.FrameForProgress("unknown", 0.5))
}

func TestFrameForProgressAgreesWithTick(t *testing.T) {
	clip := testClip("shot", 5, 10, false)
	clip.Easing = "out_cubic"
	a := testAnimator(clip)
	a.Select("shot", 0)

	// base duration 400ms; the same raw progress must land on the
	// same frame through either path.
	for _, ms := range []int64{0, 100, 200, 300, 400} {
		fi := a.Tick(ms)
		require.Equal(t, fi.FrameIndex, a.FrameForProgress("shot", float64(ms)/400), "t=%d", ms)
	}
}

func TestNamesSorted(t *testing.T) {
	a := testAnimator(testClip("walk", 2, 12, true), testClip("idle", 2, 12, true), testClip("run", 2, 12, true))
	require.Equal(t, []string{"idle", "run", "walk"}, a.Names())
}

func TestClipInfos(t *testing.T) {
	a := testAnimator(testClip("idle", 6, 24, true), testClip("open", 4, 12, false))
	infos := a.ClipInfos()
	require.Equal(t, []ClipInfo{
		{Name: "idle", Frames: 6, FPS: 24, Loop: true},
		{Name: "open", Frames: 4, FPS: 12, Loop: false},
	}, infos)
}

func TestSetClipsKeepsActiveByName(t *testing.T) {
	a := testAnimator(testClip("idle", 6, 12, true))
	a.Select("idle", 0)
	a.Tick(100)

	replacement := testClip("idle", 3, 24, true)
	a.SetClips(map[string]*Clip{"idle": replacement})
	fi := a.Tick(200)
	require.Equal(t, "idle", fi.Clip)
	require.Less(t, fi.FrameIndex, 3)

	a.SetClips(map[string]*Clip{"other": testClip("other", 2, 12, true)})
	require.Nil(t, a.Tick(300))
}

func TestImageFromLooseFile(t *testing.T) {
	dir := t.TempDir()
	framePath := filepath.Join(dir, "frame.png")
	writeFile(t, framePath, pngBytes(t))

	clip := &Clip{Name: "loose", Frames: []string{framePath}, FPS: 12, Loop: true}
	a := testAnimator(clip)
	a.Select("loose", 0)

	img, ok := a.Image(a.Tick(0))
	require.True(t, ok)
	require.Equal(t, 2, img.Bounds().Dx())
}

func TestImageFromArchive(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "frames.zip")
	writeZip(t, zipPath, map[string][]byte{"frame_0000.png": pngBytes(t)})

	clip := &Clip{Name: "packed", Frames: []string{"frame_0000.png"}, FPS: 12, Loop: true, Archive: zipPath}
	a := testAnimator(clip)
	a.Select("packed", 0)

	img, ok := a.Image(a.Tick(0))
	require.True(t, ok)
	require.Equal(t, 2, img.Bounds().Dx())
}

func TestImageDegrades(t *testing.T) {
	clip := &Clip{Name: "broken", Frames: []string{"/nonexistent/frame.png"}, FPS: 12, Loop: true}
	a := testAnimator(clip)
	a.Select("broken", 0)

	_, ok := a.Image(a.Tick(0))
	require.False(t, ok)

	_, ok = a.Image(nil)
	require.False(t, ok)
}
