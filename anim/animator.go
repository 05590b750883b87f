package anim

import (
	"image"
	_ "image/png"
	"math"
	"os"
	"sort"
	"time"
)

// minFPS clamps configured and overridden playback rates to a strictly
// positive value.
const minFPS = 1e-6

// A FrameSample is the immutable result of one animator tick.
type FrameSample struct {
	Clip       string  `json:"clip"`
	ElapsedMs  int64   `json:"elapsedMs"`
	Progress   float64 `json:"progress"`
	FrameIndex int     `json:"frameIndex"`
	Frame      string  `json:"frame"`
}

// An Animator maps wall-clock time onto the frames of a selected clip.
// It is poll-driven and single-threaded: callers tick it from one
// goroutine and add their own synchronisation if they need more.
type Animator struct {
	clips       map[string]*Clip
	caches      *CacheSet
	current     *Clip
	startMs     int64
	paused      bool
	fpsOverride float64
	last        *FrameSample
}

// NewAnimator creates an Animator over a clip set. Archive-backed
// clips resolve their images through caches.
func NewAnimator(clips map[string]*Clip, caches *CacheSet) *Animator {
	a := new(Animator)
	a.clips = clips
	a.caches = caches
	return a
}

// Select makes a clip active and restarts its clock at nowMs. Unknown
// names are ignored. Selecting while paused leaves the animator
// paused.
func (a *Animator) Select(name string, nowMs int64) {
	clip, ok := a.clips[name]
	if !ok {
		return
	}
	a.current = clip
	a.startMs = nowMs
}

// SelectNow selects a clip against the current wall-clock time.
func (a *Animator) SelectNow(name string) {
	a.Select(name, time.Now().UnixMilli())
}

// Pause freezes the returned sample, not the clock: startMs keeps
// aging, so resuming after a gap jumps the clip forward by the full
// gap. Hosts rely on one-shots completing behind a pause.
func (a *Animator) Pause() {
	a.paused = true
}

func (a *Animator) Resume() {
	a.paused = false
}

func (a *Animator) TogglePause() {
	a.paused = !a.paused
}

func (a *Animator) Paused() bool {
	return a.paused
}

// SetFPSOverride forces a playback rate for every clip until cleared
// with a value <= 0.
func (a *Animator) SetFPSOverride(fps float64) {
	a.fpsOverride = fps
}

// Tick computes the frame the active clip shows at nowMs. It returns
// nil when no clip is active or the active clip has no frames. While
// paused it returns the previously computed sample unchanged.
func (a *Animator) Tick(nowMs int64) *FrameSample {
	if a.current == nil {
		return nil
	}
	if a.paused && a.last != nil {
		return a.last
	}
	clip := a.current
	count := len(clip.Frames)
	if count == 0 {
		return nil
	}

	elapsed := nowMs - a.startMs
	if elapsed < 0 {
		elapsed = 0
	}
	fps := clip.FPS
	if a.fpsOverride > 0 {
		fps = a.fpsOverride
	}
	if fps < minFPS {
		fps = minFPS
	}

	var idx int
	var p float64
	if clip.Loop {
		periodMs := int64(1000 * float64(count) / fps)
		if periodMs < 1 {
			periodMs = 1
		}
		cycleMs := elapsed % periodMs
		idx = int(math.Floor(float64(cycleMs)*fps/1000)) % count
		p = float64(cycleMs) / float64(periodMs)
	} else {
		var baseMs float64
		if count > 1 {
			baseMs = 1000 * float64(count-1) / fps
		}
		durMs := int64(baseMs) + int64(clip.HoldLastMs)
		if durMs < 1 {
			durMs = 1
		}
		raw := float64(elapsed) / float64(durMs)
		if raw > 1 {
			raw = 1
		}
		p = Easer(clip.Easing)(raw)
		idx = clampIndex(p, count)
	}

	fi := new(FrameSample)
	fi.Clip = clip.Name
	fi.ElapsedMs = elapsed
	fi.Progress = p
	fi.FrameIndex = idx
	fi.Frame = clip.Frames[idx]
	a.last = fi
	return fi
}

// TickNow ticks against the current wall-clock time.
func (a *Animator) TickNow() *FrameSample {
	return a.Tick(time.Now().UnixMilli())
}

// clampIndex maps eased one-shot progress onto a frame index, clamped
// into bounds whatever the easing curve did.
func clampIndex(p float64, count int) int {
	if count <= 1 {
		return 0
	}
	idx := int(math.Floor(p * float64(count-1)))
	if idx > count-1 {
		idx = count - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// FrameForProgress reports the frame index a clip shows at progress p
// in [0,1], without touching playback state. Scrubbing and preview
// tooling use it; it agrees with Tick's index rules.
func (a *Animator) FrameForProgress(name string, p float64) int {
	clip, ok := a.clips[name]
	if !ok || len(clip.Frames) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	if clip.Loop {
		return int(math.Floor(p*float64(len(clip.Frames)))) % len(clip.Frames)
	}
	return clampIndex(Easer(clip.Easing)(p), len(clip.Frames))
}

// Names lists the registered clip names in sorted order.
func (a *Animator) Names() []string {
	names := make([]string, 0, len(a.clips))
	for name := range a.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// A ClipInfo summarises one registered clip for preview surfaces.
type ClipInfo struct {
	Name   string  `json:"name"`
	Frames int     `json:"frames"`
	FPS    float64 `json:"fps"`
	Loop   bool    `json:"loop"`
}

// ClipInfos summarises the clip set in name order.
func (a *Animator) ClipInfos() []ClipInfo {
	infos := make([]ClipInfo, 0, len(a.clips))
	for _, name := range a.Names() {
		clip := a.clips[name]
		infos = append(infos, ClipInfo{Name: clip.Name, Frames: len(clip.Frames), FPS: clip.FPS, Loop: clip.Loop})
	}
	return infos
}

// SetClips swaps in a freshly loaded clip set, keeping the active clip
// when its name survives the reload.
func (a *Animator) SetClips(clips map[string]*Clip) {
	a.clips = clips
	if a.current == nil {
		return
	}
	if clip, ok := clips[a.current.Name]; ok {
		a.current = clip
	} else {
		a.current = nil
		a.last = nil
	}
}

// Image resolves a sample to a decoded frame, through the shared cache
// for archive-backed clips or straight off disk for loose files. ok is
// false when nothing decodable was found; callers draw a placeholder
// then.
func (a *Animator) Image(fi *FrameSample) (image.Image, bool) {
	if fi == nil {
		return nil, false
	}
	clip, ok := a.clips[fi.Clip]
	if !ok {
		return nil, false
	}
	if clip.Archive != "" {
		cache, err := a.caches.For(clip.Archive)
		if err != nil {
			return nil, false
		}
		return cache.Image(fi.Frame), true
	}

	f, err := os.Open(fi.Frame)
	if err != nil {
		return nil, false
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, false
	}
	return img, true
}
