package anim

import (
	"os"

	"gopkg.in/yaml.v2"
)

// DefaultArchive is the archive the default clip set discovers frames
// from when no manifest is usable.
const DefaultArchive = "assets/frames.zip"

// defaultStaticFrame backs the default clips when DefaultArchive is
// absent too.
const defaultStaticFrame = "assets/frames/frame_0001.png"

type DegradeReason string

// Reasons the registry degrades instead of failing.
const (
	ManifestMissing DegradeReason = "manifest missing"
	ManifestInvalid DegradeReason = "manifest invalid"
	ManifestEmpty   DegradeReason = "manifest empty"
	NoUsableClips   DegradeReason = "no usable clips"
	ArchiveMissing  DegradeReason = "archive missing"
	ClipEmpty       DegradeReason = "clip has no frames"
	DefaultStatic   DegradeReason = "default clips from static frame"
)

// A Degradation records one recovery taken during a manifest load.
// Clip is empty for manifest-level recoveries.
type Degradation struct {
	Clip   string
	Reason DegradeReason
}

func (d Degradation) String() string {
	if d.Clip == "" {
		return string(d.Reason)
	}
	return d.Clip + ": " + string(d.Reason)
}

// A LoadReport accumulates the degradations a load took. Loading never
// fails outright; the report says which fallback paths fired.
type LoadReport struct {
	degradations []Degradation
}

func (r *LoadReport) add(clip string, reason DegradeReason) {
	r.degradations = append(r.degradations, Degradation{Clip: clip, Reason: reason})
}

// Degraded reports whether any fallback fired.
func (r *LoadReport) Degraded() bool {
	return len(r.degradations) > 0
}

// Degradations lists the recoveries in the order they were taken.
func (r *LoadReport) Degradations() []Degradation {
	return r.degradations
}

// Has reports whether a particular fallback fired for a clip; pass an
// empty clip name for manifest-level recoveries.
func (r *LoadReport) Has(clip string, reason DegradeReason) bool {
	for _, d := range r.degradations {
		if d.Clip == clip && d.Reason == reason {
			return true
		}
	}
	return false
}

type manifest struct {
	Clips map[string]clipEntry `yaml:"clips"`
}

// LoadManifest parses a clip manifest into clip definitions. The codec
// is YAML, which also accepts JSON manifests unchanged. A nil map
// means the manifest itself was unusable; per-clip problems degrade to
// empty clips and are noted on the report.
func LoadManifest(path string) (map[string]*Clip, *LoadReport) {
	report := new(LoadReport)

	b, err := os.ReadFile(path)
	if err != nil {
		report.add("", ManifestMissing)
		return nil, report
	}
	var m manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		report.add("", ManifestInvalid)
		return nil, report
	}
	if len(m.Clips) == 0 {
		report.add("", ManifestEmpty)
		return nil, report
	}

	clips := make(map[string]*Clip, len(m.Clips))
	for name, entry := range m.Clips {
		clips[name] = buildClip(name, entry, report)
	}
	return clips, report
}

func buildClip(name string, entry clipEntry, report *LoadReport) *Clip {
	c := new(Clip)
	c.Name = name
	c.FPS = entry.fps
	c.Loop = entry.loop
	c.HoldLastMs = entry.holdLastMs
	c.Easing = entry.easing

	if entry.zip != "" {
		if _, err := os.Stat(entry.zip); err != nil {
			report.add(name, ArchiveMissing)
		} else {
			c.Archive = entry.zip
		}
	}
	if entry.source != nil {
		c.Frames = entry.source.resolve()
	}
	if c.Archive != "" && len(c.Frames) == 0 {
		c.Frames = archiveDiscovery(c.Archive).resolve()
	}
	if len(c.Frames) == 0 {
		report.add(name, ClipEmpty)
	}
	return c
}

// LoadOrDefault loads a manifest, falling back to DefaultClips when
// the manifest is missing, malformed, empty or yields no clip with any
// frames. It never fails.
func LoadOrDefault(path string) (map[string]*Clip, *LoadReport) {
	clips, report := LoadManifest(path)
	usable := false
	for _, c := range clips {
		if len(c.Frames) > 0 {
			usable = true
			break
		}
	}
	if !usable {
		if clips != nil {
			report.add("", NoUsableClips)
		}
		return DefaultClips(report), report
	}
	return clips, report
}

// DefaultClips synthesizes the built-in clip set, preferring frames
// discovered in DefaultArchive and degrading to a single repeated
// static frame when the archive is absent. The scheduler always has a
// usable clip set this way.
func DefaultClips(report *LoadReport) map[string]*Clip {
	frames := archiveDiscovery(DefaultArchive).resolve()
	if len(frames) > 0 {
		idle := frames
		if len(frames) > 180 {
			idle = frames[:180]
		}
		open := frames[:1]
		if len(frames) >= 24 {
			open = frames[:24]
		}
		finish := frames[len(frames)-1:]
		if len(frames) >= 24 {
			finish = frames[len(frames)-24:]
		}
		return map[string]*Clip{
			"open":        {Name: "open", Frames: open, FPS: 24, HoldLastMs: 200, Easing: "out_back", Archive: DefaultArchive},
			"idle":        {Name: "idle", Frames: idle, FPS: 24, Loop: true, Archive: DefaultArchive},
			"speak":       {Name: "speak", Frames: idle, FPS: 24, Loop: true, Archive: DefaultArchive},
			"celebrate":   {Name: "celebrate", Frames: idle, FPS: 24, Loop: true, Archive: DefaultArchive},
			"finish_hold": {Name: "finish_hold", Frames: finish, FPS: 24, HoldLastMs: 600, Archive: DefaultArchive},
		}
	}

	report.add("", DefaultStatic)
	static := []string{defaultStaticFrame}
	return map[string]*Clip{
		"open":        {Name: "open", Frames: static, FPS: 12, HoldLastMs: 400, Easing: "out_back"},
		"idle":        {Name: "idle", Frames: static, FPS: 12, Loop: true},
		"speak":       {Name: "speak", Frames: static, FPS: 12, Loop: true},
		"celebrate":   {Name: "celebrate", Frames: static, FPS: 12, Loop: true},
		"finish_hold": {Name: "finish_hold", Frames: static, FPS: 12, HoldLastMs: 1000},
	}
}
