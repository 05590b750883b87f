package anim

import (
	"archive/zip"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// A Clip is one named animation: an ordered sequence of frame locators
// plus playback parameters. Frame locators are loose file paths, or
// archive member names when Archive is set.
type Clip struct {
	Name       string
	Frames     []string
	FPS        float64
	Loop       bool
	HoldLastMs int
	Easing     string
	Archive    string
}

// A frameSource produces a clip's frame locators. The manifest entry
// shape picks the variant once at load time; nothing re-inspects the
// entry per tick.
type frameSource interface {
	resolve() []string
}

// explicitList uses the manifest's frame locators verbatim.
type explicitList []string

func (l explicitList) resolve() []string {
	return l
}

// globPattern expands a file glob, sorted lexicographically.
type globPattern string

func (g globPattern) resolve() []string {
	matches, err := filepath.Glob(string(g))
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	return matches
}

// rangeTemplate expands a printf-style format over a numeric range,
// start to end inclusive.
type rangeTemplate struct {
	format string
	start  int
	end    int
	step   int
}

func (r rangeTemplate) resolve() []string {
	step := r.step
	if step <= 0 {
		step = 1
	}
	var frames []string
	for i := r.start; i <= r.end; i += step {
		frames = append(frames, fmt.Sprintf(r.format, i))
	}
	return frames
}

// archiveDiscovery lists the .png members of a zip archive in natural
// order.
type archiveDiscovery string

func (a archiveDiscovery) resolve() []string {
	archive, err := zip.OpenReader(string(a))
	if err != nil {
		return nil
	}
	defer archive.Close()

	var names []string
	for _, f := range archive.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".png") {
			names = append(names, f.Name)
		}
	}
	sortNatural(names)
	return names
}

// clipEntry is one manifest entry. An entry is either a mapping
// carrying playback parameters and one frame-source form, a bare list
// of frame locators, or a bare glob string.
type clipEntry struct {
	source     frameSource
	fps        float64
	loop       bool
	holdLastMs int
	easing     string
	zip        string
}

func (e *clipEntry) UnmarshalYAML(unmarshal func(interface{}) error) error {
	e.fps = 12
	e.loop = true

	var frames []string
	if err := unmarshal(&frames); err == nil {
		e.source = explicitList(frames)
		return nil
	}
	var pattern string
	if err := unmarshal(&pattern); err == nil {
		e.source = globPattern(pattern)
		return nil
	}

	var m struct {
		Frames     []string `yaml:"frames"`
		Glob       string   `yaml:"glob"`
		Fmt        string   `yaml:"fmt"`
		Range      []int    `yaml:"range"`
		FPS        *float64 `yaml:"fps"`
		Loop       *bool    `yaml:"loop"`
		HoldLastMs int      `yaml:"hold_last_ms"`
		Easing     string   `yaml:"easing"`
		Zip        string   `yaml:"zip"`
	}
	if err := unmarshal(&m); err != nil {
		return err
	}

	if m.FPS != nil {
		e.fps = *m.FPS
	}
	if m.Loop != nil {
		e.loop = *m.Loop
	}
	e.holdLastMs = m.HoldLastMs
	e.easing = m.Easing
	e.zip = m.Zip

	switch {
	case len(m.Frames) > 0:
		e.source = explicitList(m.Frames)
	case m.Glob != "":
		e.source = globPattern(m.Glob)
	case m.Fmt != "" && len(m.Range) >= 2:
		r := rangeTemplate{format: m.Fmt, start: m.Range[0], end: m.Range[1], step: 1}
		if len(m.Range) > 2 {
			r.step = m.Range[2]
		}
		e.source = r
	}
	return nil
}

var digitRuns = regexp.MustCompile(`\d+`)

// naturalKey extracts the last one or two digit runs of a frame name.
// Frame filenames commonly embed more than one counter (a scene id and
// a frame id); the trailing runs are the ones that order playback.
func naturalKey(name string) []int {
	runs := digitRuns.FindAllString(name, -1)
	if len(runs) > 2 {
		runs = runs[len(runs)-2:]
	}
	key := make([]int, 0, len(runs))
	for _, run := range runs {
		n, err := strconv.Atoi(run)
		if err != nil {
			n = 0
		}
		key = append(key, n)
	}
	return key
}

func naturalLess(a, b string) bool {
	ka, kb := naturalKey(a), naturalKey(b)
	if len(ka) == 0 || len(kb) == 0 {
		return a < b
	}
	for i := 0; i < len(ka) && i < len(kb); i++ {
		if ka[i] != kb[i] {
			return ka[i] < kb[i]
		}
	}
	return len(ka) < len(kb)
}

// sortNatural orders frame names by naturalKey, keeping the incoming
// order for ties.
func sortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return naturalLess(names[i], names[j])
	})
}
