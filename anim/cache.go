package anim

import (
	"archive/zip"
	"image"
	"image/png"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 512

// A FrameCache streams PNG frames out of a zip archive, keeping the
// most recently used decoded images in memory and evicting the least
// recently used beyond capacity. The archive is opened once and held
// for the cache's lifetime.
type FrameCache struct {
	archive *zip.ReadCloser
	members map[string]*zip.File
	images  *lru.Cache[string, image.Image]
}

// NewFrameCache opens an archive for frame streaming. This is the only
// point at which the cache can fail; everything after construction
// degrades instead.
func NewFrameCache(path string) (*FrameCache, error) {
	return newFrameCache(path, defaultCacheSize)
}

func newFrameCache(path string, size int) (*FrameCache, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	images, err := lru.New[string, image.Image](size)
	if err != nil {
		archive.Close()
		return nil, err
	}

	c := new(FrameCache)
	c.archive = archive
	c.members = make(map[string]*zip.File, len(archive.File))
	for _, f := range archive.File {
		c.members[f.Name] = f
	}
	c.images = images
	return c, nil
}

// Image returns the decoded image for an archive member, from cache
// when possible. A missing or undecodable member yields a blank image
// so a broken frame never interrupts a render loop.
func (c *FrameCache) Image(member string) image.Image {
	if img, ok := c.images.Get(member); ok {
		return img
	}
	img := c.decode(member)
	c.images.Add(member, img)
	return img
}

func (c *FrameCache) decode(member string) image.Image {
	f, ok := c.members[member]
	if !ok {
		return blankImage()
	}
	r, err := f.Open()
	if err != nil {
		return blankImage()
	}
	defer r.Close()
	img, err := png.Decode(r)
	if err != nil {
		return blankImage()
	}
	return img
}

// Exists reports whether the archive contains a member; it consults
// the archive directory, not the decoded cache.
func (c *FrameCache) Exists(member string) bool {
	_, ok := c.members[member]
	return ok
}

// Frames lists the archive's .png members in natural order.
func (c *FrameCache) Frames() []string {
	var names []string
	for name := range c.members {
		if strings.HasSuffix(strings.ToLower(name), ".png") {
			names = append(names, name)
		}
	}
	sortNatural(names)
	return names
}

func (c *FrameCache) Close() error {
	return c.archive.Close()
}

func blankImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

// A CacheSet shares one FrameCache per archive path, constructed
// lazily on first use. The composer owns it and hands it to
// NewAnimator, so cache lifetime is visible rather than hidden in
// process-wide state.
type CacheSet struct {
	caches map[string]*FrameCache
}

// NewCacheSet creates an empty CacheSet.
func NewCacheSet() *CacheSet {
	s := new(CacheSet)
	s.caches = make(map[string]*FrameCache)
	return s
}

// For returns the cache for an archive, opening the archive on first
// use. A failed open is reported every time; no broken cache is
// retained.
func (s *CacheSet) For(path string) (*FrameCache, error) {
	if c, ok := s.caches[path]; ok {
		return c, nil
	}
	c, err := NewFrameCache(path)
	if err != nil {
		return nil, err
	}
	s.caches[path] = c
	return c, nil
}

// Close releases every archive handle.
func (s *CacheSet) Close() {
	for _, c := range s.caches {
		c.Close()
	}
}
