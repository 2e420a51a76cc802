package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultCacheTTL is how long a decoded image stays cached when no TTL is given.
const DefaultCacheTTL = 10 * time.Minute

// ImageCache provides thread-safe caching of decoded label images.
//
// Images are keyed by the exact path string passed to Load and expire after
// the cache TTL, so a long-running server does not hold every scanned label
// in memory. Repeated tool calls on the same label (preview, scan, region
// scan) reuse the decoded image.
//
// # Example Usage
//
//	cache := imaging.NewImageCache(5 * time.Minute)
//	img, err := cache.Load("/path/to/label.jpg")
//	if err != nil {
//	    return err
//	}
type ImageCache struct {
	images *cache.Cache
}

// NewImageCache creates an empty cache. A ttl <= 0 selects DefaultCacheTTL.
func NewImageCache(ttl time.Duration) *ImageCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ImageCache{
		images: cache.New(ttl, 2*ttl),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Supported formats are PNG, JPEG and GIF. A cache hit refreshes nothing;
// entries expire TTL after they were first loaded.
func (c *ImageCache) Load(path string) (image.Image, error) {
	if v, ok := c.images.Get(path); ok {
		return v.(image.Image), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.images.SetDefault(path, img)
	return img, nil
}

// Evict removes a specific image from the cache by its path.
func (c *ImageCache) Evict(path string) {
	c.images.Delete(path)
}

// Len reports the number of cached images, including expired ones not yet
// swept.
func (c *ImageCache) Len() int {
	return c.images.ItemCount()
}

// ImageInfo contains metadata about a loaded label image.
type ImageInfo struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"` // from the file extension
	Grayscale     bool   `json:"grayscale"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and returns its metadata.
func LoadImageInfo(c *ImageCache, path string) (*ImageInfo, error) {
	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	grayscale := false
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		grayscale = true
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		Grayscale:     grayscale,
		FileSizeBytes: stat.Size(),
	}, nil
}
