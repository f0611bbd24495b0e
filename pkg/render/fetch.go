// fetch.go — Pixel sources for image references.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/xob0t/SnapPolish/pkg/composition"
)

// maxFetchBytes bounds a remote image download.
const maxFetchBytes = 32 << 20

// remoteCache holds decoded remote images by URL.
type remoteCache struct {
	mu     sync.Mutex
	images map[string]image.Image
}

// pixels returns the decoded pixels of ref. Remote references are fetched
// only when allowRemote is set; otherwise the capture is tainted.
func (r *Rasterizer) pixels(ctx context.Context, ref *composition.Image, allowRemote bool) (image.Image, error) {
	if ref == nil {
		return nil, fmt.Errorf("%w: missing image", ErrImage)
	}
	if ref.Pixels != nil {
		return ref.Pixels, nil
	}
	if !ref.Remote() {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrImage, ref.Name)
	}
	if !allowRemote {
		return nil, fmt.Errorf("%w: %s", ErrTainted, ref.URL)
	}

	r.cache.mu.Lock()
	img, ok := r.cache.images[ref.URL]
	r.cache.mu.Unlock()
	if ok {
		return img, nil
	}

	img, err := r.fetch(ctx, ref.URL)
	if err != nil {
		return nil, err
	}
	r.cache.mu.Lock()
	r.cache.images[ref.URL] = img
	r.cache.mu.Unlock()
	return img, nil
}

func (r *Rasterizer) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImage, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrImage, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", ErrImage, url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrImage, url, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrImage, url, err)
	}
	return img, nil
}
