package middleware

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"log"
	"os"
	"sync"
)

// Static files that carry a cache-busting version in their URL
const (
	AssetCSS = "css/app.css"
	AssetJS  = "js/app.js"
)

var (
	assetVersions     = map[string]string{}
	assetVersionsMu   sync.RWMutex
	assetVersionsOnce sync.Once
)

// InitAssetVersions computes file hashes for cache busting at startup
func InitAssetVersions(staticDir string) {
	assetVersionsOnce.Do(func() {
		loadAssetVersions(staticDir)
	})
}

func loadAssetVersions(staticDir string) {
	versions := make(map[string]string)
	for _, asset := range []string{AssetCSS, AssetJS} {
		if version := computeFileHash(staticDir + "/" + asset); version != "" {
			versions[asset] = version
		}
	}

	assetVersionsMu.Lock()
	assetVersions = versions
	assetVersionsMu.Unlock()
	log.Printf("[INFO] Asset versions initialized: %d files", len(versions))
}

// computeFileHash returns the first 8 characters of the MD5 hash of a file
func computeFileHash(path string) string {
	file, err := os.Open(path)
	if err != nil {
		log.Printf("[WARNING] Failed to open file for hashing %s: %v", path, err)
		return ""
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		log.Printf("[WARNING] Failed to hash file %s: %v", path, err)
		return ""
	}

	return hex.EncodeToString(hash.Sum(nil))[:8]
}

// AssetURL returns the public URL of a static asset with its version query.
// ctx is accepted so templ components can call it like the other helpers.
func AssetURL(ctx context.Context, asset string) string {
	assetVersionsMu.RLock()
	version, ok := assetVersions[asset]
	assetVersionsMu.RUnlock()
	if !ok {
		version = "1"
	}
	return "/static/" + asset + "?v=" + version
}
