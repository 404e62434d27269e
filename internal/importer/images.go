package importer

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nateso/toy-dash-application/internal/model"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// loadImages 读取图片目录，文件名（去扩展名）即资源 ID
func loadImages(dir string) ([]model.ImageAsset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}

	seen := make(map[string]string)
	var images []model.ImageAsset
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !imageExts[ext] {
			continue
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("image %q defined twice (%s, %s)", id, prev, e.Name())
		}
		seen[id] = e.Name()

		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", e.Name(), err)
		}
		images = append(images, model.ImageAsset{
			ID:          id,
			ContentType: contentType(ext, data),
			Data:        data,
		})
	}

	sort.Slice(images, func(i, j int) bool { return images[i].ID < images[j].ID })
	return images, nil
}

func contentType(ext string, data []byte) string {
	if ct := http.DetectContentType(data); strings.HasPrefix(ct, "image/") {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
