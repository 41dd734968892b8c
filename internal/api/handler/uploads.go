package handler

import (
	"errors"
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"carwatch/backend/internal/config"

	"github.com/gin-gonic/gin"
)

var (
	errImageType = errors.New("unsupported image type")
	errImageSize = errors.New("image too large")
)

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

// saveImage validates and stores one uploaded image under
// <uploadDir>/<subdir>/ and returns its public path.
func (h *Handler) saveImage(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", errImageType
	}
	if file.Size > config.MaxUploadSize {
		return "", errImageSize
	}

	dir := filepath.Join(h.Cfg.UploadDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%d-%d%s", strings.TrimSuffix(subdir, "s"), time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return "/uploads/" + subdir + "/" + name, nil
}

// saveImages stores up to the per-document image cap from a multipart
// field, returning the public paths.
func (h *Handler) saveImages(c *gin.Context, field, subdir string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all is fine; callers treat it as zero images.
		return nil, nil
	}

	files := form.File[field]
	if len(files) > config.MaxImagesPerDoc {
		files = files[:config.MaxImagesPerDoc]
	}

	var paths []string
	for _, file := range files {
		path, err := h.saveImage(c, file, subdir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// uploadError writes the localized response for an image validation
// failure.
func (h *Handler) uploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errImageType):
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "image_type_invalid")})
	case errors.Is(err, errImageSize):
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "image_too_large")})
	default:
		h.fail(c, err)
	}
}
