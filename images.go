package caravansite

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"

	collectionImages = "images"
)

// Image is the stored metadata for one uploaded hero/content image.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// processImage decodes an image from src, resizes it down to maxImageWidth
// if wider, and re-encodes it as JPEG. Returns metadata and the bytes.
func processImage(src io.Reader, originalName string) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	ext := filepath.Ext(originalName)
	filename := Slugify(strings.TrimSuffix(originalName, ext)) + ".jpg"

	return Image{
		Filename:     filename,
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
		UploadedAt:   time.Now().UTC().Format(time.RFC3339),
	}, buf.Bytes(), nil
}

// listImages loads stored image metadata, newest upload first.
func (a *App) listImages(ctx context.Context) ([]Image, error) {
	docs, err := a.Store.Collection(collectionImages).AllOrderBy(ctx, "uploadedAt", false)
	if err != nil {
		return nil, err
	}
	images := make([]Image, 0, len(docs))
	for _, doc := range docs {
		images = append(images, Image{
			Filename:     stringField(doc.Data, "filename"),
			OriginalName: stringField(doc.Data, "originalName"),
			Width:        intField(doc.Data, "width"),
			Height:       intField(doc.Data, "height"),
			Size:         intField(doc.Data, "size"),
			UploadedAt:   CoerceTimestamp(doc.Data["uploadedAt"]),
		})
	}
	return images, nil
}

func intField(data map[string]any, key string) int {
	f, _ := data[key].(float64)
	return int(f)
}

// ensureUniqueFilename appends a counter while the name exists on disk or
// in the image collection.
func (a *App) ensureUniqueFilename(ctx context.Context, img *Image) {
	dir := filepath.Join(a.staticDir, uploadsSubdir)
	base := strings.TrimSuffix(img.Filename, ".jpg")
	existing, _ := a.listImages(ctx)
	taken := make(map[string]struct{}, len(existing))
	for _, ex := range existing {
		taken[ex.Filename] = struct{}{}
	}
	candidate := img.Filename
	counter := 1
	for {
		_, onDisk := os.Stat(filepath.Join(dir, candidate))
		_, inStore := taken[candidate]
		if onDisk != nil && !inStore {
			break
		}
		counter++
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
	img.Filename = candidate
}

func (a *App) handleImageUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := processImage(src, file.Filename)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	ctx := c.Request().Context()
	a.ensureUniqueFilename(ctx, &img)

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, img.Filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	_, err = a.Store.Collection(collectionImages).Add(ctx, map[string]any{
		"filename":     img.Filename,
		"originalName": img.OriginalName,
		"width":        img.Width,
		"height":       img.Height,
		"size":         img.Size,
		"uploadedAt":   img.UploadedAt,
	})
	if err != nil {
		return err
	}

	return a.renderImageList(c)
}

func (a *App) handleImageDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	filename := filepath.Base(c.Param("filename"))
	if filename == "" || filename == "." {
		return c.String(http.StatusBadRequest, "Filename required")
	}

	// ignore error if file already gone
	_ = os.Remove(filepath.Join(a.staticDir, uploadsSubdir, filename))

	ctx := c.Request().Context()
	col := a.Store.Collection(collectionImages)
	docs, err := col.All(ctx)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if stringField(doc.Data, "filename") == filename {
			if err := col.Delete(ctx, doc.ID); err != nil {
				return err
			}
		}
	}

	return a.renderImageList(c)
}

func (a *App) handleImageList(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.renderImageList(c)
}

func (a *App) renderImageList(c echo.Context) error {
	images, err := a.listImages(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminImages(images, CsrfToken(c)))
}
