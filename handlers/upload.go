package handlers

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/image/draw"
)

// Max widths per upload folder, matching what the UI displays.
var folderWidths = map[string]int{
	"recipes": 800,
	"steps":   400,
}

type UploadHandler struct {
	UploadDir string
}

func NewUploadHandler(uploadDir string) *UploadHandler {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		panic(fmt.Sprintf("Failed to create upload directory: %v", err))
	}

	return &UploadHandler{UploadDir: uploadDir}
}

// UploadImage accepts a multipart image, downscales it to the folder's
// max width, stores it as JPEG, and returns the public URL.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	defer file.Close()

	folder := c.DefaultPostForm("folder", "recipes")
	maxWidth, ok := folderWidths[folder]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown upload folder"})
		return
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	fileType := http.DetectContentType(buffer[:n])
	if fileType != "image/jpeg" && fileType != "image/png" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPEG and PNG images are allowed"})
		return
	}

	if _, err := file.Seek(0, 0); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}

	img, _, err := image.Decode(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image data"})
		return
	}

	img = scaleToWidth(img, maxWidth)

	dir := filepath.Join(h.UploadDir, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Println("Error creating upload folder:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	base := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	filename := fmt.Sprintf("%d_%s.jpg", time.Now().UnixNano(), strings.ReplaceAll(base, " ", "_"))
	outPath := filepath.Join(dir, filename)

	out, err := os.Create(outPath)
	if err != nil {
		log.Println("Error creating upload file:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		log.Println("Error encoding image:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      fmt.Sprintf("/uploads/%s/%s", folder, filename),
		"filename": filename,
	})
}

// DeleteImage removes a stored upload given its public URL. Missing
// files are ignored; the caller treats cleanup as best-effort.
func (h *UploadHandler) DeleteImage(imageURL string) {
	if imageURL == "" || !strings.HasPrefix(imageURL, "/uploads/") {
		return
	}

	rel := strings.TrimPrefix(imageURL, "/uploads/")
	path := filepath.Join(h.UploadDir, filepath.Clean(rel))
	if !strings.HasPrefix(path, filepath.Clean(h.UploadDir)+string(os.PathSeparator)) {
		return
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Println("Error deleting image:", err)
	}
}

func scaleToWidth(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxWidth {
		return img
	}

	ratio := float64(maxWidth) / float64(width)
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, int(float64(height)*ratio)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
