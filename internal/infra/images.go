package infra

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"
)

const (
	maxImageSize      = 5 * 1024 * 1024 // 5MB upload cap
	compressThreshold = 1 * 1024 * 1024 // resize anything above 1MB
	maxImageWidth     = 800
)

// SaveProductImage stores an uploaded product image under uploadDir and
// returns the file name. Images above the compression threshold are
// downscaled to maxImageWidth before writing.
func SaveProductImage(file *multipart.FileHeader, uploadDir, productID string) (string, error) {
	if file.Size > maxImageSize {
		return "", fmt.Errorf("la imagen supera el límite de 5MB")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", fmt.Errorf("formato de imagen no soportado: %s", ext)
	}

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio de imágenes: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("abrir imagen subida: %w", err)
	}
	defer src.Close()

	fileName := fmt.Sprintf("%s_%d%s", productID, time.Now().Unix(), ext)
	fullPath := filepath.Join(uploadDir, fileName)

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("crear archivo de imagen: %w", err)
	}
	defer out.Close()

	if file.Size <= compressThreshold {
		if _, err := out.ReadFrom(src); err != nil {
			return "", fmt.Errorf("guardar imagen: %w", err)
		}
		return fileName, nil
	}

	var img image.Image
	if ext == ".png" {
		img, err = png.Decode(src)
	} else {
		img, err = jpeg.Decode(src)
	}
	if err != nil {
		return "", fmt.Errorf("decodificar imagen: %w", err)
	}

	resized := resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	if ext == ".png" {
		err = png.Encode(out, resized)
	} else {
		err = jpeg.Encode(out, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return "", fmt.Errorf("codificar imagen: %w", err)
	}
	return fileName, nil
}
