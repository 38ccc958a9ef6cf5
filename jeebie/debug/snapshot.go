package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/crosscode/jeebie/jeebie/video"
)

// TakeSnapshot handles F12 snapshot logic for backends
func TakeSnapshot(frame *video.FrameBuffer, isTestPattern bool, testPatternType int) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	var baseName string
	if isTestPattern {
		patternNames := []string{"checkerboard", "gradient", "stripes", "diagonal"}
		baseName = fmt.Sprintf("jeebie_snapshot_%s", patternNames[testPatternType])
	} else {
		baseName = "jeebie_snapshot"
	}

	if err := SaveFramePNGToDir(frame, baseName, ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific directory
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string) error {
	img := image.NewRGBA(image.Rect(0, 0, video.FramebufferWidth, video.FramebufferHeight))

	frameData := frame.ToSlice()
	for i, pixel := range frameData {
		idx := i * 4
		img.Pix[idx] = byte(pixel >> 24)   // R
		img.Pix[idx+1] = byte(pixel >> 16) // G
		img.Pix[idx+2] = byte(pixel >> 8)  // B
		img.Pix[idx+3] = byte(pixel)       // A
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %v", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %v", filePath, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %v", err)
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", video.FramebufferWidth, video.FramebufferHeight), "format", "PNG")
	return nil
}

// SaveLayersPNG exports each of a RenderLayers' framebuffers as its own
// timestamped PNG under directory, named by the given prefix plus the
// layer name (background/window/sprites).
func SaveLayersPNG(layers *video.RenderLayers, prefix, directory string) error {
	timestamp := time.Now().Format("20060102_150405")

	named := map[string]*video.LayerFramebuffer{
		"background": layers.Background,
		"window":     layers.Window,
		"sprites":    layers.Sprites,
	}

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %v", err)
		}
		outputDir = cwd
	}

	for name, layer := range named {
		img := image.NewRGBA(image.Rect(0, 0, layer.Width, layer.Height))
		for i, pixel := range layer.Buffer {
			idx := i * 4
			img.Pix[idx] = byte(pixel >> 24)
			img.Pix[idx+1] = byte(pixel >> 16)
			img.Pix[idx+2] = byte(pixel >> 8)
			img.Pix[idx+3] = byte(pixel)
		}

		filePath := filepath.Join(outputDir, fmt.Sprintf("%s_%s_%s.png", prefix, name, timestamp))
		file, err := os.Create(filePath)
		if err != nil {
			return fmt.Errorf("failed to create file %s: %v", filePath, err)
		}
		err = png.Encode(file, img)
		file.Close()
		if err != nil {
			return fmt.Errorf("failed to encode PNG: %v", err)
		}
		slog.Info("Layer snapshot saved", "path", filePath)
	}

	return nil
}

// SaveFrameGrayPNG saves a framebuffer as a grayscale PNG (used in integration tests)
func SaveFrameGrayPNG(frame *video.FrameBuffer, filepath string) error {
	img := image.NewGray(image.Rect(0, 0, video.FramebufferWidth, video.FramebufferHeight))

	frameData := frame.ToSlice()
	for y := range video.FramebufferHeight {
		for x := range video.FramebufferWidth {
			pixel := frameData[y*video.FramebufferWidth+x]

			var gray uint8
			switch video.GBColor(pixel) {
			case video.BlackColor:
				gray = 0
			case video.DarkGreyColor:
				gray = 85
			case video.LightGreyColor:
				gray = 170
			case video.WhiteColor:
				gray = 255
			default:
				gray = 0
			}

			img.SetGray(x, y, color.Gray{gray})
		}
	}

	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
