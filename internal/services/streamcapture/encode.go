package streamcapture

import (
	"encoding/base64"
	"fmt"

	"gocv.io/x/gocv"

	"incident-worker-go/internal/models"
)

// EncodeJPEG compresses a BGR24 frame with the given quality (1-100)
func EncodeJPEG(frame *models.Frame, quality int) ([]byte, error) {
	if frame == nil {
		return nil, fmt.Errorf("nil frame")
	}
	if frame.Format != frameFormat {
		return nil, fmt.Errorf("unsupported frame format %q", frame.Format)
	}

	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap frame: %w", err)
	}
	defer mat.Close()

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	defer buf.Close()

	// copy out of the native buffer before it is released
	return append([]byte(nil), buf.GetBytes()...), nil
}

// EncodeDataURL returns the frame as a base64 JPEG data URL using the configured quality
func (s *Service) EncodeDataURL(frame *models.Frame) (string, error) {
	data, err := EncodeJPEG(frame, s.cfg.ImageQuality)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}
