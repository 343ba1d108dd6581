package streamcapture

import (
	"fmt"
	"image"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"incident-worker-go/internal/capture"
	"incident-worker-go/internal/config"
	"incident-worker-go/internal/models"
)

const frameFormat = "BGR24"

// FFmpeg options optimized for RTSP streaming
var ffmpegOptions = map[string]string{
	"rtsp_transport":        "tcp",     // Use TCP for more reliable connection
	"buffer_size":           "2097152", // 2MB buffer - smaller for real-time
	"max_delay":             "500000",  // 0.5s max delay
	"stimeout":              "5000000", // 5s timeout
	"rw_timeout":            "5000000", // 5s read/write timeout
	"flags":                 "low_delay",
	"fflags":                "nobuffer+flush_packets",
	"drop_pkts_on_overflow": "1",
	"analyzeduration":       "500000",  // 0.5s analyze
	"probesize":             "2000000", // 2MB
	"err_detect":            "careful",
	"allowed_media_types":   "video",
}

var ffmpegOnce sync.Once

// Service opens video sources through OpenCV's FFmpeg backend
type Service struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewService creates a new stream capture service
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg: cfg,
		log: log.With().Str("service", "streamcapture").Logger(),
	}
}

// Opener returns the capture.Opener backed by this service
func (s *Service) Opener() capture.Opener {
	return s.Open
}

// Open opens a URL, a file path or a numeric device id
func (s *Service) Open(source string) (capture.Decoder, error) {
	ffmpegOnce.Do(configureFFmpegOptions)

	var (
		vc  *gocv.VideoCapture
		err error
	)
	if deviceID, convErr := strconv.Atoi(source); convErr == nil {
		vc, err = gocv.OpenVideoCapture(deviceID)
	} else {
		vc, err = gocv.OpenVideoCaptureWithAPI(source, gocv.VideoCaptureFFmpeg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open video source %s: %w", source, err)
	}

	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("video source %s is not opened", source)
	}

	// Minimal buffer for low latency
	vc.Set(gocv.VideoCaptureBufferSize, 1)

	d := &decoder{
		vc:     vc,
		img:    gocv.NewMat(),
		width:  s.cfg.OutputWidth,
		height: s.cfg.OutputHeight,
	}

	s.log.Debug().
		Str("source", source).
		Float64("fps", d.FPS()).
		Float64("width", vc.Get(gocv.VideoCaptureFrameWidth)).
		Float64("height", vc.Get(gocv.VideoCaptureFrameHeight)).
		Msg("VideoCapture opened")

	return d, nil
}

// decoder adapts a gocv.VideoCapture to capture.Decoder
type decoder struct {
	vc     *gocv.VideoCapture
	img    gocv.Mat
	width  int // 0 keeps the source size
	height int
}

func (d *decoder) Read() (*models.Frame, bool) {
	if ok := d.vc.Read(&d.img); !ok || d.img.Empty() {
		return nil, false
	}

	out := d.img
	if d.width > 0 && d.height > 0 && (d.img.Cols() != d.width || d.img.Rows() != d.height) {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(d.img, &resized, image.Pt(d.width, d.height), 0, 0, gocv.InterpolationLinear)
		out = resized
	}

	return &models.Frame{
		Data:   out.ToBytes(),
		Width:  out.Cols(),
		Height: out.Rows(),
		Format: frameFormat,
	}, true
}

func (d *decoder) Position() time.Duration {
	return time.Duration(d.vc.Get(gocv.VideoCapturePosMsec) * float64(time.Millisecond))
}

func (d *decoder) FPS() float64 {
	return d.vc.Get(gocv.VideoCaptureFPS)
}

func (d *decoder) Close() error {
	d.img.Close()
	return d.vc.Close()
}

// configureFFmpegOptions sets FFmpeg options via the environment variable
// read by the OpenCV FFmpeg backend. An operator-provided value wins.
func configureFFmpegOptions() {
	if existing := os.Getenv("OPENCV_FFMPEG_CAPTURE_OPTIONS"); existing != "" {
		log.Info().Str("ffmpeg_options", existing).Msg("Using FFmpeg options from environment")
		return
	}

	keys := make([]string, 0, len(ffmpegOptions))
	for key := range ffmpegOptions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	options := make([]string, 0, len(keys))
	for _, key := range keys {
		options = append(options, key+";"+ffmpegOptions[key])
	}
	ffmpegOptsStr := strings.Join(options, "|")

	os.Setenv("OPENCV_FFMPEG_CAPTURE_OPTIONS", ffmpegOptsStr)

	log.Info().
		Str("ffmpeg_options", ffmpegOptsStr).
		Msg("FFmpeg options configured for OpenCV")
}

// CheckSource opens a source, reads a stable frame and returns its properties
// with a JPEG thumbnail
func (s *Service) CheckSource(source string) *models.SourceCheckResponse {
	response := &models.SourceCheckResponse{
		Valid:   false,
		Message: "Video source validation failed",
	}

	dec, err := s.Open(source)
	if err != nil {
		response.ErrorDetail = err.Error()
		s.log.Warn().Str("source", source).Str("error", response.ErrorDetail).Msg("Video source validation failed")
		return response
	}
	fps := dec.FPS()

	type readResult struct {
		frame *models.Frame
		ok    bool
	}
	// Try to read several frames to ensure stream is stable
	result := make(chan readResult, 1)
	go func() {
		defer dec.Close()
		for i := 0; i < 5; i++ {
			if frame, ok := dec.Read(); ok {
				result <- readResult{frame: frame, ok: true}
				return
			}
			time.Sleep(200 * time.Millisecond)
		}
		result <- readResult{}
	}()

	var frame *models.Frame
	select {
	case r := <-result:
		if !r.ok {
			response.ErrorDetail = "Failed to read stable frames from video source"
			s.log.Warn().Str("source", source).Str("error", response.ErrorDetail).Msg("Video source validation failed")
			return response
		}
		frame = r.frame
	case <-time.After(10 * time.Second):
		response.ErrorDetail = "Timeout reading from video source (10s limit)"
		s.log.Warn().Str("source", source).Str("error", response.ErrorDetail).Msg("Video source validation failed")
		return response
	}

	thumbnail, err := s.EncodeDataURL(frame)
	if err != nil {
		response.ErrorDetail = fmt.Sprintf("Failed to encode thumbnail: %v", err)
		s.log.Warn().Str("source", source).Str("error", response.ErrorDetail).Msg("Video source validation failed")
		return response
	}

	response.Valid = true
	response.Message = "Video source is valid and accessible"
	response.Thumbnail = thumbnail
	response.Width = frame.Width
	response.Height = frame.Height
	response.FPS = fps

	s.log.Info().
		Str("source", source).
		Int("width", response.Width).
		Int("height", response.Height).
		Float64("fps", response.FPS).
		Msg("Video source validation successful")

	return response
}
