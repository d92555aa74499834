package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"neurospace/backend/internal/analysis"
	"neurospace/backend/internal/imaging"
	"neurospace/backend/internal/metrics"
	"neurospace/backend/internal/upload"
	"neurospace/backend/internal/vision"
)

const defaultMaxUploadBytes = 50 << 20

// Config defines server dependencies.
type Config struct {
	AllowedOrigins []string
	MaxUploadBytes int64
	Image          imaging.Options
	Defaults       *analysis.Defaults
}

// Server wires HTTP handlers to image preparation, the vision analyzer and
// response normalization. It holds no per-request state.
type Server struct {
	analyzer       vision.Analyzer
	preparer       *imaging.Preparer
	normalizer     *analysis.Normalizer
	allowedOrigins []string
	maxUploadBytes int64
}

// NewServer constructs the API server.
func NewServer(cfg Config, analyzer vision.Analyzer) (*Server, error) {
	if analyzer == nil {
		return nil, errors.New("vision analyzer is required")
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	defaults := analysis.CanonicalDefaults()
	if cfg.Defaults != nil {
		defaults = *cfg.Defaults
	}

	metrics.Register()

	s := &Server{
		analyzer:       analyzer,
		preparer:       imaging.NewPreparer(cfg.Image),
		normalizer:     analysis.NewNormalizer(defaults),
		allowedOrigins: cfg.AllowedOrigins,
		maxUploadBytes: maxUpload,
	}
	opts := s.preparer.Options()
	logrus.WithFields(logrus.Fields{
		"provider":         analyzer.Provider(),
		"model":            analyzer.Model(),
		"max_upload_bytes": maxUpload,
		"image_max_bytes":  opts.MaxBytes,
		"image_max_dim":    opts.MaxDimension,
	}).Info("analysis server configured")
	return s, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.New()
	r.Use(requestID(), requestLogger(), gin.CustomRecovery(recoverJSON))

	corsCfg := cors.DefaultConfig()
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.ExposeHeaders = []string{requestIDHeader}
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/analyze", bodyLimit(s.maxUploadBytes), s.handleAnalyze)

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.analyzer.Model()})
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

// renderFailure maps pipeline errors to the JSON bodies the frontend expects
// and returns the metrics result label.
func (s *Server) renderFailure(c *gin.Context, err error) string {
	var (
		validationErr *upload.ValidationError
		decodeErr     *imaging.DecodeError
		parseErr      *analysis.ParseError
		upstreamErr   *vision.UpstreamError
	)
	switch {
	case errors.As(err, &validationErr):
		s.renderError(c, http.StatusBadRequest, validationErr)
		return metrics.ResultInvalid
	case errors.As(err, &decodeErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to process image",
			"type":    "decode_error",
			"details": decodeErr.Error(),
		})
		return metrics.ResultDecodeError
	case errors.As(err, &parseErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to parse AI response",
			"type":    "parse_error",
			"details": parseErr.Error(),
		})
		return metrics.ResultParseError
	case errors.As(err, &upstreamErr):
		body := gin.H{"error": upstreamErr.Error(), "type": "upstream_error"}
		if errors.Is(err, vision.ErrQuotaExceeded) {
			body["quota_exceeded"] = true
		}
		c.JSON(http.StatusInternalServerError, body)
		return metrics.ResultUpstreamError
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "type": "internal_error"})
		return metrics.ResultError
	}
}

func recoverJSON(c *gin.Context, recovered any) {
	logrus.WithField("request_id", c.GetString(requestIDKey)).
		WithField("panic", recovered).
		Error("recovered from panic")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": fmt.Sprint(recovered),
		"type":  "internal_error",
	})
}
