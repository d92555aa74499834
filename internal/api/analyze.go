package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"neurospace/backend/internal/metrics"
	"neurospace/backend/internal/upload"
	"neurospace/backend/internal/util"
	"neurospace/backend/internal/vision"
)

const (
	uploadField   = "file"
	rawLogPreview = 1200
)

// handleAnalyze runs validate, read, prepare, analyze and normalize in that
// order. The analyzer is never called for an upload that failed an earlier step.
func (s *Server) handleAnalyze(c *gin.Context) {
	timer := util.StartTimer()
	log := logger(c)

	result := metrics.ResultOK
	defer func() {
		recovered := recover()
		if recovered != nil {
			result = metrics.ResultError
		}
		metrics.AnalysesTotal.WithLabelValues(result).Inc()
		metrics.AnalysisDurationSeconds.WithLabelValues(result).Observe(timer.ElapsedSeconds())
		if recovered != nil {
			panic(recovered)
		}
	}()

	header, err := s.uploadedFile(c)
	if err != nil {
		if isTooLarge(err) {
			result = metrics.ResultInvalid
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": tooLargeMessage})
			return
		}
		result = s.renderFailure(c, err)
		return
	}

	data, err := upload.Read(header)
	if err != nil {
		log.WithError(err).WithField("filename", header.Filename).Info("upload rejected")
		result = s.renderFailure(c, err)
		return
	}
	metrics.UploadBytes.Observe(float64(len(data)))

	prepared, err := s.preparer.Prepare(data)
	if err != nil {
		log.WithError(err).WithField("bytes", len(data)).Warn("prepare image")
		result = s.renderFailure(c, err)
		return
	}
	if prepared.Recompressed {
		metrics.RecompressedTotal.Inc()
	}
	metrics.PreparedBytes.Observe(float64(len(prepared.Data)))

	mimeType := vision.DetectMIME(prepared.Data)
	upstream := util.StartTimer()
	raw, err := s.analyzer.Analyze(c.Request.Context(), prepared.Data, mimeType)
	metrics.UpstreamDurationSeconds.WithLabelValues(s.analyzer.Provider()).Observe(upstream.ElapsedSeconds())
	if err != nil {
		entry := log.WithError(err).WithFields(logrus.Fields{
			"provider":   s.analyzer.Provider(),
			"elapsed_ms": upstream.ElapsedMs(),
		})
		if errors.Is(err, vision.ErrQuotaExceeded) {
			entry.Warn("vision provider quota exceeded")
		} else {
			entry.Error("vision analysis failed")
		}
		result = s.renderFailure(c, err)
		return
	}
	log.WithField("raw", preview(raw, rawLogPreview)).Debug("raw model output")

	report, err := s.normalizer.Process(raw)
	if err != nil {
		log.WithError(err).Warn("parse model output")
		result = s.renderFailure(c, err)
		return
	}

	log.WithFields(logrus.Fields{
		"overall":      report.Scores.Overall,
		"cards":        len(report.NeuroMetrics),
		"objects":      len(report.Objects),
		"upload_bytes": len(data),
		"sent_bytes":   len(prepared.Data),
		"recompressed": prepared.Recompressed,
		"elapsed_ms":   timer.ElapsedMs(),
	}).Info("analysis complete")
	c.JSON(http.StatusOK, report)
}

// uploadedFile returns the "file" part. Go's multipart reader files a part
// with an empty filename under form values, which is how an empty file
// picker submission arrives.
func (s *Server) uploadedFile(c *gin.Context) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if isTooLarge(err) {
			return nil, err
		}
		return nil, upload.ErrNoFilePart
	}
	if files := form.File[uploadField]; len(files) > 0 {
		return files[0], nil
	}
	if _, ok := form.Value[uploadField]; ok {
		return nil, upload.ErrNoSelectedFile
	}
	return nil, upload.ErrNoFilePart
}

// preview truncates s to at most max bytes without splitting a rune.
func preview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
