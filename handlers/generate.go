package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"model3d-service/imageproc"
	"model3d-service/metrics"
	"model3d-service/upload"
)

// Generate handles POST /generate-3d: validate the uploaded image, stage it,
// acquire the shared pipeline, run inference, and stream the resulting GLB
// back to the caller. Both staged paths are cleaned up on every exit path;
// the deferred cleanup runs after the response body has been written, so the
// output file still exists while it is being transmitted.
func (h *Handlers) Generate(c *gin.Context) {
	start := time.Now()

	header, err := c.FormFile("image")
	if err != nil {
		metrics.UploadsRejectedTotal.WithLabelValues("missing_file").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		log.Errorf("Failed to open upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer file.Close()

	if err := upload.Validate(file, header.Filename, h.cfg.MaxUploadBytes()); err != nil {
		var ve *upload.ValidationError
		if errors.As(err, &ve) {
			metrics.UploadsRejectedTotal.WithLabelValues(rejectionReason(ve)).Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Reason})
			return
		}
		log.Errorf("Upload validation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}

	requestID := uuid.New().String()
	inputPath, outputPath := h.store.Stage(requestID)
	log.Infof("Processing request %s", requestID)

	// Deferred so both paths are removed after the response, whatever the
	// outcome from here on.
	defer h.store.Cleanup(inputPath)
	defer h.store.Cleanup(outputPath)

	if err := imageproc.Normalize(file, inputPath); err != nil {
		// The extension passed the allow-list but the bytes did not decode;
		// still the client's fault.
		metrics.UploadsRejectedTotal.WithLabelValues("undecodable").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image data: " + err.Error()})
		return
	}

	pipe, err := h.manager.Acquire(c.Request.Context())
	if err != nil {
		log.Errorf("Request %s: %v", requestID, err)
		metrics.GenerationsTotal.WithLabelValues("load_error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out, err := h.generator.Run(c.Request.Context(), pipe, inputPath, outputPath)
	if err != nil {
		log.Errorf("Request %s: %v", requestID, err)
		metrics.GenerationsTotal.WithLabelValues("generation_error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Infof("Request %s: model saved to %s", requestID, out)
	metrics.GenerationsTotal.WithLabelValues("success").Inc()
	metrics.GenerationDurationSeconds.Observe(time.Since(start).Seconds())

	c.Header("Content-Type", "model/gltf-binary")
	c.FileAttachment(out, "model_"+requestID+".glb")
}

func rejectionReason(ve *upload.ValidationError) string {
	switch {
	case strings.Contains(ve.Reason, "filename"):
		return "filename"
	case strings.Contains(ve.Reason, "format"):
		return "format"
	default:
		return "size"
	}
}
