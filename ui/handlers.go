package ui

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clasificador/adapters/excel"
	"clasificador/app"
	"clasificador/domain/classification"
	"clasificador/internal/errors"
)

const (
	dataFileField     = "dataFile"
	templateFileField = "templateFile"
	outputFileName    = "Clasificado_Final_IA.xlsx"

	missingFilesMessage = "Ambos archivos (datos y plantilla) son requeridos."
	busyMessage         = "El servidor está procesando otro archivo. Intente de nuevo en unos minutos."
	serverErrorPrefix   = "Error en el procesamiento del servidor: "
	banner              = "================================================================="
)

// errorResponse is the JSON body of every failed upload.
type errorResponse struct {
	Error      string `json:"error"`
	LogDetails string `json:"log_details,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleUsage(c *gin.Context) {
	c.JSON(http.StatusOK, s.usage.Summary())
}

// handleProcessExcel classifies every row of dataFile into a copy of templateFile
// and returns the workbook.
func (s *Server) handleProcessExcel(c *gin.Context) {
	if !s.slots.TryAcquire(1) {
		s.logger.Warn("rejecting upload: %d batches already running", s.cfg.MaxConcurrentBatches)
		s.respondError(c, errors.Busy(busyMessage), nil)
		return
	}
	defer s.slots.Release(1)

	dataHeader, dataErr := c.FormFile(dataFileField)
	templateHeader, templateErr := c.FormFile(templateFileField)
	if dataErr != nil || templateErr != nil {
		s.respondError(c, errors.InvalidInput(missingFilesMessage), nil)
		return
	}
	for _, h := range []*multipart.FileHeader{dataHeader, templateHeader} {
		if h.Size > s.cfg.MaxUploadBytes() {
			s.respondError(c, errors.InvalidInput(fmt.Sprintf(
				"El archivo %s (%.1f MB) supera el límite de %d MB.", h.Filename, float64(h.Size)/(1<<20), s.cfg.MaxUploadMB)), nil)
			return
		}
	}

	grid, err := s.readGrid(dataHeader)
	if err != nil {
		s.respondError(c, err, nil)
		return
	}
	if len(grid.Rows) == 0 {
		s.respondError(c, app.ErrEmptyData, nil)
		return
	}

	template, err := s.openTemplate(templateHeader)
	if err != nil {
		s.respondError(c, err, nil)
		return
	}
	defer template.Close()

	// A started batch finishes even if the client goes away; the quota is already spent.
	ctx := context.WithoutCancel(c.Request.Context())
	report, err := s.pipeline.Run(ctx, grid, template)
	if err != nil {
		var log *classification.LogEntries
		if report != nil {
			log = report.Log
		}
		s.respondError(c, err, log)
		return
	}

	out, err := template.Bytes()
	if err != nil {
		s.respondError(c, err, report.Log)
		return
	}

	s.logger.Info("request %s: batch %s rows=%d classified=%d failed=%d empty=%d in %s",
		requestIDFrom(c), report.ID, report.Rows, report.Classified, report.Failed, report.Empty, report.Duration)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outputFileName))
	c.Header("X-Batch-ID", report.ID.String())
	c.Header("X-Rows-Classified", strconv.Itoa(report.Classified))
	c.Header("X-Rows-Failed", strconv.Itoa(report.Failed))
	c.Data(http.StatusOK, excel.ContentType, out)
}

func (s *Server) readGrid(h *multipart.FileHeader) (*classification.InputGrid, error) {
	f, err := h.Open()
	if err != nil {
		return nil, errors.Wrap(err, "opening data file")
	}
	defer f.Close()
	return s.reader.ReadGrid(f, excel.FormatFromName(h.Filename))
}

func (s *Server) openTemplate(h *multipart.FileHeader) (*excel.Template, error) {
	f, err := h.Open()
	if err != nil {
		return nil, errors.Wrap(err, "opening template file")
	}
	defer f.Close()
	return excel.OpenTemplate(f)
}

// respondError writes the JSON error body. Client errors carry only the message;
// server errors also carry the diagnostic log with a trailing error block.
func (s *Server) respondError(c *gin.Context, err error, log *classification.LogEntries) {
	status := errors.HTTPStatus(err)
	_ = c.Error(err)

	if status < http.StatusInternalServerError || errors.GetCode(err) == errors.CodeBusy {
		c.JSON(status, errorResponse{Error: userMessage(err)})
		return
	}

	message := serverErrorPrefix + err.Error()
	s.logger.Error("request %s failed: %v", requestIDFrom(c), err)

	if log == nil {
		log = classification.NewLogEntries()
	}
	log.Appendf("\n%s\n", banner)
	log.Append("= ERROR CRÍTICO EN EL BACKEND =\n")
	log.Appendf("%s\n", banner)
	log.Appendf("Mensaje: %s\n", message)
	log.Appendf("Fecha y Hora: %s\n", s.now().Format("2006-01-02 15:04:05"))

	c.JSON(status, errorResponse{Error: message, LogDetails: log.String()})
}

func userMessage(err error) string {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
