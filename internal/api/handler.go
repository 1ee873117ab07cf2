package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insightdelivered/ride-history-converter/internal/extractor"
	"github.com/insightdelivered/ride-history-converter/internal/metrics"
	"github.com/insightdelivered/ride-history-converter/internal/models"
	"github.com/insightdelivered/ride-history-converter/internal/parser"
	"github.com/insightdelivered/ride-history-converter/internal/writer"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success     bool               `json:"success"`
	Error       string             `json:"error,omitempty"`
	RequestID   string             `json:"requestId,omitempty"`
	Source      string             `json:"source,omitempty"`
	Columns     []string           `json:"columns,omitempty"`
	Rides       []models.Ride      `json:"rides"`
	Ambiguities []models.Ambiguity `json:"ambiguities,omitempty"`
	CSV         string             `json:"csv,omitempty"`
	Count       int                `json:"count"`
	Canceled    int                `json:"canceled"`
	TotalFare   string             `json:"totalFare,omitempty"`
}

// Handler serves ride-history conversions over HTTP.
type Handler struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Gatherer backs /metrics; the route is skipped when nil.
	Gatherer prometheus.Gatherer
	// SplitFare makes the split-aware contract the default for requests that
	// do not say otherwise.
	SplitFare bool
	Sheet     string
}

// Options configures the fiber app.
type Options struct {
	BodyLimit   int
	ReadTimeout time.Duration
}

// NewApp returns a fiber app with every route registered.
func NewApp(h *Handler, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "ride-history-converter",
		BodyLimit:             opts.BodyLimit,
		ReadTimeout:           opts.ReadTimeout,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowMethods: "GET,POST,OPTIONS"}))
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/convert", h.HandleConvert)
	if h.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})))
	}
}

// Serve runs the app on addr until ctx is canceled.
func Serve(ctx context.Context, app *fiber.App, addr string, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

// HandleConvert parses an uploaded export (multipart field "file") or pasted
// text (form field "text"). The "format" field picks the response: json
// (default), csv or xlsx.
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	c.Set(fiber.HeaderXRequestID, requestID)
	log := h.logger().With("request_id", requestID)

	format := strings.ToLower(c.FormValue("format", "json"))
	if format != "json" && format != string(writer.FormatCSV) && format != string(writer.FormatXLSX) {
		return h.fail(c, requestID, fiber.StatusBadRequest, fmt.Sprintf("Unknown format %q. Use json, csv or xlsx.", format))
	}

	text, source, err := readInput(c)
	if err != nil {
		log.Warn("could not read upload", "error", err)
		h.observeFailure("unreadable")
		status := fiber.StatusBadRequest
		if errors.Is(err, extractor.ErrUnsupportedSource) {
			status = fiber.StatusUnsupportedMediaType
		}
		return h.fail(c, requestID, status, err.Error())
	}

	opts := []parser.Option{parser.WithLogger(log)}
	if splitFare(c.FormValue("splitFare"), h.SplitFare) {
		opts = append(opts, parser.WithSplitFare())
	}

	started := time.Now()
	conv, err := parser.New(opts...).Parse(text)
	if err != nil {
		return h.parseFailed(c, log, requestID, err)
	}
	conv.Source = source
	if h.Metrics != nil {
		h.Metrics.ObserveConversion(conv, time.Since(started))
	}
	log.Info("converted ride history", "source", source, "rides", len(conv.Rides), "format", format)

	switch format {
	case string(writer.FormatCSV):
		return h.sendTable(c, requestID, &writer.CSVWriter{}, "text/csv; charset=utf-8", conv)
	case string(writer.FormatXLSX):
		return h.sendTable(c, requestID, &writer.XLSXWriter{Sheet: h.Sheet}, xlsxContentType, conv)
	}

	var csvBuf bytes.Buffer
	if err := (&writer.CSVWriter{}).Write(&csvBuf, conv); err != nil {
		return h.fail(c, requestID, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	// nil marshals to JSON null, not [].
	rides := conv.Rides
	if rides == nil {
		rides = []models.Ride{}
	}

	return c.JSON(ConvertResponse{
		Success:     true,
		RequestID:   requestID,
		Source:      source,
		Columns:     conv.Columns,
		Rides:       rides,
		Ambiguities: conv.Ambiguities,
		CSV:         csvBuf.String(),
		Count:       len(rides),
		Canceled:    conv.Canceled(),
		TotalFare:   conv.TotalFare().StringFixed(2),
	})
}

// readInput prefers an uploaded file over pasted text.
func readInput(c *fiber.Ctx) (text, source string, err error) {
	if fh, ferr := c.FormFile("file"); ferr == nil {
		f, err := fh.Open()
		if err != nil {
			return "", "", fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()

		text, err := extractor.Read(f, fh.Filename)
		if err != nil {
			return "", "", err
		}
		return text, fh.Filename, nil
	}

	if text := c.FormValue("text"); text != "" {
		return text, "pasted", nil
	}
	return "", "", errors.New("no ride history. Upload form field 'file' or paste into form field 'text'")
}

func splitFare(value string, fallback bool) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}

func (h *Handler) parseFailed(c *fiber.Ctx, log *slog.Logger, requestID string, err error) error {
	var mde *parser.MalformedDateError
	switch {
	case errors.Is(err, parser.ErrEmptyInput):
		h.observeFailure("empty_input")
		return h.fail(c, requestID, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &mde):
		log.Warn("ride history has a malformed date", "record", mde.Record+1, "text", mde.Text)
		h.observeFailure("malformed_date")
		return h.fail(c, requestID, fiber.StatusUnprocessableEntity, err.Error())
	default:
		log.Error("conversion failed", "error", err)
		h.observeFailure("error")
		return h.fail(c, requestID, fiber.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) sendTable(c *fiber.Ctx, requestID string, w writer.Writer, contentType string, conv *models.Conversion) error {
	var buf bytes.Buffer
	if err := w.Write(&buf, conv); err != nil {
		return h.fail(c, requestID, fiber.StatusInternalServerError, fmt.Sprintf("table generation failed: %v", err))
	}
	c.Attachment(writer.OutputName(time.Now(), w))
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(buf.Bytes())
}

func (h *Handler) observeFailure(outcome string) {
	if h.Metrics != nil {
		h.Metrics.ObserveFailure(outcome)
	}
}

func (h *Handler) fail(c *fiber.Ctx, requestID string, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success:   false,
		Error:     msg,
		RequestID: requestID,
	})
}
