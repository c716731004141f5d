// export.go — сервис выгрузки реестра в XLSX и PDF.
// Файл полностью формируется в памяти до передачи клиенту.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/stroydoc/internal/export"
)

// Prometheus-метрики выгрузок.
var (
	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sd_exports_total",
		Help: "Общее количество выгрузок реестра по формату и результату.",
	}, []string{"format", "result"})
	exportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sd_export_duration_seconds",
		Help:    "Длительность формирования выгрузки.",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})
)

// Форматы выгрузки.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// Translator — каталог переводов (реализуется i18n.Bundle).
type Translator interface {
	Translate(lang, key string) string
}

// Artifact — сформированный файл выгрузки.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ContentDisposition возвращает заголовок для скачивания файла.
// Имя в UTF-8 кодируется по RFC 2231.
func (a *Artifact) ContentDisposition() string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": a.FileName})
}

// ServeHTTP отдаёт файл как вложение. Файл уже сформирован целиком.
func (a *Artifact) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", a.ContentDisposition())
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}

// ExportService — сервис выгрузки реестра.
type ExportService struct {
	registry     *RegistryService
	pdf          *export.PDFEncoder
	translator   Translator
	registryName string
	sheetName    string
	now          func() time.Time
	logger       *slog.Logger
}

// NewExportService создаёт сервис выгрузки.
// translator может быть nil — тогда используются русские подписи.
func NewExportService(
	registry *RegistryService,
	pdf *export.PDFEncoder,
	translator Translator,
	registryName, sheetName string,
	logger *slog.Logger,
) *ExportService {
	return &ExportService{
		registry:     registry,
		pdf:          pdf,
		translator:   translator,
		registryName: registryName,
		sheetName:    sheetName,
		now:          time.Now,
		logger:       logger.With(slog.String("component", "export_service")),
	}
}

// ExportXLSX формирует книгу Excel с реестром.
func (s *ExportService) ExportXLSX(ctx context.Context, lang string) (*Artifact, error) {
	return s.run(ctx, lang, FormatXLSX, export.ContentTypeXLSX,
		func(w io.Writer, doc *export.Document, _ time.Time) error {
			return export.WriteXLSX(w, doc)
		})
}

// ExportPDF формирует печатную форму реестра.
func (s *ExportService) ExportPDF(ctx context.Context, lang string) (*Artifact, error) {
	return s.run(ctx, lang, FormatPDF, export.ContentTypePDF, s.pdf.Write)
}

// Export формирует выгрузку в указанном формате.
func (s *ExportService) Export(ctx context.Context, lang, format string) (*Artifact, error) {
	switch format {
	case FormatXLSX:
		return s.ExportXLSX(ctx, lang)
	case FormatPDF:
		return s.ExportPDF(ctx, lang)
	}
	return nil, fmt.Errorf("%w: неизвестный формат %q", ErrValidation, format)
}

type encodeFunc func(w io.Writer, doc *export.Document, created time.Time) error

// run строит снимок реестра и кодирует его; ведёт метрики и журнал.
func (s *ExportService) run(
	ctx context.Context,
	lang, format, contentType string,
	encode encodeFunc,
) (*Artifact, error) {
	start := time.Now()
	defer func() {
		exportDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
	}()

	artifact, err := s.build(ctx, lang, format, contentType, encode)
	if err != nil {
		exportsTotal.WithLabelValues(format, "error").Inc()
		s.logger.Error("Ошибка выгрузки реестра",
			slog.String("format", format),
			slog.String("lang", lang),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err) //nolint:errorlint // намеренный двойной wrap
	}

	exportsTotal.WithLabelValues(format, "success").Inc()
	s.logger.Info("Реестр выгружен",
		slog.String("format", format),
		slog.String("file", artifact.FileName),
		slog.Int("bytes", len(artifact.Data)),
	)
	return artifact, nil
}

func (s *ExportService) build(
	ctx context.Context,
	lang, format, contentType string,
	encode encodeFunc,
) (*Artifact, error) {
	acts, err := s.registry.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	opts := export.BuildOptions{GeneratedAt: now, SheetName: s.sheetName}
	if s.translator != nil {
		opts.Translate = func(key string) string {
			return s.translator.Translate(lang, key)
		}
	}

	doc, err := export.Build(acts, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := encode(&buf, doc, now); err != nil {
		return nil, err
	}

	return &Artifact{
		FileName:    export.FileName(s.registryName, now, format),
		ContentType: contentType,
		Data:        buf.Bytes(),
	}, nil
}
