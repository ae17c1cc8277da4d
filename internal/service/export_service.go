package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/talent-factory-api/internal/dto"
	"github.com/noah-isme/talent-factory-api/internal/models"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
	"github.com/noah-isme/talent-factory-api/pkg/export"
	"github.com/noah-isme/talent-factory-api/pkg/storage"
)

type adminApplicationLister interface {
	ListForAdmin(ctx context.Context, query dto.TaskApplicationQuery) ([]dto.AdminApplicationView, *models.Pagination, error)
}

type exportToggle interface {
	ExportEnabled(ctx context.Context) bool
}

type exportStore interface {
	Save(name string, data []byte) error
	Open(name string) (*os.File, error)
	Prune(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	LinkTTL   time.Duration
	MaxRows   int
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// ExportLink points at a stored export behind a signed token.
type ExportLink struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	Rows      int       `json:"rows"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportService renders admin application views to CSV or PDF.
type ExportService struct {
	applications adminApplicationLister
	toggle       exportToggle
	store        exportStore
	signer       *storage.LinkSigner
	audit        auditLogger
	logger       *zap.Logger
	cfg          ExportConfig
	now          func() time.Time
}

// NewExportService constructs an ExportService. store and signer may be nil,
// in which case only direct downloads are available.
func NewExportService(applications adminApplicationLister, toggle exportToggle, store exportStore, signer *storage.LinkSigner, audit auditLogger, logger *zap.Logger, cfg ExportConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LinkTTL <= 0 {
		cfg.LinkTTL = time.Hour
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 5000
	}
	return &ExportService{
		applications: applications,
		toggle:       toggle,
		store:        store,
		signer:       signer,
		audit:        audit,
		logger:       logger,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ExportApplications renders every application matching query.
func (s *ExportService) ExportApplications(ctx context.Context, query dto.TaskApplicationQuery, format string, actor *models.JWTClaims) (*ExportFile, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.IsPlatformAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only platform admins can export applications")
	}
	if s.toggle != nil && !s.toggle.ExportEnabled(ctx) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "task application export is disabled")
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}

	views, err := s.collect(ctx, query)
	if err != nil {
		return nil, err
	}
	table := applicationTable(views, s.now())
	data, err := export.RendererFor(f).Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	file := &ExportFile{
		Filename:    fmt.Sprintf("task_applications_%s.%s", s.now().Format("20060102_150405"), f),
		ContentType: f.ContentType(),
		Data:        data,
		Rows:        len(views),
	}
	s.emitAudit(ctx, actor, query, file)
	return file, nil
}

// PublishApplications renders an export, stores it and returns a signed link.
func (s *ExportService) PublishApplications(ctx context.Context, query dto.TaskApplicationQuery, format string, actor *models.JWTClaims) (*ExportLink, error) {
	if s.store == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "export storage is not configured")
	}
	file, err := s.ExportApplications(ctx, query, format, actor)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(file.Filename, "."+extension(file.Filename)) + "_" + uuid.NewString()[:8] + "." + extension(file.Filename)
	if err := s.store.Save(name, file.Data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Sign(name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return &ExportLink{
		URL:       fmt.Sprintf("%s/exports/%s", prefix, token),
		Filename:  name,
		Rows:      file.Rows,
		ExpiresAt: expiresAt,
	}, nil
}

// OpenLink resolves a signed token to the stored file.
func (s *ExportService) OpenLink(token string) (*os.File, string, error) {
	if s.store == nil || s.signer == nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	name, err := s.signer.Verify(token)
	if err != nil {
		if errors.Is(err, storage.ErrLinkExpired) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "download link expired")
		}
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}
	file, err := s.store.Open(name)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	return file, name, nil
}

// Cleanup removes stored exports older than the link lifetime.
func (s *ExportService) Cleanup() ([]string, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.Prune(s.cfg.LinkTTL)
}

func (s *ExportService) collect(ctx context.Context, query dto.TaskApplicationQuery) ([]dto.AdminApplicationView, error) {
	query.PageSize = 100
	var out []dto.AdminApplicationView
	for page := 1; ; page++ {
		query.Page = page
		views, pagination, err := s.applications.ListForAdmin(ctx, query)
		if err != nil {
			return nil, err
		}
		out = append(out, views...)
		if len(out) >= s.cfg.MaxRows {
			s.logger.Warn("export truncated", zap.Int("max_rows", s.cfg.MaxRows))
			return out[:s.cfg.MaxRows], nil
		}
		if len(views) == 0 || pagination == nil || len(out) >= pagination.TotalCount {
			return out, nil
		}
	}
}

func (s *ExportService) emitAudit(ctx context.Context, actor *models.JWTClaims, query dto.TaskApplicationQuery, file *ExportFile) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"filename": file.Filename,
		"rows":     file.Rows,
		"status":   query.Status,
		"taskId":   query.TaskID,
	})
	log := &models.AuditLog{
		UserID:    userIDPtr(actor),
		Action:    models.AuditActionApplicationExport,
		Resource:  "task_application",
		NewValues: payload,
		IPAddress: "system",
		UserAgent: "export-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record export audit", zap.Error(err))
	}
}

var applicationColumns = []export.Column{
	{Header: "Application ID", Weight: 2},
	{Header: "Task ID"},
	{Header: "Designer ID", Weight: 1.5},
	{Header: "Enterprise ID", Weight: 1.5},
	{Header: "Review Mode"},
	{Header: "Status", Weight: 1.5},
	{Header: "Admin Review"},
	{Header: "Enterprise Review"},
	{Header: "Proposed Price"},
	{Header: "Estimated Days"},
	{Header: "Created At", Weight: 1.5},
}

func applicationTable(views []dto.AdminApplicationView, generated time.Time) export.Table {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			v.ApplicationID,
			v.TaskID,
			v.DesignerID,
			v.EnterpriseID,
			string(v.ReviewMode),
			string(v.Status),
			reviewCell(v.AdminReviewStatus),
			reviewCell(v.EnterpriseReviewStatus),
			strconv.FormatFloat(v.ProposedPrice, 'f', 2, 64),
			strconv.Itoa(v.EstimatedDays),
			v.CreateTime.UTC().Format(time.RFC3339),
		})
	}
	return export.Table{
		Title:   fmt.Sprintf("Task applications (%s)", generated.Format("2006-01-02")),
		Columns: applicationColumns,
		Rows:    rows,
	}
}

func reviewCell(status *models.ReviewStatus) string {
	if status == nil {
		return ""
	}
	return string(*status)
}

func extension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return ""
}
