package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/talent-factory-api/internal/dto"
	"github.com/noah-isme/talent-factory-api/internal/middleware"
	"github.com/noah-isme/talent-factory-api/internal/models"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
)

type configurationServiceMock struct {
	listResp  []dto.ConfigurationItem
	mode      dto.ReviewModeStatus
	updateErr error
	setReq    *dto.UpdateReviewModeRequest
}

func (m *configurationServiceMock) List(ctx context.Context) ([]dto.ConfigurationItem, error) {
	return m.listResp, nil
}

func (m *configurationServiceMock) Get(ctx context.Context, key string) (*dto.ConfigurationItem, error) {
	return &dto.ConfigurationItem{Key: key}, nil
}

func (m *configurationServiceMock) Update(ctx context.Context, key, value string, actor *models.JWTClaims) (*dto.ConfigurationItem, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &dto.ConfigurationItem{Key: key, Value: value, Type: "STRING"}, nil
}

func (m *configurationServiceMock) BulkUpdate(ctx context.Context, req dto.BulkUpdateConfigurationRequest, actor *models.JWTClaims) ([]dto.ConfigurationItem, error) {
	return []dto.ConfigurationItem{}, nil
}

func (m *configurationServiceMock) GetReviewMode(ctx context.Context) dto.ReviewModeStatus {
	return m.mode
}

func (m *configurationServiceMock) SetReviewMode(ctx context.Context, req dto.UpdateReviewModeRequest, actor *models.JWTClaims) (dto.ReviewModeStatus, error) {
	if actor == nil || !actor.Role.IsPlatformAdmin() {
		return dto.ReviewModeStatus{}, appErrors.ErrForbidden
	}
	m.setReq = &req
	return dto.ReviewModeStatus{ReviewMode: req.ReviewMode}, nil
}

func (m *configurationServiceMock) TaskConfigInfo(ctx context.Context) dto.TaskConfigInfo {
	return dto.TaskConfigInfo{ReviewMode: m.mode.ReviewMode, UsingDefault: m.mode.UsingDefault}
}

func newJSONContext(method, target string, body interface{}, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestReviewModeHidesFallbackFlag(t *testing.T) {
	svc := &configurationServiceMock{mode: dto.ReviewModeStatus{ReviewMode: models.ReviewModeDual, UsingDefault: true, Reason: "configuration store unavailable"}}
	handler := NewConfigurationHandler(svc)

	c, w := newJSONContext(http.MethodGet, "/config/review-mode", nil, &models.JWTClaims{UserID: "d", Role: models.RoleDesigner})
	handler.ReviewMode(c)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "DUAL", data["reviewMode"])
	assert.NotContains(t, data, "usingDefault")
	assert.NotContains(t, data, "reason")

	c, w = newJSONContext(http.MethodGet, "/admin/config/review-mode", nil, &models.JWTClaims{UserID: "a", Role: models.RoleAdmin})
	handler.AdminReviewMode(c)
	data = decodeData(t, w)
	assert.Equal(t, true, data["usingDefault"])
	assert.Equal(t, "configuration store unavailable", data["reason"])
}

func TestUpdateReviewModeForwardsActor(t *testing.T) {
	svc := &configurationServiceMock{}
	handler := NewConfigurationHandler(svc)

	c, w := newJSONContext(http.MethodPut, "/admin/config/review-mode", dto.UpdateReviewModeRequest{ReviewMode: models.ReviewModeEnterprise}, &models.JWTClaims{UserID: "a", Role: models.RoleSuperAdmin})
	handler.UpdateReviewMode(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.setReq)
	assert.Equal(t, models.ReviewModeEnterprise, svc.setReq.ReviewMode)

	c, w = newJSONContext(http.MethodPut, "/admin/config/review-mode", dto.UpdateReviewModeRequest{ReviewMode: models.ReviewModeDual}, nil)
	handler.UpdateReviewMode(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = newJSONContext(http.MethodPut, "/admin/config/review-mode", "invalid", nil)
	handler.UpdateReviewMode(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfigurationHandlerUpdateUsesPathKey(t *testing.T) {
	handler := NewConfigurationHandler(&configurationServiceMock{})
	c, w := newJSONContext(http.MethodPut, "/admin/configuration/platform_display_name", dto.UpdateConfigurationValueRequest{Value: "Talent Factory"}, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	c.Params = gin.Params{{Key: "key", Value: "platform_display_name"}}

	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "platform_display_name", data["key"])
	assert.Equal(t, "Talent Factory", data["value"])
}

func TestConfigurationHandlerUpdateError(t *testing.T) {
	handler := NewConfigurationHandler(&configurationServiceMock{updateErr: appErrors.Clone(appErrors.ErrValidation, "unsupported configuration key")})
	c, w := newJSONContext(http.MethodPut, "/admin/configuration/nope", dto.UpdateConfigurationValueRequest{Value: "x"}, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	c.Params = gin.Params{{Key: "key", Value: "nope"}}

	handler.Update(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfigurationHandlerBulkInvalidBody(t *testing.T) {
	handler := NewConfigurationHandler(&configurationServiceMock{})
	c, w := newJSONContext(http.MethodPut, "/admin/configuration", "invalid", &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.BulkUpdate(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
