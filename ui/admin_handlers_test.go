package ui

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/app"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/core"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/config"
)

type mockUploadAdmin struct {
	mock.Mock
}

func (m *mockUploadAdmin) SaveUpload(ctx context.Context, name string, content []byte) (tracker.UploadMeta, error) {
	args := m.Called(ctx, name, content)
	return args.Get(0).(tracker.UploadMeta), args.Error(1)
}

func (m *mockUploadAdmin) DeleteUpload(ctx context.Context, fileID core.UploadID) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

type mockTrackerAdmin struct {
	mock.Mock
}

func (m *mockTrackerAdmin) SaveTask(ctx context.Context, task *tracker.TaskRecord) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func adminServer(admin *mockUploadAdmin, trackerAdmin *mockTrackerAdmin) *Server {
	return NewServer(config.ServerConfig{GinMode: gin.TestMode}, app.NewPageService(nil, nil), nil, admin, trackerAdmin)
}

func multipartSheet(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadEndpointStoresSheet(t *testing.T) {
	admin := new(mockUploadAdmin)
	server := adminServer(admin, new(mockTrackerAdmin))

	content := []byte("Site Code,Division\nRMU-001,North\n")
	admin.On("SaveUpload", mock.Anything, "online_offline.csv", content).
		Return(tracker.UploadMeta{FileID: "f1", Name: "online_offline.csv", UploadType: tracker.UploadOnlineOffline}, nil)

	body, contentType := multipartSheet(t, "online_offline.csv", content)
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-Id", "u1")
	req.Header.Set("X-User-Role", string(tracker.RoleEquipment))

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "f1")
	admin.AssertExpectations(t)
}

func TestUploadEndpointRejectsWrongRole(t *testing.T) {
	admin := new(mockUploadAdmin)
	server := adminServer(admin, new(mockTrackerAdmin))

	body, contentType := multipartSheet(t, "online_offline.csv", []byte("a,b\n1,2\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-Id", "u1")
	req.Header.Set("X-User-Role", "Viewer")

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	admin.AssertNotCalled(t, "SaveUpload", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteUploadEndpoint(t *testing.T) {
	admin := new(mockUploadAdmin)
	server := adminServer(admin, new(mockTrackerAdmin))

	admin.On("DeleteUpload", mock.Anything, core.UploadID("f1")).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/uploads/f1", nil)
	req.Header.Set("X-User-Id", "u1")
	req.Header.Set("X-User-Role", string(tracker.RoleEquipment))

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	admin.AssertExpectations(t)
}

func TestSaveTaskEndpoint(t *testing.T) {
	trackerAdmin := new(mockTrackerAdmin)
	server := adminServer(new(mockUploadAdmin), trackerAdmin)

	trackerAdmin.On("SaveTask", mock.Anything, mock.MatchedBy(func(task *tracker.TaskRecord) bool {
		return task.SiteCode == "RMU-001" && task.TaskStatus == "Resolved"
	})).Return(nil)

	payload := strings.NewReader(`{"siteCode":"RMU-001","taskStatus":"Resolved"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/tasks", payload)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "u1")
	req.Header.Set("X-User-Role", string(tracker.RoleEquipment))

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	trackerAdmin.AssertExpectations(t)
}
