package ui

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/adapters/excel"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/core"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tabular"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
	apperrors "github.com/dasinspectionapp/equipment-maintainance-sub003/internal/errors"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/recon"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDeviceStatus(c *gin.Context) {
	view, err := s.pages.LoadDeviceStatus(c.Request.Context(), sessionFrom(c), filterFromQuery(c))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleDeviceStatusExport(c *gin.Context) {
	view, err := s.pages.LoadDeviceStatus(c.Request.Context(), sessionFrom(c), filterFromQuery(c))
	if err != nil {
		s.renderError(c, err)
		return
	}

	ds := tabular.Dataset{Headers: view.Headers}
	for _, row := range view.Rows {
		ds.Rows = append(ds.Rows, row.Cells)
	}
	content, err := excel.WriteWorkbook(ds, "Device Status")
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="device-status.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

func (s *Server) handleOfflineSites(c *gin.Context) {
	includeApproved := c.Query("includeApproved") == "true"
	view, err := s.pages.LoadOfflineSites(c.Request.Context(), sessionFrom(c), includeApproved)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleRtuTracker(c *gin.Context) {
	view, err := s.pages.LoadRtuTracker(c.Request.Context(), sessionFrom(c), filterFromQuery(c))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleSaveRows(c *gin.Context) {
	fileID, err := core.ParseUploadID(c.Param("fileId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": apperrors.CodeInvalidInput})
		return
	}

	var payload struct {
		Rows []tabular.Row `json:"rows"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": apperrors.CodeInvalidInput})
		return
	}

	if err := s.uploads.SaveRows(c.Request.Context(), fileID, payload.Rows); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": len(payload.Rows)})
}

// handleUploadFile ingests a spreadsheet from a multipart form. Only the
// equipment team may add sheets.
func (s *Server) handleUploadFile(c *gin.Context) {
	if !sessionFrom(c).HasRole(tracker.RoleEquipment) {
		s.renderError(c, apperrors.Unauthorized("only the equipment team can add uploads"))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field", "code": apperrors.CodeInvalidInput})
		return
	}
	file, err := header.Open()
	if err != nil {
		s.renderError(c, apperrors.Wrapf(err, "failed to open uploaded file %s", header.Filename))
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		s.renderError(c, apperrors.Wrapf(err, "failed to read uploaded file %s", header.Filename))
		return
	}

	meta, err := s.admin.SaveUpload(c.Request.Context(), header.Filename, content)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meta)
}

func (s *Server) handleDeleteUpload(c *gin.Context) {
	if !sessionFrom(c).HasRole(tracker.RoleEquipment) {
		s.renderError(c, apperrors.Unauthorized("only the equipment team can delete uploads"))
		return
	}

	fileID, err := core.ParseUploadID(c.Param("fileId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": apperrors.CodeInvalidInput})
		return
	}
	if err := s.admin.DeleteUpload(c.Request.Context(), fileID); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": fileID.String()})
}

func (s *Server) handleSaveTask(c *gin.Context) {
	if !sessionFrom(c).HasRole(tracker.RoleEquipment) {
		s.renderError(c, apperrors.Unauthorized("only the equipment team can edit tasks"))
		return
	}

	var task tracker.TaskRecord
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": apperrors.CodeInvalidInput})
		return
	}
	if err := s.trackerAdmin.SaveTask(c.Request.Context(), &task); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// filterFromQuery builds the filter state from query parameters. Repeated
// values of division/subdivision/circle/status become multi-selects; the
// date field defaults to the online-offline date column family.
func filterFromQuery(c *gin.Context) recon.FilterState {
	state := recon.FilterState{
		Search:    c.Query("search"),
		TimeRange: recon.TimeRangeKind(c.DefaultQuery("timeRange", string(recon.TimeRangeAll))),
		DateField: c.DefaultQuery("dateField", "date"),
	}

	for _, field := range []string{"division", "sub division", "circle", "device status", "switch status"} {
		param := strings.ReplaceAll(field, " ", "_")
		if values := c.QueryArray(param); len(values) > 0 {
			state.Selections = append(state.Selections, recon.FieldSelection{Field: field, Values: values})
		}
	}

	if from := parseQueryDate(c.Query("from")); from != nil {
		state.From = from
	}
	if to := parseQueryDate(c.Query("to")); to != nil {
		state.To = to
	}
	return state
}

func parseQueryDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	if t, ok := recon.ParseRowDate(v); ok {
		return &t
	}
	return nil
}

// renderError maps application error codes onto HTTP statuses. Role
// mismatches render a user-visible message and nothing else is fetched.
func (s *Server) renderError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeUnauthorized:
		status = http.StatusForbidden
	case apperrors.CodeUploadNotFound:
		status = http.StatusNotFound
	case apperrors.CodeMissingColumn, apperrors.CodeInvalidInput:
		status = http.StatusUnprocessableEntity
	case apperrors.CodeExternalService:
		status = http.StatusBadGateway
	}
	s.log.Error("%s: %v", code, err)
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
