package ui

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"scour/adapters/dataio"
	"scour/app"
	"scour/domain/core"
	"scour/domain/pipeline"
	apperrors "scour/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
)

// sessionView is the API shape of a session.
type sessionView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RowCount  int       `json:"row_count"`
	ColCount  int       `json:"column_count"`
	Journal   int       `json:"journal_length"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toView(s *pipeline.Session) sessionView {
	return sessionView{
		ID:        s.ID.String(),
		Name:      s.Name,
		RowCount:  s.Current.RowCount(),
		ColCount:  s.Current.ColumnCount(),
		Journal:   s.Journal.Len(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	appErr := apperrors.FromDomain(err)
	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidColumn, apperrors.CodeBadInput, apperrors.CodeUnknownOperation:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Code})
}

func (s *Server) sessionID(c *gin.Context) (core.SessionID, bool) {
	id, err := core.ParseSessionID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": apperrors.CodeBadInput})
		return "", false
	}
	return id, true
}

// handleCreateSession imports an uploaded file and opens a cleaning session.
func (s *Server) handleCreateSession(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required", "code": apperrors.CodeBadInput})
		return
	}
	format, err := dataio.DetectFormat(fileHeader.Filename)
	if err != nil {
		s.respondError(c, err)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer f.Close()

	t, err := dataio.Read(f, format)
	if err != nil {
		s.respondError(c, err)
		return
	}
	name := c.PostForm("name")
	if name == "" {
		name = fileHeader.Filename
	}
	session, err := s.service.CreateSession(c.Request.Context(), name, t)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.log.Info("session %s created from %s (%d rows, %d columns)",
		session.ID, fileHeader.Filename, t.RowCount(), t.ColumnCount())
	c.JSON(http.StatusCreated, toView(session))
}

func (s *Server) handleListSessions(c *gin.Context) {
	sessions, err := s.service.ListSessions(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	views := make([]sessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, toView(session))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

func (s *Server) handleGetSession(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	session, err := s.service.GetSession(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toView(session))
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	if err := s.service.DeleteSession(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleColumns(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	columns, err := s.service.Columns(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

func (s *Server) handleColumnStats(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	stats, err := s.service.ColumnStats(c.Request.Context(), id, c.Param("column"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	// stats is nil for a column without numeric data; that is a valid state.
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (s *Server) handleCorrelation(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	var columns []string
	if raw := c.Query("columns"); raw != "" {
		columns = strings.Split(raw, ",")
	}
	matrix, ordered, err := s.service.Correlation(c.Request.Context(), id, columns)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": ordered, "matrix": matrix})
}

func (s *Server) handlePreview(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	session, err := s.service.GetSession(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	limit := s.cfg.Limits.PreviewRows
	if raw := c.Query("limit"); raw != "" {
		if n, convErr := strconv.Atoi(raw); convErr == nil && n > 0 {
			limit = n
		}
	}
	if limit > session.Current.RowCount() {
		limit = session.Current.RowCount()
	}
	c.JSON(http.StatusOK, gin.H{
		"columns": session.Current.ColumnNames,
		"rows":    session.Current.Rows[:limit],
		"total":   session.Current.RowCount(),
	})
}

type applyRequest struct {
	Operation string     `json:"operation" binding:"required"`
	Params    app.Params `json:"params"`
}

func (s *Server) handleApply(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": apperrors.CodeBadInput})
		return
	}
	if req.Params == nil {
		req.Params = app.Params{}
	}
	session, entry, err := s.service.Apply(c.Request.Context(), id, req.Operation, req.Params)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": toView(session), "journal_entry": entry})
}

func (s *Server) handleAutopilot(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	session, result, err := s.service.RunAutopilot(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if len(result.Skipped) > 0 {
		s.log.Warn("autopilot on %s skipped %d column(s)", id, len(result.Skipped))
	}
	c.JSON(http.StatusOK, gin.H{
		"session": toView(session),
		"entries": result.Entries,
		"skipped": result.Skipped,
	})
}

func (s *Server) handleReset(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	session, err := s.service.Reset(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toView(session))
}

// handleJournal returns the transformation log: JSON entries by default,
// markdown or rendered HTML on request.
func (s *Server) handleJournal(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	session, err := s.service.GetSession(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	switch c.Query("format") {
	case "markdown", "md":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(session.Journal.Markdown()))
	case "html":
		html := markdown.ToHTML([]byte(session.Journal.Markdown()), nil, nil)
		c.Data(http.StatusOK, "text/html; charset=utf-8", html)
	default:
		c.JSON(http.StatusOK, gin.H{"entries": session.Journal.Entries()})
	}
}

// handleExport streams the current table in the requested format.
func (s *Server) handleExport(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	session, err := s.service.GetSession(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	format := dataio.Format(c.DefaultQuery("format", "csv"))

	contentType := map[dataio.Format]string{
		dataio.FormatCSV:  "text/csv",
		dataio.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		dataio.FormatJSON: "application/json",
		dataio.FormatXML:  "application/xml",
	}[format]
	if contentType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported export format %q", format), "code": apperrors.CodeBadInput})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", session.ID, format))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if err := dataio.Write(c.Writer, session.Current, format); err != nil {
		s.log.Error("export of %s failed: %v", id, err)
	}
}
