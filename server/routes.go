package server

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tsawler/docreview/format"
	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/model"
	"github.com/tsawler/docreview/report"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogging(s.logger, "/healthz", s.metricsPath), maxBody(s.cfg.MaxBodyBytes))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	if s.metrics != nil {
		r.GET(s.metricsPath, gin.WrapH(s.metrics))
	}

	docs := r.Group("/v1/documents/:name")
	docs.GET("/review", s.review)
	docs.GET("/report", s.report)
	docs.PUT("/structure", s.applyStructure)
	docs.PUT("/text", s.applyText)
	return r
}

// safeName reports whether name is a plain base name that cannot leave the
// document root.
func safeName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}

// document resolves the :name parameter to a path under the document root.
func (s *Server) document(c *gin.Context) (string, bool) {
	name := c.Param("name")
	if !safeName(name) {
		respondError(c, fmt.Errorf("%w: %q", errInvalidName, name))
		return "", false
	}
	if f := format.Detect(name); f != format.DOCX {
		respondError(c, fmt.Errorf("%s: %w: %s", name, format.ErrUnsupported, f))
		return "", false
	}
	return filepath.Join(s.cfg.DocumentRoot, name), true
}

// existing is document for edits: the file must already exist, since the
// service never creates documents.
func (s *Server) existing(c *gin.Context) (string, bool) {
	path, ok := s.document(c)
	if !ok {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		respondError(c, err)
		return "", false
	}
	return path, true
}

// preserved reads optional preserved table metadata from the query string.
// Unreadable metadata counts as absent.
func preserved(c *gin.Context) model.PreservedTableMetadata {
	raw := c.Query("preserved")
	if raw == "" {
		return nil
	}
	return model.DecodePreserved([]byte(raw))
}

func (s *Server) review(c *gin.Context) {
	path, ok := s.document(c)
	if !ok {
		return
	}
	rv, err := s.engine.Review(path, preserved(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rv)
}

func (s *Server) report(c *gin.Context) {
	path, ok := s.document(c)
	if !ok {
		return
	}
	rv, err := s.engine.Review(path, preserved(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, report.Page{Title: c.Param("name"), Structure: rv.Structure, Gaps: rv.Gaps}); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) applyStructure(c *gin.Context) {
	path, ok := s.existing(c)
	if !ok {
		return
	}
	var edited model.DocumentStructure
	if err := c.ShouldBindJSON(&edited); err != nil {
		respondBadRequest(c, err)
		return
	}

	unlock := s.locks.Lock(path)
	defer unlock()

	res, err := s.engine.Apply(path, &edited)
	if err != nil {
		respondError(c, err)
		return
	}
	for _, w := range res.Warnings {
		s.logger.Warn("document edit degraded",
			logging.String("code", w.Code),
			logging.String("detail", w.Message),
			logging.String("request_id", c.GetString(requestIDKey)))
	}
	c.JSON(http.StatusOK, res)
}

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) applyText(c *gin.Context) {
	path, ok := s.existing(c)
	if !ok {
		return
	}
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	unlock := s.locks.Lock(path)
	defer unlock()

	rv, err := s.engine.ApplyText(path, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rv)
}
