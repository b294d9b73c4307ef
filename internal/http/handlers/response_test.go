package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/socifi-backend/internal/http/middleware"
)

func Test_fail_5xx_LogsWithUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-502")
		c.Set("logger", &logger)
		middleware.WithUserID(c, 42)
		c.Next()
	})
	r.POST("/pay", func(c *gin.Context) {
		fail(c, http.StatusBadGateway, ErrCodeTransferFailed, "Transfer failed")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/pay", nil))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status=%d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.RequestID != "rid-502" || resp.Code != "transfer_failed" || resp.Message != "Transfer failed" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	logged := buf.String()
	if !strings.Contains(logged, `"level":"error"`) || !strings.Contains(logged, `"user_id":42`) {
		t.Fatalf("expected error log with user, got: %s", logged)
	}
}

func Test_fail_4xx_DoesNotLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-409")
		c.Set("logger", &logger)
		c.Next()
	})
	r.POST("/likes", func(c *gin.Context) {
		Fail(c, http.StatusConflict, ErrCodeAlreadyLiked, "Already liked")
	})
	r.GET("/ok", func(c *gin.Context) {
		ok(c, http.StatusOK, OKResponse{OK: true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/likes", nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.RequestID != "rid-409" || er.Code != "already_liked" {
		t.Fatalf("unexpected body: %+v", er)
	}
	if buf.Len() != 0 {
		t.Fatalf("4xx must not log, got: %s", buf.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"ok":true}` {
		t.Fatalf("ok body: %d %s", w.Code, w.Body.String())
	}
}
