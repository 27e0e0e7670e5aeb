package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSavedSearchCreateRejectsInvertedAreaBounds(t *testing.T) {
	e := echo.New()
	body := `{"name":"big homes","min_area":500,"max_area":100}`
	req := httptest.NewRequest(http.MethodPost, "/v1/my/searches", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := &SavedSearchHandler{}
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := rec.Body.String()
	for _, field := range []string{"min_area", "max_area"} {
		if !strings.Contains(resp, field) {
			t.Errorf("response %q does not name field %q", resp, field)
		}
	}
}
