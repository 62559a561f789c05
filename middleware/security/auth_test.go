package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"DMProject/global"
	"DMProject/module/chat/model"
	"DMProject/tools/errs"
	sectool "DMProject/tools/security"
)

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", Middleware(DefaultOptions()), func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"code": errs.TokenInvalidError})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "id": caller.ID})
	})
	return r
}

func mintToken(t *testing.T) string {
	t.Helper()
	token, _, err := sectool.Generate(sectool.DefaultOptions(global.GetJwtSecret()), "7", "alice", model.RoleMember)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func getStatusBody(t *testing.T, r *gin.Engine, header, value string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if value != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("http status %d", w.Code)
	}
	return w.Body.String()
}

func TestMiddlewareBearerScheme(t *testing.T) {
	r := authRouter(t)
	body := getStatusBody(t, r, "Authorization", "Bearer "+mintToken(t))
	if !strings.Contains(body, `"code":0`) {
		t.Fatalf("bearer request rejected: %s", body)
	}
	if !strings.Contains(body, `"id":"7"`) {
		t.Fatalf("caller identity missing: %s", body)
	}
}

func TestMiddlewareRawToken(t *testing.T) {
	r := authRouter(t)
	body := getStatusBody(t, r, "authorization", mintToken(t))
	if !strings.Contains(body, `"code":0`) {
		t.Fatalf("raw token rejected: %s", body)
	}
}

func TestMiddlewareMissingToken(t *testing.T) {
	r := authRouter(t)
	body := getStatusBody(t, r, "", "")
	if !strings.Contains(body, `"code":1503`) {
		t.Fatalf("missing token not rejected as credential error: %s", body)
	}
}

func TestMiddlewareGarbageToken(t *testing.T) {
	r := authRouter(t)
	body := getStatusBody(t, r, "Authorization", "Bearer not.a.jwt")
	if !strings.Contains(body, `"code":1503`) {
		t.Fatalf("garbage token not rejected: %s", body)
	}
}
