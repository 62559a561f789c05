package security

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"DMProject/global"
	"DMProject/module/chat/model"
	"DMProject/tools/errs"
	sectool "DMProject/tools/security"
)

// CtxCallerKey is where the verified caller identity lands in the gin
// context.
const CtxCallerKey = "caller"

type Options struct {
	HeaderToken               string // default "authorization"
	EnableAuthorizationBearer bool   // also accept "Authorization: Bearer x"
	JWT                       sectool.Options
}

func DefaultOptions() *Options {
	return &Options{
		HeaderToken:               "authorization",
		EnableAuthorizationBearer: true,
		JWT:                       sectool.DefaultOptions(global.GetJwtSecret()),
	}
}

// Middleware resolves the bearer credential into a caller identity or
// rejects the request with a coded credential error. Coded errors go out
// with HTTP 200 and the code in the body.
func Middleware(opts *Options) gin.HandlerFunc {
	if opts == nil {
		opts = DefaultOptions()
	}
	return func(c *gin.Context) {
		// header lookup is case-insensitive, so with HeaderToken set to
		// "authorization" this also reads "Authorization: Bearer x"; the
		// scheme prefix must be stripped from whichever header matched
		token := strings.TrimSpace(c.GetHeader(opts.HeaderToken))
		if opts.EnableAuthorizationBearer && strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[len("bearer "):])
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusOK, errs.ErrTokenInvalid.WithDetail("missing bearer token"))
			return
		}

		claims, err := sectool.Verify(opts.JWT, token)
		if err != nil {
			coded := errs.CodeOf(err)
			if coded == nil {
				coded = errs.ErrTokenInvalid
			}
			c.AbortWithStatusJSON(http.StatusOK, coded)
			return
		}

		c.Set(CtxCallerKey, model.Identity{
			ID:       claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		c.Next()
	}
}

// CallerFrom reads the verified identity set by Middleware.
func CallerFrom(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get(CtxCallerKey)
	if !ok {
		return model.Identity{}, false
	}
	id, ok := v.(model.Identity)
	return id, ok
}
