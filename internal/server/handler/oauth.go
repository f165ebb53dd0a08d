package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pulseboard/heartbeat/internal/auth"
	"github.com/pulseboard/heartbeat/internal/logx"
)

type oauthRequest struct {
	AccessToken string `form:"access_token"`
}

// HandleOAuth handles POST /api/oauth: the identity-binding exchange. The
// success response carries the subject id and the plaintext secret; this is
// the only time the secret is ever visible.
func HandleOAuth(authn *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req oauthRequest
		_ = c.ShouldBind(&req)
		if req.AccessToken == "" {
			Fail(c, "'access_token' parameter must be present")
			return
		}

		binding, err := authn.Bind(c.Request.Context(), req.AccessToken)
		if err != nil {
			logx.Warnf("oauth bind: %v", err)
			Fail(c, err.Error())
			return
		}

		logx.Infof("oauth bind: subject=%s", binding.SubjectID)
		OK(c, "oauth", binding)
	}
}
