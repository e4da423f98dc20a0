package handlers

import (
	"net/http"
	"strings"

	"realtimeChat/internal/errs"
	"realtimeChat/internal/models"
	"realtimeChat/internal/msgs"

	"github.com/gin-gonic/gin"
)

// MustAuthenticateMiddleware guards the synchronous boundary with the
// same token verification the gateway runs on connect.
func MustAuthenticateMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		jwtToken := ctx.GetHeader("Authorization")
		jwtToken = strings.TrimPrefix(jwtToken, "Bearer ")

		if jwtToken == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  models.ErrorStrings([]error{errs.ErrUnauthorized}),
			})
			return
		}

		claims, err := verifier.VerifyToken(jwtToken)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  models.ErrorStrings([]error{errs.ErrUnauthorized}),
			})
			return
		}

		ctx.Set("user_id", claims.ID)
		ctx.Set("user_email", claims.Email)
		ctx.Set("username", claims.Username)
		ctx.Next()
	}
}
