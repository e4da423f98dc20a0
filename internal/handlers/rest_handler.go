package handlers

import (
	"net/http"
	"strconv"

	"realtimeChat/internal/errs"
	"realtimeChat/internal/models"
	"realtimeChat/internal/msgs"
	"realtimeChat/internal/services"

	"github.com/gin-gonic/gin"
)

type RestHandler struct {
	authService *services.AuthenticationService
	chatService *services.ChatService
}

func NewRestHandler(
	authService *services.AuthenticationService,
	chatService *services.ChatService,
) *RestHandler {
	return &RestHandler{
		authService: authService,
		chatService: chatService,
	}
}

// statusForErrors maps the first domain error to its HTTP status.
func statusForErrors(errors []error) int {
	if len(errors) == 0 {
		return http.StatusInternalServerError
	}
	first := errors[0]
	switch {
	case errs.IsNotFound(first):
		return http.StatusNotFound
	case errs.IsConflict(first):
		return http.StatusConflict
	case errs.IsUnauthorized(first):
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

func abortWithErrors(ctx *gin.Context, errors []error) {
	ctx.AbortWithStatusJSON(statusForErrors(errors), models.Response{
		Success: false,
		Message: msgs.MsgOperationFailed,
		Errors:  models.ErrorStrings(errors),
	})
}

// Register godoc
// @Summary      Register a new account
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /auth/register [post]
func (rh *RestHandler) Register(ctx *gin.Context) {
	var user models.User
	if err := ctx.BindJSON(&user); err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	created, registerErrs := rh.authService.Register(&user)
	if len(registerErrs) > 0 {
		abortWithErrors(ctx, registerErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgUserCreatedSuccessfully,
		Data:    created.ToUserResponse(),
	})
}

// Login godoc
// @Summary      Login and receive a bearer token
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      401  {object}  models.Response
// @Router       /auth/login [post]
func (rh *RestHandler) Login(ctx *gin.Context) {
	var loginData models.LoginRequestBody
	if err := ctx.BindJSON(&loginData); err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	loginResponse, loginErrs := rh.authService.Login(&loginData)
	if len(loginErrs) > 0 {
		abortWithErrors(ctx, loginErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    loginResponse,
	})
}

// SendMessage handles the synchronous send boundary; same service call
// the gateway relays to.
func (rh *RestHandler) SendMessage(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")

	var request models.SendMessageRequest
	if err := ctx.BindJSON(&request); err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	message, sendErrs := rh.chatService.SendMessage(ctx.Request.Context(), userID, request.ReceiverID, request.Content)
	if len(sendErrs) > 0 {
		abortWithErrors(ctx, sendErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    message,
	})
}

// GetMessages returns paginated history with the requested user. Viewing
// marks the other side's messages read.
func (rh *RestHandler) GetMessages(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")

	otherUserID, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil || otherUserID <= 0 {
		abortWithErrors(ctx, []error{errs.ErrInvalidParams})
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	history, historyErrs := rh.chatService.GetMessages(userID, uint(otherUserID), page, limit)
	if len(historyErrs) > 0 {
		abortWithErrors(ctx, historyErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    history,
	})
}

// MarkAsRead bulk-marks messages read for the authenticated receiver.
func (rh *RestHandler) MarkAsRead(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")

	var request models.MarkAsReadRequest
	if err := ctx.BindJSON(&request); err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	if markErrs := rh.chatService.MarkAsRead(userID, request.MessageIDs); len(markErrs) > 0 {
		abortWithErrors(ctx, markErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
	})
}

// GetConversations lists the authenticated user's conversation summaries.
func (rh *RestHandler) GetConversations(ctx *gin.Context) {
	userID := ctx.GetUint("user_id")

	conversations, convErrs := rh.chatService.GetConversations(userID)
	if len(convErrs) > 0 {
		abortWithErrors(ctx, convErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    conversations,
	})
}
