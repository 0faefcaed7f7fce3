package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sudooom.codex.logic/internal/game/core"
	"sudooom.codex.logic/pkg/proto"
)

// Response 统一响应结构
type Response struct {
	Code    string `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

const (
	CodeSuccess       = "OK"
	CodeInvalidParams = "INVALID_PARAMS"
	CodeTokenInvalid  = "TOKEN_INVALID"
	CodeTokenExpired  = "TOKEN_EXPIRED"
	CodeForbidden     = "FORBIDDEN"
	CodeServerError   = "INTERNAL"
)

// Success 成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 游戏错误按分类映射 HTTP 状态码，其他错误视为服务器内部错误
func Error(c *gin.Context, err error) {
	var ge *core.GameError
	if !errors.As(err, &ge) {
		ErrorWithMsg(c, http.StatusInternalServerError, CodeServerError, err.Error())
		return
	}
	Body(c, &proto.ErrorBody{Code: ge.Code, Kind: string(ge.Kind), Message: ge.Message})
}

// Body 来自动作应答的错误
func Body(c *gin.Context, body *proto.ErrorBody) {
	c.JSON(statusOf(body), Response{
		Code:    body.Code,
		Kind:    body.Kind,
		Message: body.Message,
	})
}

func statusOf(body *proto.ErrorBody) int {
	switch {
	case body.Code == core.ErrGameNotFound.Code:
		return http.StatusNotFound
	case body.Kind == string(core.KindValidation):
		return http.StatusBadRequest
	case body.Kind == string(core.KindState), body.Kind == string(core.KindConfig):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ErrorWithMsg 自定义错误
func ErrorWithMsg(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{
		Code:    code,
		Message: message,
	})
}

// InvalidParams 参数校验失败
func InvalidParams(c *gin.Context, message string) {
	ErrorWithMsg(c, http.StatusBadRequest, CodeInvalidParams, message)
}

// Unauthorized 未认证
func Unauthorized(c *gin.Context, code string) {
	ErrorWithMsg(c, http.StatusUnauthorized, code, "token 无效或已过期")
}

// Forbidden 无权访问
func Forbidden(c *gin.Context) {
	ErrorWithMsg(c, http.StatusForbidden, CodeForbidden, "玩家不在该游戏中")
}
