package response

import (
	"Crosspost/internal/api/dto"
	"Crosspost/internal/job"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装，运维接口直接使用 HTTP 状态码
func Fail(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, dto.Response{
		Code:    status,
		Message: message,
		Data:    data,
	})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	if errors.Is(err, job.ErrJobRunning) {
		Fail(c, http.StatusConflict, err.Error(), nil)
		return
	}
	log.ErrorContext(c.Request.Context(), "Error", "err", err)
	Fail(c, http.StatusInternalServerError, err.Error(), nil)
}
