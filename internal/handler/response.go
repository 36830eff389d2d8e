// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"tube-chat-go/internal/model"

	"github.com/gin-gonic/gin"
)

// respondOK 以统一的 {code, message, data} 结构返回成功响应。
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": data})
}

// respondBadRequest 返回参数校验失败的 400 响应。
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": message, "data": nil})
}

// respondError 将领域错误映射为 HTTP 状态码与用户可读的消息。
// 每类错误单独映射，前端可按类别选择提示方式（禁用输入、重试按钮等）。
func respondError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "服务器内部错误"
	switch {
	case errors.Is(err, model.ErrInvalidChannel):
		status, message = http.StatusBadRequest, "无效的频道"
	case errors.Is(err, model.ErrEmptyContent):
		status, message = http.StatusBadRequest, "消息内容不能为空"
	case errors.Is(err, model.ErrInvalidTimestamp):
		status, message = http.StatusBadRequest, "无效的时间戳"
	case errors.Is(err, model.ErrNotFound):
		status, message = http.StatusNotFound, "对话不存在"
	case errors.Is(err, model.ErrNoPriorUserMessage):
		status, message = http.StatusConflict, "请先发送一条消息"
	case errors.Is(err, model.ErrRetrievalUnavailable):
		status, message = http.StatusBadGateway, "AI服务暂时不可用，请稍后重试"
	case errors.Is(err, model.ErrRetrievalTimeout):
		status, message = http.StatusGatewayTimeout, "AI服务响应超时，请重试"
	}
	c.JSON(status, gin.H{"code": status, "message": message, "data": nil})
}
