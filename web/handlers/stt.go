// Package handlers implements the HTTP endpoints of the stt API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cutai-stt/internal/model"
	"cutai-stt/internal/service"
)

// Business codes carried in the response envelope; the frontend switches
// on these rather than on HTTP status.
const (
	codeOK         = 200
	codeNotFound   = 404
	codeInProgress = 100001
	codeFailed     = 110001
)

type response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// STT serves the transcription API endpoints.
type STT struct {
	svc *service.STT
	log *zap.Logger
}

// NewSTT creates the handler set around svc.
func NewSTT(svc *service.STT, log *zap.Logger) *STT {
	return &STT{svc: svc, log: log}
}

// Upload accepts a multipart media file and returns its file id.
func (h *STT) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response{Code: http.StatusBadRequest, Message: "未提供文件"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.internalError(c, "open uploaded file", err)
		return
	}
	defer file.Close()

	fileID, err := h.svc.Upload(c.Request.Context(), service.Upload{
		FileName:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        file,
	})
	if errors.Is(err, service.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, response{Code: http.StatusBadRequest, Message: "只能上传音频或视频文件。"})
		return
	}
	if err != nil {
		h.internalError(c, "upload failed", err)
		return
	}

	c.JSON(http.StatusOK, response{
		Code:    codeOK,
		Message: "文件上传成功",
		Data:    gin.H{"file_id": fileID},
	})
}

// Submit enqueues a transcription task for an uploaded file.
func (h *STT) Submit(c *gin.Context) {
	fileID := c.PostForm("file_id")
	if fileID == "" {
		c.JSON(http.StatusBadRequest, response{Code: http.StatusBadRequest, Message: "缺少 file_id"})
		return
	}

	taskID, err := h.svc.Submit(c.Request.Context(), fileID)
	if err != nil {
		h.internalError(c, "submit failed", err)
		return
	}

	c.JSON(http.StatusOK, response{
		Code:    codeOK,
		Message: "文件正在后台处理",
		Data:    gin.H{"task_id": taskID},
	})
}

// Progress reports the lifecycle state of a task. A completed task
// carries the full result payload; a failed one only its id.
func (h *STT) Progress(c *gin.Context) {
	taskID := c.Param("task_id")

	rec, err := h.svc.Progress(c.Request.Context(), taskID)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusOK, response{Code: codeNotFound, Message: "任务不存在"})
		return
	}
	if err != nil {
		h.internalError(c, "progress lookup failed", err)
		return
	}

	switch rec.State {
	case model.StateSuccess:
		c.JSON(http.StatusOK, response{
			Code:    codeOK,
			Message: "文件处理完成",
			Data: gin.H{
				"task_id":   taskID,
				"text":      rec.Text,
				"segments":  rec.Segments,
				"file_name": rec.FileName,
				"file_path": rec.FilePath,
				"duration":  rec.Duration,
				"srt_path":  rec.SrtPath,
			},
		})
	case model.StateFailure:
		c.JSON(http.StatusOK, response{
			Code:    codeFailed,
			Message: "文件处理失败",
			Data:    gin.H{"task_id": taskID},
		})
	default:
		c.JSON(http.StatusOK, response{
			Code:    codeInProgress,
			Message: "文件处理中",
			Data:    gin.H{"task_id": taskID, "process": rec.Process},
		})
	}
}

type editRequest struct {
	TaskID   string          `json:"task_id" binding:"required"`
	Segments []model.Segment `json:"segments"`
}

// Edit replaces the segments of a completed transcript.
func (h *STT) Edit(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Code: http.StatusBadRequest, Message: "请求参数错误"})
		return
	}

	err := h.svc.EditTranscript(c.Request.Context(), req.TaskID, req.Segments)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusOK, response{Code: codeNotFound, Message: "任务不存在"})
		return
	}
	if err != nil {
		h.internalError(c, "edit failed", err)
		return
	}

	c.JSON(http.StatusOK, response{Code: codeOK, Message: "字幕更新成功"})
}

// List enumerates completed tasks whose media is still available.
func (h *STT) List(c *gin.Context) {
	listed, err := h.svc.ListValidTasks(c.Request.Context())
	if err != nil {
		h.internalError(c, "list failed", err)
		return
	}

	c.JSON(http.StatusOK, response{
		Code:    codeOK,
		Message: "查询成功",
		Data:    gin.H{"records": listed},
	})
}

// Delete removes a task, its records and its artifacts.
func (h *STT) Delete(c *gin.Context) {
	taskID := c.Param("task_id")

	err := h.svc.Delete(c.Request.Context(), taskID)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusOK, response{Code: codeNotFound, Message: "任务不存在"})
		return
	}
	if err != nil {
		h.internalError(c, "delete failed", err)
		return
	}

	c.JSON(http.StatusOK, response{Code: codeOK, Message: "删除成功"})
}

// internalError hides failure details from clients; they live in logs.
func (h *STT) internalError(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, response{
		Code:    http.StatusInternalServerError,
		Message: "服务器内部错误",
	})
}
