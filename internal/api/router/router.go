package router

import (
	"context"

	"ats-score-go/internal/api/handler"
	"ats-score-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.opentelemetry.io/otel/trace"
)

// respondOK 统一成功响应
func respondOK(ctx *app.RequestContext, data interface{}) {
	ctx.JSON(consts.StatusOK, utils.H{
		"success": true,
		"data":    data,
	})
}

// respondError 统一错误响应，客户端请求错误返回400
// 错误同时记到当前请求的span上，按状态码分类
func respondError(c context.Context, ctx *app.RequestContext, err error) {
	status := consts.StatusInternalServerError
	if handler.IsRequestError(err) {
		status = consts.StatusBadRequest
	}
	tracing.RecordHTTPError(trace.SpanFromContext(c), err, status)
	ctx.JSON(status, utils.H{
		"success": false,
		"error":   utils.H{"message": err.Error()},
	})
}

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, atsHandler *handler.ATSHandler) {
	api := h.Group("/api/v1")

	api.POST("/ats/check", func(c context.Context, ctx *app.RequestContext) {
		req, err := handler.ParseCheckRequest(ctx.Request.Body())
		if err != nil {
			respondError(c, ctx, err)
			return
		}

		report, err := atsHandler.CheckATS(c, req)
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		respondOK(ctx, report)
	})

	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			respondError(c, ctx, handler.NewRequestError("file is required"))
			return
		}

		targetJobID := ctx.PostForm("target_job_id")
		sourceChannel := ctx.PostForm("source_channel")
		if sourceChannel == "" {
			sourceChannel = "web_upload"
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		defer file.Close()

		resp, err := atsHandler.UploadResume(
			c,
			file,
			fileHeader.Size,
			fileHeader.Filename,
			targetJobID,
			sourceChannel,
		)
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		respondOK(ctx, resp)
	})

	api.GET("/resume/:uuid/status", func(c context.Context, ctx *app.RequestContext) {
		resp, err := atsHandler.GetSubmissionStatus(c, ctx.Param("uuid"))
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		respondOK(ctx, resp)
	})

	api.GET("/resume/:uuid/text", func(c context.Context, ctx *app.RequestContext) {
		resp, err := atsHandler.GetParsedResumeText(c, ctx.Param("uuid"))
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		respondOK(ctx, resp)
	})

	api.POST("/jobs", func(c context.Context, ctx *app.RequestContext) {
		req, err := handler.ParseJobUpsertRequest(ctx.Request.Body())
		if err != nil {
			respondError(c, ctx, err)
			return
		}

		resp, err := atsHandler.CreateJob(c, req)
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		respondOK(ctx, resp)
	})

	api.PUT("/jobs/:id", func(c context.Context, ctx *app.RequestContext) {
		req, err := handler.ParseJobUpsertRequest(ctx.Request.Body())
		if err != nil {
			respondError(c, ctx, err)
			return
		}

		resp, err := atsHandler.UpdateJob(c, ctx.Param("id"), req)
		if err != nil {
			respondError(c, ctx, err)
			return
		}
		respondOK(ctx, resp)
	})

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
