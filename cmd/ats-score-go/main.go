package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ats-score-go/internal/api/handler"
	"ats-score-go/internal/api/router"
	"ats-score-go/internal/config"
	appLogger "ats-score-go/internal/logger"
	"ats-score-go/internal/parser"
	"ats-score-go/internal/processor"
	"ats-score-go/internal/storage"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	initLogger("info")

	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}
	glog.Info("配置加载成功")

	// 配置里可能指定了别的日志级别，按配置重建
	initLogger(cfg.Logger.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	atsHandler := handler.NewATSHandler(cfg, storageManager)
	glog.Info("ATSHandler初始化成功")

	// 提取消费者需要完整的存储栈，缺失时只提供内联评分接口
	if storageManager.RabbitMQ != nil && storageManager.MinIO != nil && storageManager.MySQL != nil {
		pdfExtractor, err := parser.NewEinoPDFTextExtractor(ctx)
		if err != nil {
			glog.Fatalf("创建Eino PDF提取器失败: %v", err)
		}
		glog.Info("Eino PDF提取器初始化成功")

		worker, err := processor.NewExtractionWorker(cfg, storageManager, pdfExtractor)
		if err != nil {
			glog.Fatalf("创建提取消费者失败: %v", err)
		}

		workers := 5
		if n, ok := cfg.RabbitMQ.ConsumerWorkers["extract_consumer_workers"]; ok {
			workers = n
		}
		go func() {
			glog.Infof("启动简历提取消费者，工作线程数: %d", workers)
			for i := 0; i < workers; i++ {
				if _, err := worker.Start(ctx); err != nil {
					glog.Fatalf("启动简历提取消费者失败: %v", err)
				}
			}
		}()
	} else {
		glog.Warn("RabbitMQ/MinIO/MySQL未全部就绪，跳过提取消费者，仅提供内联评分接口")
	}

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, atsHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

func initLogger(level string) {
	appLogger.Init(appLogger.Config{
		Level:        level,
		Format:       "pretty",
		TimeFormat:   "15:04:05",
		ReportCaller: true,
	})

	glog.SetLogger(hertzadapter.From(appLogger.Logger))
	if level == "debug" {
		glog.SetLevel(glog.LevelDebug)
	} else {
		glog.SetLevel(glog.LevelInfo)
	}
}
