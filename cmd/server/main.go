// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tube-chat-go/internal/config"
	"tube-chat-go/internal/handler"
	"tube-chat-go/internal/middleware"
	"tube-chat-go/internal/pipeline"
	"tube-chat-go/internal/repository"
	"tube-chat-go/internal/service"
	"tube-chat-go/pkg/database"
	"tube-chat-go/pkg/indexer"
	"tube-chat-go/pkg/kafka"
	"tube-chat-go/pkg/log"
	"tube-chat-go/pkg/retrieval"
	"tube-chat-go/pkg/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis 与对象存储
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	kafka.InitProducer(cfg.Kafka)

	// 4. 初始化 Repository
	channelRepo := repository.NewChannelRepository(database.DB)
	conversationRepo := repository.NewConversationRepository(database.RDB, cfg.Chat.HistoryTTL())

	// 5. 初始化 Service (依赖注入)
	retrievalClient := retrieval.NewClient(cfg.Retrieval)
	indexerClient := indexer.NewClient(cfg.Indexer)
	channelService := service.NewChannelService(channelRepo, cfg.MinIO)
	conversationService := service.NewConversationService(conversationRepo, channelRepo)
	chatService := service.NewChatService(conversationService, retrievalClient)
	referenceService := service.NewReferenceService(conversationService)

	// 6. 初始化频道同步处理管道 (Processor)
	processor := pipeline.NewProcessor(channelRepo, indexerClient)

	// 7. 启动后台 Kafka 消费者
	go kafka.StartConsumer(cfg.Kafka, processor)

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 9. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		// 频道与视频目录
		channels := apiV1.Group("/channels")
		{
			channelHandler := handler.NewChannelHandler(channelService)
			channels.GET("", channelHandler.ListChannels)
			channels.GET("/:channelId", channelHandler.GetChannel)
			channels.GET("/:channelId/videos", channelHandler.ListVideos)
			channels.POST("/:channelId/refresh", channelHandler.RefreshChannel)
		}

		// 对话
		conversations := apiV1.Group("/conversations")
		{
			conversationHandler := handler.NewConversationHandler(conversationService, chatService)
			referenceHandler := handler.NewReferenceHandler(referenceService)
			conversations.POST("", conversationHandler.CreateConversation)
			conversations.GET("/:id/messages", conversationHandler.ListMessages)
			conversations.POST("/:id/messages", conversationHandler.Ask)
			conversations.GET("/:id/status", conversationHandler.GetStatus)
			conversations.GET("/:id/references", referenceHandler.ListReferences)
		}

		// 时间戳跳转链接
		apiV1.GET("/playback", handler.NewReferenceHandler(referenceService).GetPlaybackURL)
	}

	// Chat 路由 (WebSocket)
	r.GET("/chat/:conversationId", handler.NewChatHandler(chatService, conversationService).Handle)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
