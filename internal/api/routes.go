package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"necklace_web/internal/api/handlers"
	"necklace_web/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services, log zerolog.Logger) {
	// 初始化 handlers
	necklaceHandler := handlers.NewNecklaceHandler(services.Necklace, log)
	feedHandler := handlers.NewFeedHandler(services.Feed, log)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.IndentedJSON(http.StatusNotFound, gin.H{
			"error": "route not found",
		})
	})

	// 基本的健康檢查
	api.GET("/health", func(c *gin.Context) {
		c.IndentedJSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// 生命週期事件訂閱
	api.GET("/events", feedHandler.Subscribe)

	necklaces := api.Group("/necklace")
	{
		necklaces.GET("", necklaceHandler.ListNecklaces)
		necklaces.POST("", necklaceHandler.CreateNecklace)
		necklaces.GET("/:id", necklaceHandler.GetNecklace)
		necklaces.PUT("/:id", necklaceHandler.UpdateNecklace)
		necklaces.DELETE("/:id", necklaceHandler.DeleteNecklace)
	}
}
