// Package api 處理 HTTP 請求路由。
//
// SetupRoutes 把 /api/necklace 資源、/api/events 事件訂閱與 /api/health
// 掛到 gin 引擎上。請求處理器位於 handlers 子包，它們把 HTTP 請求轉換為
// 服務調用，並把結果或錯誤轉換回 HTTP 響應。
package api
