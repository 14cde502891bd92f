// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 目前包含請求 ID 與請求日誌兩個中間件，由 main 掛在 gin.Recovery 之後。
package middleware
