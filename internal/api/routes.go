package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/", h.index)

	gate := h.svc.Gate().Middleware()
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/qr", gate, h.qr)
		api.POST("/cards", gate, h.generate)
	}
}
