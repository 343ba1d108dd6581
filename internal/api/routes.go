package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.WorkerInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	streams := s.router.Group("/streams")
	{
		streams.GET("", s.streamHandler.ListStreams)
		streams.GET("/:id", s.streamHandler.GetStream)
		streams.DELETE("/:id", s.streamHandler.StopStream)
		streams.POST("/:id/incidents", s.streamHandler.TriggerIncident)
		streams.PUT("/:id/buffer", s.streamHandler.ResizeBuffer)
		streams.POST("/:id/buffer/reset", s.streamHandler.ResetBuffer)
		streams.GET("/:id/preview", s.previewHandler.StreamPreview)
		streams.GET("/:id/snapshot", s.previewHandler.Snapshot)
	}

	sources := s.router.Group("/sources")
	{
		sources.POST("/check", s.sourceHandler.CheckSource)
	}

	system := s.router.Group("/system")
	{
		system.GET("/stats", s.systemHandler.GetStats)
	}
}
