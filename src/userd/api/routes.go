package api

import "github.com/gin-gonic/gin"

// RegisterRoutes configures all API routes on the given router
func (a *API) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID())

	// Root endpoint - API discovery
	router.GET("/", a.Base.HandleRoot)

	authGroup := router.Group("/auth")
	authGroup.Use(a.rateLimitAuth())
	{
		authGroup.POST("/token", a.Auth.HandleToken)
		authGroup.GET("/validate", a.Auth.HandleValidate)
	}

	v1 := router.Group("/v1")
	v1.Use(a.rateLimitAPI())
	{
		v1.GET("/health", a.Base.HandleHealth)
		v1.GET("/version", a.Base.HandleVersion)

		// User routes - read operations (public)
		users := v1.Group("/users")
		{
			users.GET("", a.Users.HandleList)
			users.GET("/active", a.Users.HandleListActive)
			users.GET("/:id", a.Users.HandleGet)
		}

		// User routes - write operations (requires auth when enabled)
		usersWrite := v1.Group("/users")
		usersWrite.Use(a.authRequired())
		{
			usersWrite.POST("", a.Users.HandleCreate)
			usersWrite.PUT("/:id", a.Users.HandleUpdate)
			usersWrite.PATCH("/:id", a.Users.HandleUpdate)
			usersWrite.DELETE("/:id", a.Users.HandleDelete)
		}

		if a.Exports != nil {
			exportsGroup := v1.Group("/exports")
			exportsGroup.Use(a.authRequired())
			{
				exportsGroup.POST("", a.Exports.HandleCreate)
				exportsGroup.GET("", a.Exports.HandleList)
				exportsGroup.GET("/*key", a.Exports.HandleGet)
			}
		}
	}
}
