package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"litfund-backend/controllers"
	"litfund-backend/middleware"
	"litfund-backend/services"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires every endpoint. Everything under /api/admin sits behind
// the admin session guard; the guard checks the allow-list per request, so
// hiding a link in the frontend is never the only line of defense.
func SetupRouter(
	authC *controllers.AuthController,
	subC *controllers.SubmissionController,
	testiC *controllers.TestimonialController,
	blogC *controllers.BlogController,
	contentC *controllers.ContentController,
	analyticsC *controllers.AnalyticsController,
	adminC *controllers.AdminController,
	adminSvc *services.AdminService,
	jwtSecret string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// Public surface
		api.POST("/submissions", subC.Create)
		api.GET("/testimonials", testiC.GetPublished)
		api.GET("/blog", blogC.GetPublished)
		api.GET("/blog/:slug", blogC.GetBySlug)
		api.GET("/content/:section", contentC.GetSection)
		api.POST("/pageviews", analyticsC.Record)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authC.Login)
			auth.POST("/send-password-reset", authC.SendPasswordReset)
			auth.POST("/verify-reset-token", authC.VerifyResetToken)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin(adminSvc, jwtSecret))
		{
			submissions := admin.Group("/submissions")
			{
				submissions.GET("", subC.GetAll)
				submissions.GET("/counts", subC.Counts)
				submissions.GET("/trash", subC.ListTrash)
				submissions.GET("/:id", subC.GetByID)
				submissions.PATCH("/:id/read", subC.MarkRead)
				submissions.POST("/:id/restore", subC.Restore)
				submissions.DELETE("/:id", subC.Delete)
				submissions.DELETE("/:id/permanent", subC.PermanentlyDelete)
			}

			testimonials := admin.Group("/testimonials")
			{
				testimonials.GET("", testiC.GetAll)
				testimonials.GET("/trash", testiC.ListTrash)
				testimonials.POST("", testiC.Create)
				testimonials.PUT("/:id", testiC.Update)
				testimonials.PATCH("/:id/published", testiC.SetPublished)
				testimonials.PATCH("/:id/featured", testiC.SetFeatured)
				testimonials.PATCH("/:id/order", testiC.SetDisplayOrder)
				testimonials.POST("/:id/restore", testiC.Restore)
				testimonials.DELETE("/:id", testiC.Delete)
				testimonials.DELETE("/:id/permanent", testiC.PermanentlyDelete)
			}

			blog := admin.Group("/blog")
			{
				blog.GET("", blogC.GetAll)
				blog.POST("", blogC.Create)
				blog.PUT("/:id", blogC.Update)
				blog.DELETE("/:id", blogC.Delete)
			}

			content := admin.Group("/content")
			{
				content.GET("", contentC.ListSections)
				content.PUT("/:section", contentC.Upsert)
			}

			admin.GET("/analytics/stats", analyticsC.Stats)

			admins := admin.Group("/admins")
			{
				admins.GET("", adminC.List)
				admins.POST("", adminC.Grant)
				admins.DELETE("/:id", adminC.Revoke)
			}

			admin.POST("/trash/purge", adminC.PurgeTrash)
		}
	}

	return r
}
