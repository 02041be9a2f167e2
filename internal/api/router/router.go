package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smp-portal/backend/config"
	"smp-portal/backend/internal/api/handler"
	"smp-portal/backend/internal/api/middleware"
	"smp-portal/backend/pkg/jwt"
	"smp-portal/backend/pkg/redis"
)

// Setup builds the Gin engine with all middleware and routes.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxUploadBytes))
	r.Use(middleware.RateLimit(rdb, cfg.Server.RateLimitPerMin, time.Minute))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// shift lifecycle
		shifts := v1.Group("/shifts")
		{
			shifts.POST("", middleware.RoleAuth("manager", "supervisor"), h.Shift.Create)
			shifts.GET("/:id", h.Shift.GetByID)
			shifts.PUT("/:id", middleware.RoleAuth("manager", "supervisor"), h.Shift.Update)
			shifts.DELETE("/:id", middleware.RoleAuth("manager"), h.Shift.Delete)
			shifts.GET("/current-shift/:supervisorId", h.Shift.GetCurrent)
			shifts.GET("/current-shift/worker/:workerId", h.Shift.GetCurrentByWorker)
			shifts.GET("/supervisor/:supervisorId", h.Shift.ListBySupervisor)
		}

		// incident intake
		incidents := v1.Group("/incidents")
		{
			incidents.POST("", h.Incident.Create)
			incidents.GET("/:id", h.Incident.ListByShift) // :id is the shift id
			incidents.PUT("/:id", middleware.RoleAuth("manager", "supervisor"), h.Incident.Update)
			incidents.GET("/:id/attachments", h.Incident.ListAttachments)
		}

		// hazard and control-plan catalog
		v1.GET("/smp-documents", h.Catalog.ListDocuments)
		hazards := v1.Group("/hazards")
		{
			hazards.GET("", h.Catalog.ListHazards)
			hazards.POST("", middleware.RoleAuth("manager"), h.Catalog.CreateHazard)
			hazards.PUT("/:id", middleware.RoleAuth("manager"), h.Catalog.UpdateHazard)
			hazards.DELETE("/:id", middleware.RoleAuth("manager"), h.Catalog.DeleteHazard)
			hazards.GET("/:id/control-plan", h.Catalog.GetControlPlan)
		}
		controlPlans := v1.Group("/control-plans")
		{
			controlPlans.POST("", middleware.RoleAuth("manager"), h.Catalog.CreateControlPlan)
			controlPlans.POST("/:id/steps", middleware.RoleAuth("manager"), h.Catalog.AddControlSteps)
		}

		// workplan assembly and task tracking
		workplans := v1.Group("/workplans")
		{
			workplans.POST("", middleware.RoleAuth("manager", "supervisor"), h.Workplan.Create)
			workplans.GET("/:incidentId", h.Workplan.GetByIncident)
			workplans.GET("/:incidentId/incomplete-tasks", h.Workplan.ListIncompleteTasks)
		}
		tasks := v1.Group("/tasks")
		{
			tasks.PUT("/:taskId", h.Workplan.UpdateTask)
			tasks.GET("/worker/:workerId", h.Workplan.ListTasksByWorker)
		}

		// handover reports
		v1.GET("/reports/shift/:shiftId", middleware.RoleAuth("manager", "supervisor"), h.Report.GenerateShiftReport)

		// file exports
		exports := v1.Group("/exports")
		{
			exports.GET("/incidents/:shiftId", middleware.RoleAuth("manager", "supervisor"), h.Export.ExportIncidentRegister)
			exports.GET("/shifts/:supervisorId/calendar", h.Export.ExportShiftCalendar)
		}
	}

	return r
}
