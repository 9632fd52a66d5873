package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"Gin_postgres_redis_asset_lending/app"
	"Gin_postgres_redis_asset_lending/controllers"
)

const seenThrottle = 5 * time.Minute

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	assetCtl := controllers.NewAssetController(s)
	borrowerCtl := controllers.NewBorrowerController(s)
	loanCtl := controllers.NewLoanController(s)
	maintCtl := controllers.NewMaintenanceController(s)
	dashCtl := controllers.NewDashboardController(s)
	uc := controllers.GetUserController(s)

	// 复用的中间件
	authMW := app.AuthRequired(a.Sessions, a.Backend)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(a.Backend, a.RDB, seenThrottle)

	r.GET("/healthz", func(c *app.Ctx) { c.JSON(http.StatusOK, app.H{"ok": true}) })

	// ------------------------------
	// 登录（公开）/ 登出、whoami（受保护）
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authCtl.Login)
	}
	authed := auth.Group("", authMW, seenMW)
	{
		authed.POST("/logout", authCtl.Logout)
		authed.GET("/whoami", authCtl.WhoAmI)
	}

	// 所有登录用户可读
	api := r.Group("/api", authMW, seenMW)
	{
		api.GET("/assets", assetCtl.ListAssets)
		api.GET("/assets/:id", assetCtl.GetAsset)
		api.GET("/loans", loanCtl.ListLoans) // ?status=&active=&borrowerId=&assetId=
		api.GET("/loans/:id", loanCtl.GetLoan)
		api.GET("/dashboard/stats", dashCtl.Stats)
	}

	// ------------------------------
	// 管理员
	// ------------------------------
	admin := r.Group("/api", authMW, adminMW, seenMW)
	{
		admin.POST("/assets", assetCtl.CreateAsset)
		admin.PUT("/assets/:id", assetCtl.UpdateAsset)
		admin.DELETE("/assets/:id", assetCtl.DeleteAsset)

		admin.GET("/borrowers", borrowerCtl.ListBorrowers) // ?search=&role=
		admin.GET("/borrowers/:id", borrowerCtl.GetBorrower)
		admin.POST("/borrowers", borrowerCtl.CreateBorrower)
		admin.PUT("/borrowers/:id", borrowerCtl.UpdateBorrower)
		admin.DELETE("/borrowers/:id", borrowerCtl.DeleteBorrower)

		admin.POST("/loans", loanCtl.IssueLoan)
		admin.POST("/loans/:id/return", loanCtl.ReturnLoan)

		admin.GET("/maintenance", maintCtl.ListMaintenance) // ?status=&assetId=
		admin.GET("/maintenance/:id", maintCtl.GetMaintenance)
		admin.POST("/maintenance", maintCtl.CreateMaintenance)
		admin.PUT("/maintenance/:id", maintCtl.UpdateMaintenance)
		admin.POST("/maintenance/:id/complete", maintCtl.CompleteMaintenance)
		admin.DELETE("/maintenance/:id", maintCtl.DeleteMaintenance)

		admin.GET("/reports/loans", dashCtl.LoanReport) // ?from=&to=

		admin.GET("/users", uc.ListUsers) // ?q=&page=&size=
		admin.GET("/users/:id", uc.GetUser)
		admin.POST("/users", uc.CreateUser)
		admin.DELETE("/users/:id", uc.DeleteUser)
	}
}
