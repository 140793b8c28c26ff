package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	httpapi "github.com/aplusgen/aplus/internal/api/http"
	"github.com/aplusgen/aplus/internal/api/http/middleware"
	"github.com/aplusgen/aplus/internal/auth"
	authhttp "github.com/aplusgen/aplus/internal/auth/http"
	authmw "github.com/aplusgen/aplus/internal/auth/middleware"
	authrepo "github.com/aplusgen/aplus/internal/auth/repository"
	authservice "github.com/aplusgen/aplus/internal/auth/service"
	"github.com/aplusgen/aplus/internal/images"
	piperepo "github.com/aplusgen/aplus/internal/pipeline/repository"
	"github.com/aplusgen/aplus/internal/projects"
	"github.com/aplusgen/aplus/internal/uploads"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	BaseURL     string
	CORSOrigins []string
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Issuer      *auth.TokenIssuer
	Files       *uploads.Store
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(dep.CORSOrigins) == 1 && dep.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = dep.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	r.Static("/uploads", dep.Files.Dir())

	api := r.Group("/api")
	api.Use(middleware.RequestID())

	rootHandler := httpapi.NewRootHandler(dep.ServiceName, dep.Version)
	api.GET("/", rootHandler.Banner)

	userRepo := authrepo.NewUserRepository(dep.DB)
	authService := authservice.NewAuthService(userRepo, dep.Issuer)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(rate.Every(time.Second), 10))
	authhttp.New(authService).Register(authGroup)

	projectRepo := projects.NewRepo(dep.DB)
	jobRepo := piperepo.NewJobRepository(dep.Redis)

	protected := api.Group("")
	protected.Use(authmw.BearerAuth(dep.Issuer))

	projects.Register(protected.Group("/projects"), projectRepo, dep.Files, dep.BaseURL)
	images.Register(protected.Group("/image"), projectRepo, jobRepo, dep.Files, dep.BaseURL)
	protected.POST("/content/generate", rootHandler.GenerateContent)

	return r
}
