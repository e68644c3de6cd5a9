// Package web provides the HTTP server for the blog API: routing, session
// handling, controllers and scheduled maintenance jobs.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"

	"blogapi/config"
	"blogapi/database"
	"blogapi/logger"
	"blogapi/util/common"
	"blogapi/util/random"
	"blogapi/web/controller"
	"blogapi/web/middleware"
	"blogapi/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// Server is the blog API web server.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	settings *config.Settings

	auth         *controller.AuthController
	users        *controller.UserController
	posts        *controller.BlogPostController
	verification *controller.VerificationController
	server       *controller.ServerController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a web server with a cancellable context.
func NewServer(settings *config.Settings) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{settings: settings, ctx: ctx, cancel: cancel}
}

func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	sessionSecret := s.settings.SessionSecret
	if sessionSecret == "" {
		sessionSecret = random.Seq(32)
	}
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.settings.SessionMaxAge * 60,
		HttpOnly: true,
	})
	engine.Use(sessions.Sessions(config.GetName(), store))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authService := service.NewAuthService(s.settings.JWTSecret)
	userService := service.NewUserService()
	postService := service.NewBlogPostService()
	notificationService := service.NewNotificationService(service.NewSMTPMailer(s.settings))
	verificationService := service.NewVerificationService(notificationService)

	engine.Use(middleware.LoadUser(authService, userService))

	api := engine.Group(s.settings.WebBasePath + "api")
	{
		s.auth = controller.NewAuthController(api, authService)
		s.users = controller.NewUserController(api, userService)
		s.posts = controller.NewBlogPostController(api, postService)
		s.verification = controller.NewVerificationController(api, verificationService)
		s.server = controller.NewServerController(api)

		api.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	}

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the maintenance jobs.
func (s *Server) startTask() {
	// Flush the sqlite WAL into the main database file once a day.
	s.cron.AddFunc("@daily", func() {
		if err := database.Checkpoint(); err != nil {
			logger.Warning("wal checkpoint failed:", err)
		}
	})
	s.cron.AddFunc("@daily", logger.ClearBuffer)
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(s.settings.WebListen, strconv.Itoa(s.settings.WebPort))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server and the scheduler.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }
