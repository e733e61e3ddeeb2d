package main

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anuragkumar-code/snapengine-v2/auth"
	"github.com/anuragkumar-code/snapengine-v2/config"
	"github.com/anuragkumar-code/snapengine-v2/db"
	"github.com/anuragkumar-code/snapengine-v2/handlers"
	"github.com/anuragkumar-code/snapengine-v2/models"
	"github.com/anuragkumar-code/snapengine-v2/services"
	"github.com/anuragkumar-code/snapengine-v2/storage"
	"github.com/anuragkumar-code/snapengine-v2/utils"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 365 * 86400 // 1 year
)

func main() {
	config.Load()
	if config.DEBUG_MODE {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	dbInstance, err := db.Connect(config.MYSQL_DSN, config.SQLITE_FILE)
	if err != nil {
		logrus.Fatalf("cannot open database: %v", err)
	}
	if err = models.Init(dbInstance); err != nil {
		logrus.Fatalf("cannot migrate database: %v", err)
	}

	var store storage.StorageAPI
	if config.S3_BUCKET != "" {
		store, err = storage.NewS3Storage(storage.S3Config{
			Bucket:   config.S3_BUCKET,
			Region:   config.S3_REGION,
			Endpoint: config.S3_ENDPOINT,
			Key:      config.S3_KEY,
			Secret:   config.S3_SECRET,
			TmpDir:   config.TMP_DIR,
		})
		if err != nil {
			logrus.Fatalf("cannot set up S3 asset store: %v", err)
		}
	} else {
		store = storage.NewDiskStorage(config.UPLOADS_DIR)
	}

	albumService := services.NewAlbumService(dbInstance, store)
	photoService := services.NewPhotoService(dbInstance, store, albumService)
	authService := auth.NewService(dbInstance)

	userHandlers := &handlers.UserHandlers{Auth: authService}
	albumHandlers := &handlers.AlbumHandlers{Albums: albumService}
	photoHandlers := &handlers.PhotoHandlers{Photos: photoService, Albums: albumService, Store: store}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(dbInstance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/photos"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	// Account handlers
	router.POST("/auth/register", userHandlers.Register)
	router.POST("/auth/login", userHandlers.Login)
	if auth.InitOAuth() {
		router.GET("/auth/:provider", userHandlers.OAuthBegin)
		router.GET("/auth/:provider/callback", userHandlers.OAuthCallback)
	}

	// Custom Auth Router
	authRouter := &auth.Router{Base: router, DB: dbInstance}
	authRouter.POST("/user/logout", userHandlers.Logout)
	authRouter.GET("/user/me", userHandlers.Me)
	authRouter.PUT("/user/profile", userHandlers.UpdateProfile)
	authRouter.GET("/user/list", userHandlers.UserList)
	// Album handlers
	authRouter.POST("/albums", albumHandlers.Create)
	authRouter.GET("/albums", albumHandlers.List)
	authRouter.GET("/albums/shared", albumHandlers.ListShared)
	authRouter.GET("/albums/:id", albumHandlers.Get)
	authRouter.PUT("/albums/:id", albumHandlers.Update)
	authRouter.DELETE("/albums/:id", albumHandlers.Delete)
	authRouter.GET("/albums/:id/activity", albumHandlers.Activity)
	// Sharing handlers
	authRouter.POST("/albums/:id/share", albumHandlers.Share)
	authRouter.POST("/shares/:id/respond", albumHandlers.RespondToShare)
	// Photo handlers
	authRouter.POST("/albums/:id/photos", photoHandlers.Upload)
	authRouter.GET("/albums/:id/photos", photoHandlers.ListAlbumPhotos)
	authRouter.GET("/photos", photoHandlers.ListUserPhotos)
	authRouter.GET("/photos/:id", photoHandlers.Get)
	authRouter.PUT("/photos/:id", photoHandlers.Update)
	authRouter.DELETE("/photos/:id", photoHandlers.Delete)
	authRouter.GET("/photos/:id/file", photoHandlers.Fetch)

	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	logrus.Fatalf("Server stopped: %v", err)
}
