package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	v1 "forumhub/api/v1"
	"forumhub/config"
	"forumhub/dao"
	"forumhub/internal/auth"
	"forumhub/internal/cache"
	"forumhub/internal/github"
	myvalidator "forumhub/internal/validator"
	"forumhub/middleware"
	"forumhub/model"
	"forumhub/service"
)

func main() {
	// 初始化配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../"
	}
	config.InitConfig(configPath)
	config.InitRedis()

	// 初始化数据库
	db, err := gorm.Open(mysql.Open(config.GlobalConfig.MySQL.DSN), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// 自动迁移
	if err := db.AutoMigrate(
		&model.User{},
		&model.Topic{},
		&model.Reply{},
		&model.UserFollow{},
		&model.TopicFavorite{},
		&model.AccessToken{},
		&model.Notification{},
	); err != nil {
		panic(err)
	}

	// 初始化 DAO
	userDAO := dao.NewUserDAO(db)
	topicDAO := dao.NewTopicDAO(db)
	replyDAO := dao.NewReplyDAO(db)
	followDAO := dao.NewFollowDAO(db)
	favoriteDAO := dao.NewFavoriteDAO(db)
	tokenDAO := dao.NewAccessTokenDAO(db)
	notificationDAO := dao.NewNotificationDAO(db)

	// 初始化 Service
	session := auth.NewSessionManager(config.RedisClient)
	userService := service.NewUserService(userDAO, tokenDAO, session)
	avatarService := service.NewAvatarService(userDAO, config.GlobalConfig.Avatar.Dir, config.GlobalConfig.Avatar.MaxSize)
	reader := github.NewHTTPReader(config.GlobalConfig.Github.APIBase)
	githubService := service.NewGithubService(
		userDAO,
		cache.NewRedisStore(config.RedisClient),
		reader,
		avatarService,
		config.GlobalConfig.Github.CacheTTLMinutes,
	)
	followService := service.NewFollowService(userDAO, followDAO, service.NewFollowerNotifier(notificationDAO))
	favoriteService := service.NewFavoriteService(topicDAO, favoriteDAO)

	authAPI := v1.NewAuthAPI(userService)
	userAPI := v1.NewUserAPI(userService, avatarService, githubService, followService, favoriteService, topicDAO, replyDAO, followDAO)

	// 初始化路由
	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static(config.GlobalConfig.Avatar.PublicDir, config.GlobalConfig.Avatar.Dir)

	// 注册自定义校验器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("username", myvalidator.IsUsername); err != nil {
			panic(err)
		}
	}

	// 公共路由
	public := r.Group("/api/v1")
	{
		public.POST("/users/register", authAPI.Register)
		loginLimiter := middleware.RateLimiter(config.RedisClient, "login", 5, time.Minute)
		public.POST("/users/login", loginLimiter, authAPI.Login)
		public.POST("/users/refresh", authAPI.RefreshToken)

		public.GET("/users", userAPI.Index)
		public.GET("/users/:id", userAPI.Show)
		public.GET("/users/:id/topics", userAPI.Topics)
		public.GET("/users/:id/replies", userAPI.Replies)
		public.GET("/users/:id/favorites", userAPI.Favorites)
		public.GET("/users/:id/following", userAPI.Following)
		public.GET("/github_api_proxy/users/:username", userAPI.GithubProxy)
	}

	// 私有路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(session))
	{
		private.POST("/users/logout", authAPI.Logout)

		private.GET("/users/:id/edit", userAPI.Edit)
		private.PUT("/users/:id", userAPI.Update)
		private.GET("/users/:id/avatar/edit", userAPI.EditAvatar)
		avatarLimiter := middleware.RateLimiter(config.RedisClient, "avatar", 10, time.Minute)
		private.POST("/users/:id/avatar", avatarLimiter, userAPI.UpdateAvatar)
		private.POST("/users/:id/follow", userAPI.Follow)
		private.POST("/topics/:id/favorite", userAPI.FavoriteTopic)
		private.POST("/users/:id/blocking", userAPI.Blocking)
		private.POST("/users/:id/refresh_cache", userAPI.RefreshCache)
		private.POST("/users/login_token/regenerate", userAPI.RegenerateLoginToken)
		private.GET("/users/:id/access_tokens", userAPI.AccessTokens)
		private.POST("/users/:id/access_tokens/:token/revoke", userAPI.RevokeAccessToken)
	}

	// 启动服务
	if err := r.Run(config.GlobalConfig.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
