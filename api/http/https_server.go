package http

import (
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/config"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/initial"
	jwtMiddleware "github.com/phil-pk-hobbies/Assistant-Backend/internal/middleware/jwt"
	assistantService "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/application/service"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/infrastructure/openaiapi"
	assistantPersistence "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/infrastructure/persistence"
	assistantHandler "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/interface/http"
	chatService "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/application/service"
	chatPersistence "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/infrastructure/persistence"
	chatHandler "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/interface/http"
	orgService "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/org/application/service"
	orgPersistence "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/org/infrastructure/persistence"
	orgHandler "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/org/interface/http"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/application/service"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/infrastructure/persistence"
	userHandler "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/interface/http"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/ssl"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var GE *gin.Engine

func init() {
	GE = gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	GE.Use(cors.New(corsConfig))
	GE.Use(ssl.TlsHandler(config.GetConfig().MainConfig.Host, config.GetConfig().MainConfig.Port))

	userRepo := persistence.NewUserInfoRepository(initial.GormDB)
	deptRepo := orgPersistence.NewDepartmentRepository(initial.GormDB)
	assistantRepo := assistantPersistence.NewAssistantRepository(initial.GormDB)
	accessRepo := assistantPersistence.NewAccessRepository(initial.GormDB)
	messageRepo := assistantPersistence.NewMessageRepository(initial.GormDB)
	threadRepo := chatPersistence.NewThreadRepository(initial.GormDB)
	threadFileRepo := chatPersistence.NewThreadFileRepository(initial.GormDB)
	gateway := openaiapi.NewOpenaiGateway(&config.GetConfig().OpenaiConfig)

	userSvc := service.NewUserInfoService(userRepo)
	deptSvc := orgService.NewDepartmentService(deptRepo)
	accessSvc := assistantService.NewAccessService(assistantRepo, accessRepo)
	sharingSvc := assistantService.NewSharingService(assistantRepo, accessRepo, userRepo, deptRepo)
	assistantSvc := assistantService.NewAssistantService(assistantRepo, messageRepo, threadRepo, gateway, accessSvc)
	chatSvc := chatService.NewChatService(threadRepo, threadFileRepo, assistantRepo, messageRepo, gateway, accessSvc)

	userH := userHandler.NewUserInfoHandler(userSvc)
	deptH := orgHandler.NewDepartmentHandler(deptSvc, userRepo)
	assistantH := assistantHandler.NewAssistantHandler(assistantSvc, sharingSvc, userRepo)
	chatH := chatHandler.NewChatHandler(chatSvc, userRepo)

	GE.POST("/login", userH.Login)
	GE.POST("/register", userH.Register)

	authed := GE.Group("/api")
	authed.Use(jwtMiddleware.Auth())
	authed.GET("/users/me", userH.Me)

	authed.GET("/departments", deptH.List)
	authed.POST("/departments", deptH.Create)
	authed.GET("/departments/:id", deptH.Get)
	authed.PUT("/departments/:id", deptH.Update)
	authed.DELETE("/departments/:id", deptH.Delete)

	authed.GET("/assistants", assistantH.List)
	authed.POST("/assistants", assistantH.Create)
	authed.GET("/assistants/:id", assistantH.Get)
	authed.PATCH("/assistants/:id", assistantH.Update)
	authed.DELETE("/assistants/:id", assistantH.Delete)
	authed.GET("/messages", assistantH.Messages)

	authed.POST("/assistants/:id/chat", chatH.Chat)
	authed.POST("/assistants/:id/reset", chatH.Reset)
	authed.POST("/assistants/:id/thread/files", chatH.UploadThreadFile)
	authed.GET("/assistants/:id/thread/files", chatH.ListThreadFiles)

	authed.GET("/assistants/:id/vector-store", assistantH.VectorStore)
	authed.GET("/assistants/:id/vector-store/files", assistantH.VectorStoreFiles)
	authed.DELETE("/assistants/:id/vector-store/files/:file_id", assistantH.DeleteVectorStoreFile)

	authed.GET("/assistants/:id/shares/users", assistantH.ListUserShares)
	authed.POST("/assistants/:id/shares/users", assistantH.CreateUserShare)
	authed.DELETE("/assistants/:id/shares/users/:user_id", assistantH.DeleteUserShare)
	authed.GET("/assistants/:id/shares/departments", assistantH.ListDepartmentShares)
	authed.POST("/assistants/:id/shares/departments", assistantH.CreateDepartmentShare)
	authed.DELETE("/assistants/:id/shares/departments/:department_id", assistantH.DeleteDepartmentShare)
}
