package initial

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/config"
	assistantEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
	chatEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/domain/entity"
	orgEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/org/domain/entity"
	userEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/zlog"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var GormDB *gorm.DB

func init() {
	conf := config.GetConfig()
	user := conf.MysqlConfig.User
	password := conf.MysqlConfig.Password
	host := conf.MysqlConfig.Host
	port := conf.MysqlConfig.Port
	dbName := conf.MysqlConfig.DatabaseName
	if dbName == "" {
		dbName = conf.AppName
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local", user, password, host, port, dbName)
	var err error
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	// TranslateError 把驱动的唯一键冲突翻译成 gorm.ErrDuplicatedKey，供服务层识别
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		zlog.Fatal(err.Error())
	}
	// 自动迁移，如果没有建表，会自动创建对应的表
	err = GormDB.AutoMigrate(
		&orgEntity.Department{},
		&userEntity.UserInfo{},

		&assistantEntity.Assistant{},
		&assistantEntity.Message{},
		&assistantEntity.AssistantUserAccess{},
		&assistantEntity.AssistantDepartmentAccess{},
		&assistantEntity.AssistantFile{},

		&chatEntity.Thread{},
		&chatEntity.ThreadFile{},
	)
	if err != nil {
		zlog.Fatal(err.Error())
	}
}
