package persistence

import (
	"context"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/repository"

	"gorm.io/gorm"
)

type assistantRepositoryImpl struct {
	db *gorm.DB
}

// NewAssistantRepository 构造函数
func NewAssistantRepository(db *gorm.DB) repository.AssistantRepository {
	return &assistantRepositoryImpl{db: db}
}

// Create 在同一事务内落库助手与其文件行，文件写入前先过 file_id 全局唯一校验
func (r *assistantRepositoryImpl) Create(ctx context.Context, asst *entity.Assistant, files []entity.AssistantFile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(asst).Error; err != nil {
			return err
		}
		for i := range files {
			if err := AssertFileIDUnique(tx, files[i].FileId, true); err != nil {
				return err
			}
			if err := tx.Create(&files[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *assistantRepositoryImpl) GetByID(ctx context.Context, id string) (*entity.Assistant, error) {
	var asst entity.Assistant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&asst).Error
	if err != nil {
		return nil, err
	}
	return &asst, nil
}

func (r *assistantRepositoryImpl) ListVisible(ctx context.Context, userID int64, departmentID *int64) ([]entity.Assistant, error) {
	var asstList []entity.Assistant
	// 部门为空时 da.department_id = NULL 永假，部门授权分支自然失效
	var deptID int64 = -1
	if departmentID != nil {
		deptID = *departmentID
	}
	err := r.db.WithContext(ctx).Model(&entity.Assistant{}).
		Distinct("assistant.*").
		Joins("LEFT JOIN assistant_user_access ua ON ua.assistant_id = assistant.id AND ua.user_id = ?", userID).
		Joins("LEFT JOIN assistant_department_access da ON da.assistant_id = assistant.id AND da.department_id = ?", deptID).
		Where("assistant.owner_id = ? OR ua.id IS NOT NULL OR da.id IS NOT NULL", userID).
		Order("assistant.created_at DESC").
		Find(&asstList).Error
	if err != nil {
		return nil, err
	}
	return asstList, nil
}

func (r *assistantRepositoryImpl) Update(ctx context.Context, asst *entity.Assistant) error {
	return r.db.WithContext(ctx).Save(asst).Error
}

// Delete 级联清掉授权行与文件行，本地消息由调用方按需处理
func (r *assistantRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.AssistantUserAccess{}, "assistant_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.AssistantDepartmentAccess{}, "assistant_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.AssistantFile{}, "assistant_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Assistant{}, "id = ?", id).Error
	})
}

func (r *assistantRepositoryImpl) AddFiles(ctx context.Context, files []entity.AssistantFile) error {
	if len(files) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range files {
			if err := AssertFileIDUnique(tx, files[i].FileId, true); err != nil {
				return err
			}
			if err := tx.Create(&files[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *assistantRepositoryImpl) DeleteFileByFileID(ctx context.Context, assistantID, fileID string) error {
	return r.db.WithContext(ctx).
		Delete(&entity.AssistantFile{}, "assistant_id = ? AND file_id = ?", assistantID, fileID).Error
}

func (r *assistantRepositoryImpl) ListFiles(ctx context.Context, assistantID string) ([]entity.AssistantFile, error) {
	var files []entity.AssistantFile
	err := r.db.WithContext(ctx).
		Where("assistant_id = ?", assistantID).
		Order("created_at").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}
