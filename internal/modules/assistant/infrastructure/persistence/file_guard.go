package persistence

import (
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/assistant/domain/entity"
	chatEntity "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/chat/domain/entity"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssertFileIDUnique 校验远端 file_id 在助手文件与会话文件两个作用域内都未被占用。
// 必须在写入同一事务内调用；lock 为真时对命中行加 FOR UPDATE，
// 串住并发写入直到本事务提交。sqlite 不支持行锁，写入本身串行化，跳过
func AssertFileIDUnique(tx *gorm.DB, fileID string, lock bool) error {
	useLock := lock && tx.Dialector.Name() != "sqlite"

	q := tx.Model(&entity.AssistantFile{}).Select("id").Where("file_id = ?", fileID).Limit(1)
	if useLock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var assistantIds []string
	if err := q.Find(&assistantIds).Error; err != nil {
		return err
	}
	if len(assistantIds) > 0 {
		return xerr.Validation("duplicate_in_other_scope")
	}

	q = tx.Model(&chatEntity.ThreadFile{}).Select("id").Where("file_id = ?", fileID).Limit(1)
	if useLock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var threadIds []int64
	if err := q.Find(&threadIds).Error; err != nil {
		return err
	}
	if len(threadIds) > 0 {
		return xerr.Validation("duplicate_in_other_scope")
	}
	return nil
}
