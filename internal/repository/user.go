package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID 根据 ID 查找用户
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByUsername 根据用户名查找用户
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.first(ctx, "username = ?", username)
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert 注册时写入确认码。
// 新用户依赖 username 唯一索引做 upsert，只有邮箱一致时才覆盖已有记录。
func (r *UserRepository) Upsert(ctx context.Context, u *model.User) (*model.User, error) {
	u.UpdatedAt = time.Now()
	db := r.db.WithContext(ctx)

	if u.ID != 0 {
		res := db.Model(&model.User{}).
			Where("id = ? AND email = ?", u.ID, u.Email).
			Updates(map[string]interface{}{
				"confirmation_code": u.ConfirmationCode,
				"code_issued_at":    u.CodeIssuedAt,
				"confirmed_at":      u.ConfirmedAt,
				"updated_at":        u.UpdatedAt,
			})
		if res.Error != nil {
			return nil, translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, apperr.Conflict(apperr.UsernameTaken, "该用户名已被注册")
		}
		return u, nil
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = u.UpdatedAt
	}
	res := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "username"}},
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Table: "users", Name: "email"}, Value: u.Email},
		}},
		DoUpdates: clause.AssignmentColumns([]string{"confirmation_code", "code_issued_at", "confirmed_at", "updated_at"}),
	}).Create(u)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflict(apperr.UsernameTaken, "该用户名已被注册")
	}
	return u, nil
}

// Save 按主键更新资料
func (r *UserRepository) Save(ctx context.Context, u *model.User) error {
	u.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Model(&model.User{ID: u.ID}).
		Select("username", "email", "first_name", "last_name", "bio", "role",
			"confirmation_code", "code_issued_at", "confirmed_at", "updated_at").
		Updates(u).Error
	return translate(err)
}

// List 用户列表，search 按用户名模糊匹配
func (r *UserRepository) List(ctx context.Context, search string, limit, offset int) ([]*model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("username ILIKE ?", "%"+escapeLike(search)+"%")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var users []*model.User
	err := q.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error
	return users, count, err
}

// Delete 删除用户
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}

// ClearExpiredCodes 清除签发时间早于 before 的确认码
func (r *UserRepository) ClearExpiredCodes(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("confirmation_code IS NOT NULL AND code_issued_at < ?", before).
		Updates(map[string]interface{}{
			"confirmation_code": nil,
			"code_issued_at":    nil,
		})
	return res.RowsAffected, res.Error
}

// translate 将唯一约束冲突转换为业务错误
func translate(err error) error {
	if err == nil || !isUniqueViolation(err) {
		return err
	}
	name := constraintName(err)
	switch {
	case strings.Contains(name, "email"):
		return apperr.Conflict(apperr.EmailTaken, "该邮箱已被注册")
	case strings.Contains(name, "username"):
		return apperr.Conflict(apperr.UsernameTaken, "该用户名已被注册")
	case strings.Contains(name, "slug"):
		return apperr.Conflict(apperr.SlugTaken, "该 slug 已存在")
	default:
		return apperr.Conflict(apperr.Duplicate, "记录已存在")
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
