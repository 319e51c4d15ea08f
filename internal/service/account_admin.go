package service

import (
	"context"

	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/model"
	"github.com/user/yamdb/internal/validation"
)

// AccountInput 管理员创建账号的参数
type AccountInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

// AccountPatch 部分更新，nil 表示不修改
type AccountPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// CreateAccount 管理员直接创建账号（不发送确认码）
func (s *AccountService) CreateAccount(ctx context.Context, in AccountInput) (*model.User, error) {
	if err := validation.ValidateAccountFields(in.Username, in.Email, s.opts.Limits); err != nil {
		return nil, err
	}
	if err := s.validateProfile(in.FirstName, in.LastName); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	if !model.ValidRole(in.Role) {
		return nil, apperr.Validation(apperr.InvalidRole, "role", "角色必须是 user、moderator 或 admin")
	}

	unlock, err := s.locker.Lock(ctx, "signup:"+in.Username)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.store.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Email == in.Email {
			return nil, apperr.Conflict(apperr.AccountExists, "该用户已存在")
		}
		return nil, apperr.Conflict(apperr.UsernameTaken, "该用户名已被注册")
	}
	other, err := s.store.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if other != nil {
		return nil, apperr.Conflict(apperr.EmailTaken, "该邮箱已被注册")
	}

	return s.store.Upsert(ctx, &model.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      in.Role,
	})
}

// UpdateAccount 修改资料。allowRole 为 false 时（个人资料路径）忽略角色修改
func (s *AccountService) UpdateAccount(ctx context.Context, u *model.User, patch AccountPatch, allowRole bool) (*model.User, error) {
	updated := *u

	if patch.Username != nil && *patch.Username != u.Username {
		if err := validation.ValidateUsername(*patch.Username, s.opts.Limits); err != nil {
			return nil, err
		}
		other, err := s.store.FindByUsername(ctx, *patch.Username)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != u.ID {
			return nil, apperr.Conflict(apperr.UsernameTaken, "该用户名已被注册")
		}
		updated.Username = *patch.Username
	}
	if patch.Email != nil && *patch.Email != u.Email {
		if err := validation.ValidateEmail(*patch.Email, s.opts.Limits); err != nil {
			return nil, err
		}
		other, err := s.store.FindByEmail(ctx, *patch.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != u.ID {
			return nil, apperr.Conflict(apperr.EmailTaken, "该邮箱已被其他账号使用")
		}
		updated.Email = *patch.Email
	}
	if patch.FirstName != nil {
		updated.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		updated.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		updated.Bio = *patch.Bio
	}
	if err := s.validateProfile(updated.FirstName, updated.LastName); err != nil {
		return nil, err
	}
	if allowRole && patch.Role != nil {
		if !model.ValidRole(*patch.Role) {
			return nil, apperr.Validation(apperr.InvalidRole, "role", "角色必须是 user、moderator 或 admin")
		}
		updated.Role = *patch.Role
	}

	if err := s.store.Save(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAccount 删除账号，其评论和回复级联删除
func (s *AccountService) DeleteAccount(ctx context.Context, username string) error {
	u, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.NotFound("user", username)
	}
	return s.store.Delete(ctx, u.ID)
}

func (s *AccountService) validateProfile(firstName, lastName string) error {
	if err := validation.ValidatePersonName("first_name", firstName, s.opts.Limits); err != nil {
		return err
	}
	return validation.ValidatePersonName("last_name", lastName, s.opts.Limits)
}
