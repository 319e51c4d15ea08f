package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/logging"
	"github.com/user/yamdb/internal/model"
	"github.com/user/yamdb/internal/validation"
)

const confirmationSubject = "Подтверждение регистрации"

// IdentityStore 账号存储。查询不到时返回 (nil, nil)
type IdentityStore interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Upsert(ctx context.Context, u *model.User) (*model.User, error)
	Save(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uint) error
}

// TokenIssuer 签发访问令牌
type TokenIssuer interface {
	Issue(u *model.User) (string, error)
}

// AccountOptions 注册流程参数
type AccountOptions struct {
	Codes       CodeGenerator
	Limits      validation.Limits
	CodeTTL     time.Duration
	HashCost    int
	MailFrom    string
	SendTimeout time.Duration
}

// SignupResult 注册成功后返回提交的用户名和邮箱
type SignupResult struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AccountService 注册与换取 Token 的两阶段流程
type AccountService struct {
	store  IdentityStore
	sender NotificationSender
	issuer TokenIssuer
	locker Locker
	opts   AccountOptions
	now    func() time.Time

	wg sync.WaitGroup
}

// NewAccountService 创建账号服务
func NewAccountService(store IdentityStore, sender NotificationSender, issuer TokenIssuer, locker Locker, opts AccountOptions) *AccountService {
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}
	return &AccountService{
		store:  store,
		sender: sender,
		issuer: issuer,
		locker: locker,
		opts:   opts,
		now:    time.Now,
	}
}

// Signup 注册或重新获取确认码。
// 同一 (username, email) 重复提交会重新生成确认码并覆盖旧码。
func (s *AccountService) Signup(ctx context.Context, username, email string) (*SignupResult, error) {
	if err := validation.ValidateAccountFields(username, email, s.opts.Limits); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, "signup:"+username)
	if err != nil {
		return nil, fmt.Errorf("lock account %q: %w", username, err)
	}
	defer unlock()

	account, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if account != nil {
		if account.Email != email {
			return nil, apperr.Conflict(apperr.UsernameTaken, "该用户名已被注册")
		}
	} else {
		other, err := s.store.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, apperr.Conflict(apperr.EmailTaken, "该邮箱已被注册")
		}
		account = &model.User{Username: username, Email: email, Role: model.RoleUser}
	}

	code, err := s.opts.Codes.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}
	hash, err := hashCode(code, s.opts.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}

	issuedAt := s.now()
	account.ConfirmationCode = &hash
	account.CodeIssuedAt = &issuedAt
	account.ConfirmedAt = nil

	if _, err := s.store.Upsert(ctx, account); err != nil {
		return nil, err
	}

	s.notify(ctx, Notification{
		From:      s.opts.MailFrom,
		To:        email,
		Subject:   confirmationSubject,
		Body:      code,
		CreatedAt: issuedAt,
	})

	return &SignupResult{Username: username, Email: email}, nil
}

// Token 用确认码换取访问令牌。确认码使用后不作废，直到下一次注册覆盖。
func (s *AccountService) Token(ctx context.Context, username, code string) (string, error) {
	if username == "" {
		return "", apperr.Validation(apperr.Required, "username", "用户名不能为空")
	}

	account, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", apperr.NotFound("user", username)
	}
	if err := validation.ValidateConfirmationCode(code, s.opts.Limits); err != nil {
		return "", err
	}

	if account.ConfirmationCode == nil || !matchCode(*account.ConfirmationCode, code) {
		return "", apperr.Validation(apperr.BadCode, "confirmation_code", "确认码错误")
	}
	if s.opts.CodeTTL > 0 && account.CodeIssuedAt != nil && s.now().After(account.CodeIssuedAt.Add(s.opts.CodeTTL)) {
		return "", apperr.Validation(apperr.CodeExpired, "confirmation_code", "确认码已过期，请重新注册获取")
	}

	if account.ConfirmedAt == nil {
		now := s.now()
		account.ConfirmedAt = &now
		if _, err := s.store.Upsert(ctx, account); err != nil {
			return "", err
		}
	}

	return s.issuer.Issue(account)
}

// Wait 等待尚未完成的通知发送（优雅退出和测试使用）
func (s *AccountService) Wait() {
	s.wg.Wait()
}

// notify 尽力而为：异步发送，失败只记录日志
func (s *AccountService) notify(ctx context.Context, n Notification) {
	logger := logging.FromContext(ctx)
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
		defer cancel()
		if err := s.sender.Send(ctx, n); err != nil {
			logger.Warn("发送确认码失败", slog.String("to", n.To), slog.Any("error", err))
		}
	}()
}
