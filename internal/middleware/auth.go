package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/yamdb/internal/logging"
	"github.com/user/yamdb/internal/model"
	"github.com/user/yamdb/internal/permission"
	"github.com/user/yamdb/internal/utils"
)

const (
	actorKey = "actor"
	userKey  = "user"
)

// Claims JWT 声明
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer 签发 HS256 访问令牌
type TokenIssuer struct {
	Secret string
	Expiry time.Duration
}

// Issue 为账号签发访问令牌
func (t TokenIssuer) Issue(u *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.Secret))
}

// Parse 校验并解析令牌
func (t TokenIssuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(t.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// UserLoader 按 ID 读取账号，不存在时返回 (nil, nil)
type UserLoader interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// Authenticate 解析 Authorization 头。
// 没有令牌按匿名处理；令牌无效或账号已删除返回 401。
// 角色以数据库为准，令牌中的角色仅供参考。
func Authenticate(issuer TokenIssuer, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Set(actorKey, permission.AnonymousActor())
			c.Next()
			return
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			msg := "令牌无效"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "令牌已过期"
			}
			utils.Unauthorized(c, msg)
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logging.FromContext(c.Request.Context()).Error("读取令牌用户失败", "error", err)
			utils.InternalServerError(c, "")
			return
		}
		if user == nil {
			utils.Unauthorized(c, "账号不存在")
			return
		}

		SetIdentity(c, user)
		c.Next()
	}
}

// RequireAuth 必须登录
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetActor(c).IsAnonymous() {
			utils.Unauthorized(c, "")
			return
		}
		c.Next()
	}
}

// Permit 与作者无关的操作（目录写入、账号管理）在路由层直接判定
func Permit(kind permission.ResourceKind, action permission.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if permission.Authorize(permission.Operation{Actor: actor, Action: action, Kind: kind}) {
			c.Next()
			return
		}
		if actor.IsAnonymous() {
			utils.Unauthorized(c, "")
			return
		}
		utils.Forbidden(c, "")
	}
}

// SetIdentity 写入当前账号及其操作者身份
func SetIdentity(c *gin.Context, user *model.User) {
	c.Set(userKey, user)
	c.Set(actorKey, permission.NewActor(user.ID, user.Role, user.IsSuperuser))
}

// GetActor 从上下文获取操作者（未经过 Authenticate 视为匿名）
func GetActor(c *gin.Context) permission.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(permission.Actor); ok {
			return actor
		}
	}
	return permission.AnonymousActor()
}

// GetUser 从上下文获取当前账号（未登录返回 nil）
func GetUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	for _, prefix := range []string{"Bearer ", "bearer "} {
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, prefix))
		}
	}
	return ""
}
