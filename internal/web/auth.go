package web

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"sudooom.codex.logic/internal/web/response"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

const (
	tokenIssuer   = "codex-logic"
	playerKey     = "player"
	defaultExpire = 24 * time.Hour
)

// Claims 玩家 token，sub 为玩家名称，Game 为签发时所在的游戏
type Claims struct {
	Game string `json:"game"`
	jwt.RegisteredClaims
}

// Token 签发给玩家的凭证
type Token struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// TokenService HS256 玩家 token
type TokenService struct {
	secretKey []byte
	expire    time.Duration
}

// NewTokenService 创建 token 服务
func NewTokenService(secret string, expire time.Duration) *TokenService {
	if expire <= 0 {
		expire = defaultExpire
	}
	return &TokenService{secretKey: []byte(secret), expire: expire}
}

// Issue 为玩家签发 token
func (s *TokenService) Issue(game, player string) (Token, error) {
	now := time.Now()
	expiresAt := now.Add(s.expire)
	claims := &Claims{
		Game: game,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   player,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, ExpiresAt: expiresAt.Unix()}, nil
}

// Validate 校验 token 并返回声明
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// JWTAuth JWT 认证中间件，通过后在 context 中写入玩家名称
func JWTAuth(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c.GetHeader("Authorization"))
		if raw == "" {
			response.Unauthorized(c, response.CodeTokenInvalid)
			c.Abort()
			return
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			code := response.CodeTokenInvalid
			if errors.Is(err, ErrTokenExpired) {
				code = response.CodeTokenExpired
			}
			response.Unauthorized(c, code)
			c.Abort()
			return
		}

		c.Set(playerKey, claims.Subject)
		c.Next()
	}
}

// extractToken 从 Authorization header 提取 token
func extractToken(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// PlayerFrom 从 context 获取已认证的玩家名称
func PlayerFrom(c *gin.Context) string {
	return c.GetString(playerKey)
}
