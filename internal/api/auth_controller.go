package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pizzapoint/server/internal/models"
)

// AuthController управляет входом в админ-консоль
type AuthController struct {
	db     *gorm.DB
	secret string
}

// NewAuthController создает контроллер авторизации
func NewAuthController(db *gorm.DB, secret string) *AuthController {
	return &AuthController{db: db, secret: secret}
}

// LoginRequest представляет запрос на вход админа
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse представляет ответ на вход админа
type LoginResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expires_at"`
}

// Login обрабатывает вход админа
// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Неверные параметры запроса",
			"details": err.Error(),
		})
		return
	}

	if ac.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable"})
		return
	}

	// Ищем админа по username
	var admin models.AdminUser
	if err := ac.db.Where("username = ? AND is_active = ?", req.Username, true).First(&admin).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Неверный логин или пароль"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка проверки учетных данных"})
		return
	}

	// Проверяем пароль
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Неверный логин или пароль"})
		return
	}

	// Обновляем время последнего входа
	now := time.Now()
	admin.LastLoginAt = &now
	ac.db.Save(&admin)

	c.JSON(http.StatusOK, LoginResponse{
		Token:     ac.generateToken(admin.ID),
		UserID:    admin.ID,
		Username:  admin.Username,
		ExpiresAt: time.Now().Add(tokenTTL).Unix(),
	})
}

// RequireAuth - middleware, проверяющее токен админ-консоли
func (ac *AuthController) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || !ac.validateToken(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Требуется авторизация"})
			return
		}
		c.Next()
	}
}

// Срок жизни токена админ-консоли
const tokenTTL = 24 * time.Hour

// generateToken генерирует подписанный токен (упрощенная версия, без JWT)
func (ac *AuthController) generateToken(adminID string) string {
	payload := adminID + "." + time.Now().UTC().Format("20060102150405")
	return payload + "." + ac.sign(payload)
}

// validateToken проверяет подпись токена и срок его жизни
func (ac *AuthController) validateToken(token string) bool {
	idx := strings.LastIndex(token, ".")
	if idx < 0 {
		return false
	}
	payload, sig := token[:idx], token[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(ac.sign(payload))) {
		return false
	}

	// Метка выдачи - последний сегмент payload
	tsIdx := strings.LastIndex(payload, ".")
	if tsIdx < 0 {
		return false
	}
	issuedAt, err := time.Parse("20060102150405", payload[tsIdx+1:])
	if err != nil {
		return false
	}
	return time.Now().UTC().Sub(issuedAt) <= tokenTTL
}

func (ac *AuthController) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(ac.secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
