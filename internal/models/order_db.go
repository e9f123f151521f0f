package models

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OrderRecord - строка заказа в PostgreSQL (роль документного хранилища
// для удаленного Order API). Items хранится как сериализованный JSON:
// структура состава нам в SQL не нужна.
type OrderRecord struct {
	ID        string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(200);not null"`
	Phone     string    `json:"phone" gorm:"type:varchar(50);not null"`
	Address   string    `json:"address" gorm:"type:text"`
	OrderType string    `json:"orderType" gorm:"type:varchar(20);default:delivery"`
	Items     string    `json:"-" gorm:"type:text;not null"` // JSON массив строк заказа
	Total     float64   `json:"total" gorm:"not null"`
	Status    string    `json:"status" gorm:"type:varchar(20);default:pending;index:idx_orders_status"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index:idx_orders_created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (OrderRecord) TableName() string {
	return "orders"
}

// BeforeCreate генерирует UUID
func (or *OrderRecord) BeforeCreate(tx *gorm.DB) error {
	if or.ID == "" {
		or.ID = uuid.New().String()
	}
	return nil
}

// DecodeItems парсит JSON состава заказа
func (or *OrderRecord) DecodeItems() ([]CartLineItem, error) {
	var items []CartLineItem
	if or.Items == "" {
		return items, nil
	}
	err := json.Unmarshal([]byte(or.Items), &items)
	return items, err
}

// AdminUser - администратор консоли
type AdminUser struct {
	ID           string     `json:"id" gorm:"type:uuid;primaryKey"`
	Username     string     `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255);not null"` // Хеш пароля (не возвращается в JSON)
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt  *time.Time `json:"last_login_at" gorm:"type:timestamp"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

// BeforeCreate генерирует UUID
func (au *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if au.ID == "" {
		au.ID = uuid.New().String()
	}
	return nil
}

// AutoMigrate создает таблицы в БД
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&OrderRecord{}); err != nil {
		log.Printf("❌ AutoMigrate для OrderRecord failed: %v", err)
		return err
	}
	log.Println("✅ Orders table migrated successfully")

	if err := db.AutoMigrate(&AdminUser{}); err != nil {
		log.Printf("❌ AutoMigrate для AdminUser failed: %v", err)
		return err
	}
	log.Println("✅ AdminUser table migrated successfully")

	return nil
}

// InitDefaultData создает дефолтного админа, если его еще нет
func InitDefaultData(db *gorm.DB) error {
	var existingAdmin AdminUser
	result := db.Where("username = ?", "admin").First(&existingAdmin)
	if result.Error == nil {
		return nil // Админ уже существует
	}
	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := AdminUser{
		Username:     "admin",
		PasswordHash: string(passwordHash),
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Создан дефолтный админ: username=admin, password=admin (смените в продакшене)")
	return nil
}
