package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"pizzapoint/server/internal/api"
	"pizzapoint/server/internal/config"
	"pizzapoint/server/internal/database"
	"pizzapoint/server/internal/models"
	"pizzapoint/server/internal/notify"
	"pizzapoint/server/internal/services"
	"pizzapoint/server/internal/utils"
)

const orderEventsTopic = "orders.created"

func main() {
	// Загружаем переменные окружения из .env файла (если существует)
	// Игнорируем ошибку, если файл не найден (для production окружений)
	if err := godotenv.Load(); err != nil {
		log.Printf("ℹ️ .env файл не найден, используем переменные окружения системы")
	} else {
		log.Printf("✅ Переменные окружения загружены из .env файла")
	}

	// Загрузка конфигурации
	cfg := config.Load()

	// Логируем наличие DATABASE_URL (без пароля)
	if cfg.DatabaseURL != "" {
		safeURL := cfg.DatabaseURL
		if idx := strings.Index(safeURL, "@"); idx > 0 {
			if schemeIdx := strings.Index(safeURL, "://"); schemeIdx > 0 {
				safeURL = safeURL[:schemeIdx+3] + "***@" + safeURL[idx+1:]
			}
		}
		log.Printf("📋 DATABASE_URL установлен: %s", safeURL)
	}

	// Подключение к PostgreSQL
	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Printf("❌ PostgreSQL connection failed: %v", err)
		log.Printf("⚠️ Продолжаем без БД (ограниченная функциональность)")
		db = nil
	} else {
		defer database.ClosePostgres(db)

		// Выполняем миграции
		if err := models.AutoMigrate(db); err != nil {
			log.Printf("❌ Migration failed: %v", err)
			log.Printf("⚠️ Continuing with limited functionality")
		} else {
			log.Println("✅ Database migrations completed")
		}

		// Дефолтный админ для первой настройки
		if err := models.InitDefaultData(db); err != nil {
			log.Printf("⚠️ Default data init failed: %v", err)
		}
	}

	// Подключение к Redis
	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	var redisUtil *utils.RedisClient
	if err != nil {
		log.Printf("⚠️ Redis connection failed: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		redisUtil = utils.NewRedisClient(redisClient)
	}
	defer database.CloseRedis(redisClient)

	// WebSocket Hub для админ-консоли
	hub := api.NewHub()
	go hub.Run()
	log.Println("📱 WebSocket Hub запущен для админ-консоли")

	// Звуковой сигнал о новом заказе (опционально, требует аудиоустройство)
	var chime services.ChimePlayer
	if cfg.ChimeEnabled {
		if c, err := notify.NewChime(); err != nil {
			log.Printf("⚠️ Аудио недоступно, сигнал отключен: %v", err)
		} else {
			chime = c
			log.Println("🔔 Звуковой сигнал о новых заказах включен")
		}
	}

	// Диспетчер уведомлений: звук + сообщение в консоль + событие в Kafka
	dispatcher := services.NewDispatcher(chime, hub, cfg.KafkaBrokers, orderEventsTopic)
	defer dispatcher.Close()

	// Персистентный слот заказов: Redis либо память
	var slot services.OrderSlot
	if redisUtil != nil {
		slot = services.NewRedisOrderSlot(redisUtil)
		log.Println("✅ Слот заказов: Redis")
	} else {
		slot = services.NewMemoryOrderSlot()
		log.Println("⚠️ Слот заказов: in-memory (данные не переживут рестарт)")
	}

	// Клиент удаленного Order API (best-effort репликация)
	var remote services.RemoteOrders
	if cfg.RemoteAPIURL != "" {
		remote = services.NewHTTPRemoteOrders(cfg.RemoteAPIURL)
		log.Printf("📡 Удаленный Order API: %s", cfg.RemoteAPIURL)
	} else {
		log.Println("⚠️ REMOTE_API_URL не установлен, репликация заказов отключена")
	}

	// Стор жизненного цикла заказов
	store := services.NewOrderStore(slot, remote, dispatcher, cfg.SyncInterval)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 15*time.Second)
	store.Load(loadCtx)
	cancelLoad()
	store.StartPeriodicSync()
	defer store.Stop()
	log.Printf("✅ Стор заказов загружен: %d активных заказов", len(store.Orders()))

	// Сервисы витрины и отчетов
	carts := services.NewCartService()
	reports := services.NewReportService(store)

	// Kafka → WebSocket мост для админ-консоли (опционален)
	if cfg.KafkaBrokers != "" {
		consumer := api.NewKafkaWSConsumer(services.ParseBrokers(cfg.KafkaBrokers), orderEventsTopic, hub, redisUtil)
		consumer.Start()
		defer consumer.Stop()
	} else {
		log.Println("⚠️ KAFKA_BROKERS не установлен, Kafka мост отключен")
	}

	// Отключаем логи для бешеной скорости
	gin.SetMode(gin.ReleaseMode)

	// Создаем пустой движок без лишних прослоек
	r := gin.New()

	// Health check endpoint (должен быть до CORS)
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "PizzaPoint Server",
			"version": "1.0.0",
		})
	})

	// Логирование всех запросов
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		log.Printf("🌐 %s %s - Status: %d - Latency: %v", method, path, status, latency)
	})

	// CORS для фронтенда
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	apiGroup := r.Group("/api")

	// Меню витрины
	apiGroup.GET("/menu", api.GetMenu)
	apiGroup.GET("/menu/:id", api.GetMenuItemByID)

	// Корзина (сессия через X-Session-ID или cookie)
	cartController := api.NewCartController(carts, store)
	cartGroup := apiGroup.Group("/cart")
	{
		cartGroup.GET("", cartController.GetCart)
		cartGroup.POST("/items", cartController.AddItem)
		cartGroup.PATCH("/items/:id", cartController.UpdateItemQuantity)
		cartGroup.DELETE("/items/:id", cartController.RemoveItem)
		cartGroup.POST("/toggle", cartController.ToggleCart)
		cartGroup.POST("/close", cartController.CloseCart)
		cartGroup.POST("/checkout", cartController.Checkout)
	}

	// CRUD API заказов (документное хранилище в Postgres)
	orderController := api.NewOrderController(db, redisUtil)
	ordersGroup := apiGroup.Group("/orders")
	{
		ordersGroup.GET("", orderController.GetOrders)
		ordersGroup.POST("", orderController.CreateOrder)
		ordersGroup.PATCH("/:id", orderController.UpdateOrderStatus)
	}

	// Авторизация админ-консоли
	authController := api.NewAuthController(db, cfg.JWTSecret)
	apiGroup.POST("/auth/login", authController.Login)

	// Админ-консоль: лента заказов, статусы, отчеты
	adminController := api.NewAdminController(store, reports)
	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(authController.RequireAuth())
	{
		adminGroup.GET("/orders", adminController.GetOrders)
		adminGroup.GET("/orders/:id", adminController.GetOrder)
		adminGroup.PATCH("/orders/:id/status", adminController.UpdateOrderStatus)
		adminGroup.GET("/dashboard", adminController.GetDashboard)
		adminGroup.GET("/reports", adminController.GetReport)
	}

	// WebSocket для уведомлений консоли
	r.GET("/ws/admin", hub.ServeWS)

	// Запуск сервера с graceful shutdown
	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Printf("🚀 Сервер запущен на порту %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Ошибка запуска сервера: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Останавливаем сервер...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Ошибка остановки сервера: %v", err)
	}
}
