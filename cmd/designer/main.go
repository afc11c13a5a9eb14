package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxel-designer/internal/config"
	"github.com/annel0/voxel-designer/internal/editor"
	"github.com/annel0/voxel-designer/internal/eventbus"
	"github.com/annel0/voxel-designer/internal/logging"
	"github.com/annel0/voxel-designer/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации")
	loadName := flag.String("load", "", "имя структуры для загрузки при старте")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("designer"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🧱 Запуск редактора воксельных структур...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка чтения конфигурации: %v", err)
		log.Fatalf("❌ Ошибка чтения конфигурации: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	// === ХРАНИЛИЩЕ СТРУКТУР ===
	repo, err := buildStructureRepo(&cfg.Storage)
	if err != nil {
		logging.Error("❌ Ошибка инициализации хранилища: %v", err)
		log.Fatalf("❌ Ошибка инициализации хранилища: %v", err)
	}
	defer repo.Close()
	logging.Info("💾 Хранилище структур: %s", cfg.Storage.GetBackend())

	// === ШИНА СОБЫТИЙ ===
	bus := buildEventBus(&cfg.EventBus)
	eventbus.Init(bus)
	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("Слушатель событий не запущен: %v", err)
	}

	// === СЕССИЯ РЕДАКТОРА ===
	sessionCfg := buildSessionConfig(&cfg.Editor)
	session := editor.NewSession(sessionCfg, nil, repo, bus)

	ctx := context.Background()
	session.Start(ctx)
	defer session.End(ctx)

	if *loadName != "" {
		if err := session.LoadStructure(ctx, *loadName); err != nil {
			logging.Error("Загрузка структуры %s не удалась: %v", *loadName, err)
		}
	}

	// === МЕТРИКИ ===
	exporter := editor.NewMetricsExporter(session)
	exporter.StartHTTP(fmt.Sprintf(":%d", cfg.Metrics.GetMetricsPort()))
	defer exporter.Stop()

	// Ожидаем сигнал завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logging.Info("🛑 Получен сигнал завершения, закрываем сессию...")
}

// buildStructureRepo выбирает бэкенд хранилища по конфигурации.
// Недоступный внешний бэкенд — фатальная ошибка запуска, а не тихий
// переход на память: пользователь должен знать, куда пишутся данные.
func buildStructureRepo(cfg *config.StorageConfig) (storage.StructureRepo, error) {
	switch cfg.GetBackend() {
	case "memory":
		return storage.NewMemoryStructureRepo(), nil
	case "badger":
		return storage.NewBadgerStructureRepo(cfg.GetDataPath())
	case "maria":
		return storage.NewMariaStructureRepo(cfg.MariaDSN)
	case "redis":
		redisCfg := storage.DefaultRedisConfig()
		if cfg.RedisAddr != "" {
			redisCfg.Addr = cfg.RedisAddr
		}
		return storage.NewRedisStructureRepo(redisCfg)
	case "mongo":
		db := cfg.MongoDB
		if db == "" {
			db = "blockverse"
		}
		return storage.NewMongoStructureRepo(storage.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   db,
			Collection: "structures",
		})
	default:
		return nil, fmt.Errorf("неизвестный бэкенд хранилища: %s", cfg.GetBackend())
	}
}

// buildEventBus подключает NATS JetStream, если он настроен;
// иначе — in-memory шина.
func buildEventBus(cfg *config.EventBusConfig) eventbus.EventBus {
	if cfg.URL == "" {
		return eventbus.NewMemoryBus(256)
	}

	retention := time.Duration(cfg.Retention) * time.Hour
	if retention == 0 {
		retention = 24 * time.Hour
	}
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, retention)
	if err != nil {
		logging.Warn("NATS недоступен (%v), используем in-memory шину", err)
		return eventbus.NewMemoryBus(256)
	}
	logging.Info("📡 Шина событий: NATS JetStream %s", cfg.URL)
	return bus
}

// buildSessionConfig переносит YAML-настройки в параметры сессии,
// оставляя дефолты для незаданных полей.
func buildSessionConfig(cfg *config.EditorConfig) editor.SessionConfig {
	sc := editor.DefaultSessionConfig()
	if cfg.HistoryCapacity > 0 {
		sc.HistoryCapacity = cfg.HistoryCapacity
	}
	if cfg.VerticalStepPx > 0 {
		sc.VerticalStepPx = cfg.VerticalStepPx
	}

	cam := &sc.Camera
	if cfg.Camera.DefaultYaw != 0 {
		cam.DefaultYaw = cfg.Camera.DefaultYaw
	}
	if cfg.Camera.DefaultPitch != 0 {
		cam.DefaultPitch = cfg.Camera.DefaultPitch
	}
	if cfg.Camera.DefaultDistance != 0 {
		cam.DefaultDistance = cfg.Camera.DefaultDistance
	}
	if cfg.Camera.MinPitch != 0 {
		cam.MinPitch = cfg.Camera.MinPitch
	}
	if cfg.Camera.MaxPitch != 0 {
		cam.MaxPitch = cfg.Camera.MaxPitch
	}
	if cfg.Camera.MinDistance != 0 {
		cam.MinDistance = cfg.Camera.MinDistance
	}
	if cfg.Camera.MaxDistance != 0 {
		cam.MaxDistance = cfg.Camera.MaxDistance
	}
	return sc
}
