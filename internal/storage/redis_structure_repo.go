package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr      string        // Адрес Redis сервера
	Password  string        // Пароль (пустой если не требуется)
	DB        int           // Номер базы данных
	KeyPrefix string        // Префикс для ключей
	TTL       time.Duration // Время жизни записей (0 — бессрочно)
}

// DefaultRedisConfig возвращает конфигурацию по умолчанию
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:      "localhost:6379",
		Password:  "",
		DB:        0,
		KeyPrefix: "designer:structure:",
		TTL:       0,
	}
}

// RedisStructureRepo хранит структуры в Redis. Подходит, когда
// редактор живёт рядом с игровым сервером и структуры должны быть
// видны обоим без общей файловой системы.
type RedisStructureRepo struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStructureRepo создаёт Redis-репозиторий структур
func NewRedisStructureRepo(config *RedisConfig) (*RedisStructureRepo, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	// Проверяем соединение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}

	return &RedisStructureRepo{
		client:    client,
		keyPrefix: config.KeyPrefix,
		ttl:       config.TTL,
	}, nil
}

func (r *RedisStructureRepo) key(name string) string {
	return r.keyPrefix + name
}

// Save сохраняет структуру как JSON-значение
func (r *RedisStructureRepo) Save(ctx context.Context, rec *StructureRecord) error {
	if rec == nil || rec.Name == "" {
		return fmt.Errorf("недействительная запись структуры")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ошибка сериализации структуры %s: %w", rec.Name, err)
	}

	if err := r.client.Set(ctx, r.key(rec.Name), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка сохранения структуры %s: %w", rec.Name, err)
	}
	return nil
}

// Load загружает структуру по имени
func (r *RedisStructureRepo) Load(ctx context.Context, name string) (*StructureRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("пустое имя структуры")
	}

	data, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err == redis.Nil {
		return nil, ErrStructureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки структуры %s: %w", name, err)
	}

	var rec StructureRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("повреждённая запись структуры %s: %w", name, err)
	}
	return &rec, nil
}

// List сканирует ключи по префиксу и возвращает краткие записи
func (r *RedisStructureRepo) List(ctx context.Context) ([]StructureSummary, error) {
	var summaries []StructureSummary

	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue // Ключ истёк между SCAN и GET
		}
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения ключа %s: %w", iter.Val(), err)
		}
		var rec StructureRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("повреждённая запись %s: %w", iter.Val(), err)
		}
		summaries = append(summaries, rec.Summary())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("ошибка сканирования структур: %w", err)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries, nil
}

// Delete удаляет структуру по имени
func (r *RedisStructureRepo) Delete(ctx context.Context, name string) error {
	deleted, err := r.client.Del(ctx, r.key(name)).Result()
	if err != nil {
		return fmt.Errorf("ошибка удаления структуры %s: %w", name, err)
	}
	if deleted == 0 {
		return ErrStructureNotFound
	}
	return nil
}

// Close закрывает клиент Redis
func (r *RedisStructureRepo) Close() error {
	return r.client.Close()
}
