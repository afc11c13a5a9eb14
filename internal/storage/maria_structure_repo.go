package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// MariaStructureRepo реализует StructureRepo для базы данных
// MariaDB/MySQL. Использует таблицу structures: метаданные в колонках,
// список блоков — JSON в BLOB.
type MariaStructureRepo struct {
	db *sql.DB
}

// NewMariaStructureRepo создает репозиторий структур для MariaDB.
// Автоматически создает таблицу, если она не существует.
//
// Параметры:
//
//	dsn - строка подключения к базе данных (user:pass@tcp(host:port)/dbname)
//
// Возвращает:
//
//	*MariaStructureRepo - экземпляр репозитория
//	error - ошибка при подключении или создании таблицы
func NewMariaStructureRepo(dsn string) (*MariaStructureRepo, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MariaDB: %w", err)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось проверить соединение с MariaDB: %w", err)
	}

	repo := &MariaStructureRepo{db: db}

	// Создаем таблицу, если она не существует
	if err := repo.createTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать таблицу: %w", err)
	}

	return repo, nil
}

// createTable создает таблицу structures, если она не существует.
func (r *MariaStructureRepo) createTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS structures (
			name        VARCHAR(128) PRIMARY KEY,
			id          CHAR(36)     NOT NULL,
			created_at  TIMESTAMP    NOT NULL,
			block_count INT          NOT NULL,
			data        MEDIUMBLOB   NOT NULL,
			INDEX idx_created_at (created_at)
		) ENGINE=InnoDB
	`

	_, err := r.db.Exec(query)
	if err != nil {
		return fmt.Errorf("ошибка создания таблицы structures: %w", err)
	}

	return nil
}

// Save сохраняет структуру в базе данных.
// Использует INSERT ... ON DUPLICATE KEY UPDATE для перезаписи
// существующих записей под тем же именем.
func (r *MariaStructureRepo) Save(ctx context.Context, rec *StructureRecord) error {
	if rec == nil || rec.Name == "" {
		return fmt.Errorf("недействительная запись структуры")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ошибка сериализации структуры %s: %w", rec.Name, err)
	}

	query := `
		INSERT INTO structures (name, id, created_at, block_count, data)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			id = VALUES(id),
			created_at = VALUES(created_at),
			block_count = VALUES(block_count),
			data = VALUES(data)
	`

	_, err = r.db.ExecContext(ctx, query, rec.Name, rec.ID, rec.CreatedAt, len(rec.Blocks), data)
	if err != nil {
		return fmt.Errorf("ошибка сохранения структуры %s: %w", rec.Name, err)
	}
	return nil
}

// Load загружает структуру по имени.
func (r *MariaStructureRepo) Load(ctx context.Context, name string) (*StructureRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("пустое имя структуры")
	}

	var data []byte
	query := `SELECT data FROM structures WHERE name = ?`
	err := r.db.QueryRowContext(ctx, query, name).Scan(&data)
	if err == sql.ErrNoRows {
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

// List возвращает краткие записи всех структур, по имени.
// Габариты берутся из сериализованных данных.
func (r *MariaStructureRepo) List(ctx context.Context) ([]StructureSummary, error) {
	query := `SELECT data FROM structures ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка перечисления структур: %w", err)
	}
	defer rows.Close()

	var summaries []StructureSummary
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("ошибка чтения строки: %w", err)
		}
		var rec StructureRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("повреждённая запись структуры: %w", err)
		}
		summaries = append(summaries, rec.Summary())
	}
	return summaries, rows.Err()
}

// Delete удаляет структуру по имени.
func (r *MariaStructureRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM structures WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("ошибка удаления структуры %s: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка проверки удаления: %w", err)
	}
	if affected == 0 {
		return ErrStructureNotFound
	}
	return nil
}

// Close закрывает соединение с базой данных.
func (r *MariaStructureRepo) Close() error {
	return r.db.Close()
}
