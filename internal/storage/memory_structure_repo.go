package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStructureRepo реализует StructureRepo в памяти.
// Используется как fallback, когда внешняя БД недоступна,
// или для CI/локальной разработки без БД.
// ВНИМАНИЕ: Данные теряются при завершении процесса!
type MemoryStructureRepo struct {
	mu   sync.RWMutex
	data map[string]*StructureRecord // имя -> запись
}

// NewMemoryStructureRepo создает новое хранилище структур в памяти
func NewMemoryStructureRepo() *MemoryStructureRepo {
	return &MemoryStructureRepo{
		data: make(map[string]*StructureRecord),
	}
}

// Save сохраняет структуру в памяти. Запись копируется: вызывающий
// может продолжать менять свою копию, не трогая хранилище.
func (r *MemoryStructureRepo) Save(ctx context.Context, rec *StructureRecord) error {
	if rec == nil || rec.Name == "" {
		return fmt.Errorf("недействительная запись структуры")
	}

	// Проверяем контекст на отмену
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[rec.Name] = copyRecord(rec)
	return nil
}

// Load загружает структуру по имени
func (r *MemoryStructureRepo) Load(ctx context.Context, name string) (*StructureRecord, error) {
	if name == "" {
		return nil, fmt.Errorf("пустое имя структуры")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.data[name]
	if !exists {
		return nil, ErrStructureNotFound
	}
	return copyRecord(rec), nil
}

// List возвращает краткие записи всех структур, отсортированные по имени
func (r *MemoryStructureRepo) List(ctx context.Context) ([]StructureSummary, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]StructureSummary, 0, len(r.data))
	for _, rec := range r.data {
		summaries = append(summaries, rec.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries, nil
}

// Delete удаляет структуру по имени
func (r *MemoryStructureRepo) Delete(ctx context.Context, name string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[name]; !exists {
		return ErrStructureNotFound
	}
	delete(r.data, name)
	return nil
}

// Close ничего не освобождает для памяти
func (r *MemoryStructureRepo) Close() error { return nil }

// copyRecord делает глубокую копию записи структуры
func copyRecord(rec *StructureRecord) *StructureRecord {
	cp := *rec
	cp.Blocks = make([]BlockRecord, len(rec.Blocks))
	copy(cp.Blocks, rec.Blocks)
	cp.Histogram = make(map[string]int, len(rec.Histogram))
	for k, v := range rec.Histogram {
		cp.Histogram[k] = v
	}
	return &cp
}
