package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/annel0/voxel-designer/internal/vec"
	"github.com/annel0/voxel-designer/internal/world/block"
)

// ErrStructureNotFound возвращается, когда структура с таким именем
// отсутствует в хранилище.
var ErrStructureNotFound = errors.New("структура не найдена")

// BlockRecord — один блок сохранённой структуры
type BlockRecord struct {
	Position vec.Vec3      `json:"position" bson:"position"`
	Type     block.BlockID `json:"type" bson:"type"`
}

// Bounds — выровненные по осям габариты структуры
type Bounds struct {
	Min  vec.Vec3 `json:"min" bson:"min"`
	Max  vec.Vec3 `json:"max" bson:"max"`
	Size vec.Vec3 `json:"size" bson:"size"`
}

// StructureRecord — сохранённая структура: имя, время создания,
// упорядоченный список блоков, габариты и гистограмма по типам блоков.
// Загрузка воспроизводит по одной установке на запись в порядке списка.
type StructureRecord struct {
	ID        string         `json:"id" bson:"id"`
	Name      string         `json:"name" bson:"name"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	Blocks    []BlockRecord  `json:"blocks" bson:"blocks"`
	Bounds    Bounds         `json:"bounds" bson:"bounds"`
	Histogram map[string]int `json:"histogram" bson:"histogram"` // Имя типа блока -> количество
}

// StructureSummary — краткая запись для списков хранилища
type StructureSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	BlockCount int       `json:"block_count"`
	Bounds     Bounds    `json:"bounds"`
}

// NewStructureRecord собирает запись структуры из списка блоков:
// генерирует UUID, проставляет время создания и вычисляет габариты
// с гистограммой материалов.
func NewStructureRecord(name string, blocks []BlockRecord) *StructureRecord {
	rec := &StructureRecord{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Blocks:    blocks,
		Histogram: make(map[string]int),
	}

	for i, b := range blocks {
		if i == 0 {
			rec.Bounds.Min, rec.Bounds.Max = b.Position, b.Position
		} else {
			rec.Bounds.Min = vec.Min(rec.Bounds.Min, b.Position)
			rec.Bounds.Max = vec.Max(rec.Bounds.Max, b.Position)
		}

		name := typeName(b.Type)
		rec.Histogram[name]++
	}
	if len(blocks) > 0 {
		rec.Bounds.Size = rec.Bounds.Max.Sub(rec.Bounds.Min).Add(vec.Vec3{X: 1, Y: 1, Z: 1})
	}
	return rec
}

// Summary возвращает краткую запись структуры
func (r *StructureRecord) Summary() StructureSummary {
	return StructureSummary{
		ID:         r.ID,
		Name:       r.Name,
		CreatedAt:  r.CreatedAt,
		BlockCount: len(r.Blocks),
		Bounds:     r.Bounds,
	}
}

// typeName возвращает человекочитаемое имя типа блока для гистограммы
func typeName(id block.BlockID) string {
	if def, ok := block.Get(id); ok {
		return def.Name
	}
	return "unknown"
}

// StructureRepo определяет интерфейс хранилища структур.
// Структуры идентифицируются именем; повторное сохранение под тем же
// именем перезаписывает запись.
type StructureRepo interface {
	// Save сохраняет структуру. Ошибка сохранения не меняет
	// никакого состояния в памяти вызывающего.
	Save(ctx context.Context, rec *StructureRecord) error

	// Load загружает структуру по имени.
	// Возвращает ErrStructureNotFound, если записи нет.
	Load(ctx context.Context, name string) (*StructureRecord, error)

	// List возвращает краткие записи всех сохранённых структур.
	List(ctx context.Context) ([]StructureSummary, error)

	// Delete удаляет структуру по имени. Отсутствие записи — ошибка
	// ErrStructureNotFound.
	Delete(ctx context.Context, name string) error

	// Close освобождает ресурсы хранилища.
	Close() error
}
