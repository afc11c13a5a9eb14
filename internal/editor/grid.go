package editor

import (
	"iter"

	"github.com/annel0/voxel-designer/internal/vec"
	"github.com/annel0/voxel-designer/internal/world/block"
)

// Grid представляет разреженную воксельную сетку структуры.
// Ключ — координата ячейки, значение — тип блока. Инвариант:
// координата присутствует в карте тогда и только тогда, когда ячейка
// занята; записей «пустой блок» не существует.
//
// Grid не выполняет валидацию — конфликты занятых ячеек разрешает
// вызывающий код (команды редактирования).
type Grid struct {
	cells map[vec.Vec3]block.BlockID
}

// NewGrid создает пустую воксельную сетку
func NewGrid() *Grid {
	return &Grid{
		cells: make(map[vec.Vec3]block.BlockID),
	}
}

// Get возвращает тип блока в ячейке и признак её занятости
func (g *Grid) Get(pos vec.Vec3) (block.BlockID, bool) {
	id, exists := g.cells[pos]
	return id, exists
}

// Has проверяет, занята ли ячейка
func (g *Grid) Has(pos vec.Vec3) bool {
	_, exists := g.cells[pos]
	return exists
}

// Set записывает блок в ячейку. Вызывается только командами
// редактирования; повторная запись без промежуточного удаления
// нарушает обратимость истории.
func (g *Grid) Set(pos vec.Vec3, id block.BlockID) {
	g.cells[pos] = id
}

// Delete освобождает ячейку
func (g *Grid) Delete(pos vec.Vec3) {
	delete(g.cells, pos)
}

// Size возвращает количество занятых ячеек
func (g *Grid) Size() int {
	return len(g.cells)
}

// Clear удаляет все блоки из сетки
func (g *Grid) Clear() {
	g.cells = make(map[vec.Vec3]block.BlockID)
}

// All возвращает ленивую перезапускаемую последовательность пар
// (координата, тип блока). Порядок обхода не определён.
func (g *Grid) All() iter.Seq2[vec.Vec3, block.BlockID] {
	return func(yield func(vec.Vec3, block.BlockID) bool) {
		for pos, id := range g.cells {
			if !yield(pos, id) {
				return
			}
		}
	}
}

// Bounds возвращает габариты структуры (покомпонентные минимум и
// максимум занятых ячеек). Для пустой сетки ok == false.
func (g *Grid) Bounds() (minPos, maxPos vec.Vec3, ok bool) {
	first := true
	for pos := range g.cells {
		if first {
			minPos, maxPos = pos, pos
			first = false
			continue
		}
		minPos = vec.Min(minPos, pos)
		maxPos = vec.Max(maxPos, pos)
	}
	return minPos, maxPos, !first
}
