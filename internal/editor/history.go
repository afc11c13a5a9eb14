package editor

import (
	"github.com/annel0/voxel-designer/internal/logging"
)

// DefaultHistoryCapacity — ёмкость стека отмены по умолчанию
const DefaultHistoryCapacity = 50

// History ведёт два стека команд: отмены и повтора.
// Стек отмены ограничен ёмкостью; при переполнении вытесняется
// самая старая команда (FIFO), а не самая новая. Стек повтора
// очищается при каждой свежей команде — повтор после нового
// редактирования невозможен.
type History struct {
	undo     []Command
	redo     []Command
	capacity int
	log      *logging.Logger
}

// NewHistory создает историю с указанной ёмкостью стека отмены.
// Неположительная ёмкость заменяется значением по умолчанию.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{
		undo:     make([]Command, 0, capacity),
		redo:     make([]Command, 0, capacity),
		capacity: capacity,
		log:      logging.GetEditorLogger(),
	}
}

// Apply применяет команду к сетке и записывает её в стек отмены,
// очищая стек повтора. Пустая команда отклоняется и не записывается.
func (h *History) Apply(g *Grid, c Command) bool {
	if c.Empty() {
		h.log.Debug("Пустая команда %s отклонена, история не изменена", c.Kind)
		return false
	}

	c.Apply(g)

	// Вытесняем самую старую команду при переполнении
	if len(h.undo) >= h.capacity {
		copy(h.undo, h.undo[1:])
		h.undo = h.undo[:len(h.undo)-1]
	}
	h.undo = append(h.undo, c)
	h.redo = h.redo[:0]
	return true
}

// Undo снимает верхнюю команду стека отмены, применяет её инверсию
// и переносит команду в стек повтора. При пустом стеке — no-op.
func (h *History) Undo(g *Grid) bool {
	if len(h.undo) == 0 {
		h.log.Debug("Отмена при пустом стеке — игнорируется")
		return false
	}

	c := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	c.Inverse().Apply(g)
	h.redo = append(h.redo, c)
	return true
}

// Redo снимает верхнюю команду стека повтора, применяет её заново
// и возвращает в стек отмены. При пустом стеке — no-op.
func (h *History) Redo(g *Grid) bool {
	if len(h.redo) == 0 {
		h.log.Debug("Повтор при пустом стеке — игнорируется")
		return false
	}

	c := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	c.Apply(g)
	h.undo = append(h.undo, c)
	return true
}

// CanUndo сообщает, есть ли команды для отмены
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo сообщает, есть ли команды для повтора
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoDepth возвращает глубину стека отмены
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth возвращает глубину стека повтора
func (h *History) RedoDepth() int { return len(h.redo) }

// Clear очищает оба стека. Используется при загрузке структуры.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}
