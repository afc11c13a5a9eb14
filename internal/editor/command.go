package editor

import (
	"github.com/annel0/voxel-designer/internal/vec"
	"github.com/annel0/voxel-designer/internal/world/block"
)

// BlockEntry описывает один блок команды: позиция и тип.
// Тип сохраняется и для удалений — иначе отмена не смогла бы
// восстановить блок исходного типа.
type BlockEntry struct {
	Position vec.Vec3      `json:"position"`
	Type     block.BlockID `json:"type"`
}

// CommandKind определяет вид команды редактирования
type CommandKind int

const (
	CmdPlace CommandKind = iota
	CmdRemove
	CmdBatchPlace
	CmdBatchRemove
)

// String возвращает строковое представление вида команды
func (k CommandKind) String() string {
	switch k {
	case CmdPlace:
		return "place"
	case CmdRemove:
		return "remove"
	case CmdBatchPlace:
		return "batch_place"
	case CmdBatchRemove:
		return "batch_remove"
	default:
		return "unknown"
	}
}

// Command представляет обратимую команду редактирования сетки.
// Одиночные варианты несут ровно одну запись, пакетные — список.
// Инвариант: применение обратной команды возвращает сетку в точное
// состояние до команды, включая исходные типы удалённых блоков.
type Command struct {
	Kind    CommandKind
	Entries []BlockEntry
}

// NewPlaceCommand создает команду установки одного блока
func NewPlaceCommand(pos vec.Vec3, id block.BlockID) Command {
	return Command{Kind: CmdPlace, Entries: []BlockEntry{{Position: pos, Type: id}}}
}

// NewRemoveCommand создает команду удаления одного блока.
// id — тип удаляемого блока, он понадобится при отмене.
func NewRemoveCommand(pos vec.Vec3, id block.BlockID) Command {
	return Command{Kind: CmdRemove, Entries: []BlockEntry{{Position: pos, Type: id}}}
}

// NewBatchPlaceCommand создает пакетную команду установки блоков
func NewBatchPlaceCommand(entries []BlockEntry) Command {
	return Command{Kind: CmdBatchPlace, Entries: entries}
}

// NewBatchRemoveCommand создает пакетную команду удаления блоков
func NewBatchRemoveCommand(entries []BlockEntry) Command {
	return Command{Kind: CmdBatchRemove, Entries: entries}
}

// IsPlacement сообщает, добавляет ли команда блоки в сетку
func (c Command) IsPlacement() bool {
	return c.Kind == CmdPlace || c.Kind == CmdBatchPlace
}

// Empty сообщает, что команде нечего применять.
// Пустые команды не должны попадать в историю.
func (c Command) Empty() bool {
	return len(c.Entries) == 0
}

// Apply применяет команду к сетке
func (c Command) Apply(g *Grid) {
	if c.IsPlacement() {
		for _, e := range c.Entries {
			g.Set(e.Position, e.Type)
		}
		return
	}
	for _, e := range c.Entries {
		g.Delete(e.Position)
	}
}

// Inverse возвращает обратную команду над тем же списком записей:
// Place ↔ Remove, BatchPlace ↔ BatchRemove.
func (c Command) Inverse() Command {
	inv := Command{Entries: c.Entries}
	switch c.Kind {
	case CmdPlace:
		inv.Kind = CmdRemove
	case CmdRemove:
		inv.Kind = CmdPlace
	case CmdBatchPlace:
		inv.Kind = CmdBatchRemove
	case CmdBatchRemove:
		inv.Kind = CmdBatchPlace
	}
	return inv
}
