package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-designer/internal/storage"
	"github.com/annel0/voxel-designer/internal/vec"
	"github.com/annel0/voxel-designer/internal/world/block"
)

// rayDownAt возвращает луч пикинга отвесно вниз через центр ячейки
// нулевого уровня (x, 0, z).
func rayDownAt(x, z int) Ray {
	return Ray{
		Origin:    vec.Vec3Float{X: float64(x) + 0.5, Y: 20, Z: float64(z) + 0.5},
		Direction: vec.Vec3Float{X: 0, Y: -1, Z: 0},
	}
}

func newTestSession(repo storage.StructureRepo) *Session {
	return NewSession(DefaultSessionConfig(), nil, repo, nil)
}

func TestSessionPlaceSingle(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(nil)

	s.SetTool(ToolPlace)
	s.SetBlockType(block.WoodBlockID)
	s.PointerDown(ctx, rayDownAt(2, 3))

	id, exists := s.Grid().Get(vec.Vec3{X: 2, Y: 0, Z: 3})
	require.True(t, exists, "клик по земле должен установить блок")
	assert.Equal(t, block.WoodBlockID, id)
	assert.Equal(t, 1, s.Pool().MaterialCount(), "установка прогревает материал типа")
}

func TestSessionPlaceOnBlockFace(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(nil)

	s.PointerDown(ctx, rayDownAt(0, 0))
	require.Equal(t, 1, s.Grid().Size())

	// Горизонтальный луч в бок стоящего блока: сосед со стороны грани
	side := Ray{
		Origin:    vec.Vec3Float{X: 5, Y: 0.5, Z: 0.5},
		Direction: vec.Vec3Float{X: -1, Y: 0, Z: 0},
	}
	s.PointerDown(ctx, side)
	require.Equal(t, 2, s.Grid().Size())
	assert.True(t, s.Grid().Has(vec.Vec3{X: 1, Y: 0, Z: 0}), "установка в соседа со стороны грани")

	// Клик по вершине столбика ставит блок этажом выше
	s.PointerDown(ctx, rayDownAt(0, 0))
	assert.True(t, s.Grid().Has(vec.Vec3{X: 0, Y: 1, Z: 0}), "установка на верхнюю грань блока")
	assert.Equal(t, 3, s.History().UndoDepth())
}

func TestSessionSelfAdjacentPlacementNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(nil)

	s.PointerDown(ctx, rayDownAt(0, 0))
	require.Equal(t, 1, s.Grid().Size())

	// Наблюдатель стоит в ячейке (1,0,0) и кликает в боковую грань
	// соседнего блока: цель совпадает с собственной ячейкой
	selfRay := Ray{
		Origin:    vec.Vec3Float{X: 1.5, Y: 0.5, Z: 0.5},
		Direction: vec.Vec3Float{X: -1, Y: 0, Z: 0},
	}
	s.PointerDown(ctx, selfRay)

	assert.Equal(t, 1, s.Grid().Size(), "установка в собственную ячейку — no-op")
	assert.False(t, s.Grid().Has(vec.Vec3{X: 1, Y: 0, Z: 0}))
}

func TestSessionRemoveSingle(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(nil)

	s.PointerDown(ctx, rayDownAt(0, 0))
	require.Equal(t, 1, s.Grid().Size())

	s.SetTool(ToolRemove)
	s.PointerDown(ctx, rayDownAt(0, 0))
	assert.Equal(t, 0, s.Grid().Size(), "клик по блоку инструментом удаления убирает его")

	// Клик по земле удалять нечего
	s.PointerDown(ctx, rayDownAt(5, 5))
	assert.Equal(t, 0, s.Grid().Size())
}

func TestSessionShapeStateMachine(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(nil)

	s.SetTool(ToolFloor)

	// Первый клик — якорь
	s.PointerDown(ctx, rayDownAt(0, 0))
	anchor, pending := s.PendingAnchor()
	require.True(t, pending, "после первого клика фигура ожидается")
	assert.Equal(t, vec.Vec3{X: 0, Y: 0, Z: 0}, anchor)
	assert.Equal(t, 0, s.Grid().Size(), "якорь не ставит блоков")

	// Движение указателя обновляет предпросмотр
	s.PointerMove(rayDownAt(2, 3), 0)
	assert.Len(t, s.Preview(), 12, "предпросмотр пола 3x4")

	// Второй клик — фиксация одной пакетной командой
	s.PointerDown(ctx, rayDownAt(2, 3))
	assert.Equal(t, 12, s.Grid().Size())
	assert.Equal(t, 1, s.History().UndoDepth(), "фигура — одна запись истории")

	_, pending = s.PendingAnchor()
	assert.False(t, pending, "после фиксации ожидающей фигуры нет")
	assert.Empty(t, s.Preview())
}

func TestSessionShapeCancel(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(nil)

	s.SetTool(ToolFillCube)
	s.PointerDown(ctx, rayDownAt(0, 0))
	s.PointerMove(rayDownAt(3, 3), 0)
	require.NotEmpty(t, s.Preview())

	s.CancelPending()
	assert.Empty(t, s.Preview(), "отмена очищает предпросмотр")
	assert.Equal(t, 0, s.Grid().Size(), "отмена не трогает сетку")
	assert.Equal(t, 0, s.History().UndoDepth(), "отмена не трогает историю")

	// Смена инструмента тоже отменяет ожидающую фигуру
	s.PointerDown(ctx, rayDownAt(0, 0))
	_, pending := s.PendingAnchor()
	require.True(t, pending)
	s.SetTool(ToolLine)
	_, pending = s.PendingAnchor()
	assert.False(t, pending, "смена инструмента отменяет ожидающую фигуру")
}

func TestSessionVerticalAdjust(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultSessionConfig()
	s := NewSession(cfg, nil, nil, nil)

	s.SetTool(ToolFillCube)
	s.PointerDown(ctx, rayDownAt(0, 0))
	s.PointerMove(rayDownAt(1, 1), 0)

	// Модификатор зажат: вертикальное перетаскивание двигает вторую
	// якорную точку по Y, X и Z заморожены
	s.SetVerticalAdjust(true)
	s.PointerMove(rayDownAt(9, 9), -cfg.VerticalStepPx)

	s.PointerDown(ctx, rayDownAt(9, 9)) // фиксация: куб 2x2x2
	assert.Equal(t, 8, s.Grid().Size(), "куб 2x2x2 после вертикальной подстройки на одну ячейку")
	assert.True(t, s.Grid().Has(vec.Vec3{X: 1, Y: 1, Z: 1}))
	assert.False(t, s.Grid().Has(vec.Vec3{X: 9, Y: 0, Z: 9}),
		"в режиме подстройки горизонтальное движение игнорируется")
}

func TestSessionShapeSkipsOccupied(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(nil)

	// Ставим один блок, затем пол поверх него
	s.PointerDown(ctx, rayDownAt(1, 1))
	require.Equal(t, 1, s.Grid().Size())

	s.SetTool(ToolFloor)
	s.PointerDown(ctx, rayDownAt(0, 0))
	s.PointerMove(rayDownAt(2, 2), 0)
	s.PointerDown(ctx, rayDownAt(2, 2))

	assert.Equal(t, 9, s.Grid().Size(), "пол 3x3 перекрывает занятую ячейку без дублей")

	// Отмена пола не должна стереть ранее стоявший блок
	s.Undo(ctx)
	assert.Equal(t, 1, s.Grid().Size())
	id, exists := s.Grid().Get(vec.Vec3{X: 1, Y: 0, Z: 1})
	require.True(t, exists, "чужой блок переживает отмену фигуры")
	assert.Equal(t, block.StoneBlockID, id)
}

func TestSessionCarveDoor(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(nil)

	// Стена 3x3 в плоскости Z=0
	var entries []BlockEntry
	for x := 0; x <= 2; x++ {
		for y := 0; y <= 2; y++ {
			entries = append(entries, BlockEntry{
				Position: vec.Vec3{X: x, Y: y, Z: 0},
				Type:     block.BrickBlockID,
			})
		}
	}
	s.History().Apply(s.Grid(), NewBatchPlaceCommand(entries))
	require.Equal(t, 9, s.Grid().Size())

	// Луч в блок (0,0,0) со стороны +Z
	s.SetTool(ToolDoor)
	s.PointerDown(ctx, Ray{
		Origin:    vec.Vec3Float{X: 0.5, Y: 0.5, Z: 5},
		Direction: vec.Vec3Float{X: 0, Y: 0, Z: -1},
	})

	assert.Equal(t, 5, s.Grid().Size(), "проём 2x2 убирает четыре блока")
	for _, pos := range []vec.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0},
	} {
		assert.False(t, s.Grid().Has(pos), "ячейка проёма %v должна быть пустой", pos)
	}

	// Отмена восстанавливает стену целиком
	s.Undo(ctx)
	assert.Equal(t, 9, s.Grid().Size())
}

func TestSessionDoorRequiresBlockHit(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(nil)

	s.SetTool(ToolDoor)
	s.PointerDown(ctx, rayDownAt(0, 0)) // попадание в землю

	assert.Equal(t, 0, s.Grid().Size())
	assert.Equal(t, 0, s.History().UndoDepth(), "проём по земле не порождает команду")
}

func TestSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryStructureRepo()
	defer repo.Close()

	s := newTestSession(repo)
	s.Start(ctx)

	// Куб 2x2x2 из камня через фигурный инструмент
	s.SetTool(ToolFillCube)
	s.PointerDown(ctx, rayDownAt(0, 0))
	s.PointerMove(rayDownAt(1, 1), 0)
	s.SetVerticalAdjust(true)
	s.PointerMove(rayDownAt(1, 1), -DefaultSessionConfig().VerticalStepPx)
	s.SetVerticalAdjust(false)
	s.PointerDown(ctx, rayDownAt(1, 1))
	require.Equal(t, 8, s.Grid().Size())

	// Отмена и повтор
	require.True(t, s.Undo(ctx))
	assert.Equal(t, 0, s.Grid().Size())
	require.True(t, s.Redo(ctx))
	require.Equal(t, 8, s.Grid().Size())

	// Сохранение
	rec, err := s.SaveStructure(ctx, "башня")
	require.NoError(t, err)
	assert.Equal(t, vec.Vec3{X: 0, Y: 0, Z: 0}, rec.Bounds.Min)
	assert.Equal(t, vec.Vec3{X: 1, Y: 1, Z: 1}, rec.Bounds.Max)
	assert.Equal(t, vec.Vec3{X: 2, Y: 2, Z: 2}, rec.Bounds.Size)
	assert.Equal(t, map[string]int{"Stone": 8}, rec.Histogram)

	// Вторая сессия с собственными правками: загрузка должна их вытеснить
	s2 := newTestSession(repo)
	s2.SetBlockType(block.WoodBlockID)
	s2.PointerDown(ctx, rayDownAt(7, 7))
	require.Equal(t, 1, s2.Grid().Size())
	require.True(t, s2.History().CanUndo())

	require.NoError(t, s2.LoadStructure(ctx, "башня"))
	assert.Equal(t, 8, s2.Grid().Size(), "загрузка замещает сетку целиком")
	assert.False(t, s2.Grid().Has(vec.Vec3{X: 7, Y: 0, Z: 7}),
		"блоки прежней сетки не переживают загрузку")
	for pos, id := range s.Grid().All() {
		got, exists := s2.Grid().Get(pos)
		require.True(t, exists, "ячейка %v должна присутствовать после загрузки", pos)
		assert.Equal(t, id, got)
	}
	assert.False(t, s2.History().CanUndo(), "история очищается при загрузке")
	assert.False(t, s2.History().CanRedo())
	assert.Equal(t, 2, s2.Pool().MaterialCount(), "загрузка прогревает материалы типов структуры")

	s.End(ctx)
	assert.True(t, s.Pool().Geometry().Released(), "закрытие сессии освобождает пул")
}

func TestSessionLoadMissingLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryStructureRepo()
	defer repo.Close()

	s := newTestSession(repo)
	s.PointerDown(ctx, rayDownAt(0, 0))
	require.Equal(t, 1, s.Grid().Size())

	err := s.LoadStructure(ctx, "нет-такой")
	require.ErrorIs(t, err, storage.ErrStructureNotFound)
	assert.Equal(t, 1, s.Grid().Size(), "неудачная загрузка не трогает сетку")
	assert.True(t, s.History().CanUndo(), "неудачная загрузка не трогает историю")
}

func TestSessionInvalidBlockTypeIgnored(t *testing.T) {
	s := newTestSession(nil)

	s.SetBlockType(block.GlassBlockID)
	require.Equal(t, block.GlassBlockID, s.Tools().BlockType)

	s.SetBlockType(block.BlockID(9999))
	assert.Equal(t, block.GlassBlockID, s.Tools().BlockType,
		"незарегистрированный тип не должен выбираться")
}

func TestSessionSaveWithoutRepo(t *testing.T) {
	s := newTestSession(nil)
	_, err := s.SaveStructure(context.Background(), "x")
	assert.Error(t, err, "сохранение без хранилища — ошибка")
	assert.Error(t, s.LoadStructure(context.Background(), "x"))
}
