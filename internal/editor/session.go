package editor

import (
	"context"
	"fmt"
	"sort"

	"github.com/annel0/voxel-designer/internal/eventbus"
	"github.com/annel0/voxel-designer/internal/logging"
	"github.com/annel0/voxel-designer/internal/storage"
	"github.com/annel0/voxel-designer/internal/vec"
	"github.com/annel0/voxel-designer/internal/world/block"
)

// interactionState — фаза двухкликового взаимодействия фигурного
// инструмента. Явный автомат вместо россыпи булевых флагов.
type interactionState int

const (
	stateIdle interactionState = iota
	stateAnchorSet
	stateVerticalAdjust
)

// ShapeRequest — ожидающая фигурная операция: создаётся первым кликом,
// обновляется каждым движением указателя, потребляется вторым кликом
// или отбрасывается отменой.
type ShapeRequest struct {
	Mode      ToolMode
	AnchorA   vec.Vec3
	AnchorB   vec.Vec3
	BlockType block.BlockID
}

// ToolConfig — явное состояние инструментов сессии: выбранный тип
// блока и активный инструмент. Не глобальное: принадлежит сессии,
// генератор фигур и история тестируются без него.
type ToolConfig struct {
	Mode      ToolMode
	BlockType block.BlockID
}

// SessionConfig задаёт параметры сессии редактора
type SessionConfig struct {
	HistoryCapacity int
	Camera          CameraConfig
	// VerticalStepPx — сколько пикселей вертикального перетаскивания
	// сдвигают вторую якорную точку на одну ячейку по Y.
	VerticalStepPx float64
}

// DefaultSessionConfig возвращает параметры сессии по умолчанию
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		HistoryCapacity: DefaultHistoryCapacity,
		Camera:          DefaultCameraConfig(),
		VerticalStepPx:  12,
	}
}

// Session — контроллер редактора. Владеет сеткой, историей, камерой,
// пулом ресурсов и состоянием инструментов; связывает пикинг,
// генератор фигур и команды. Все мутации происходят синхронно на
// вызывающем контексте — применение команды атомарно относительно
// любой другой операции редактора.
type Session struct {
	cfg     SessionConfig
	grid    *Grid
	history *History
	camera  *Camera
	pool    *ResourcePool
	tools   ToolConfig
	repo    storage.StructureRepo
	bus     eventbus.EventBus
	log     *logging.Logger
	metrics *Metrics

	state     interactionState
	pending   *ShapeRequest
	preview   []vec.Vec3
	vertAccum float64
	started   bool
}

// NewSession создает сессию редактора. provider и bus могут быть nil:
// без провайдера материалы остаются плоским цветом, без шины события
// не публикуются.
func NewSession(cfg SessionConfig, provider GraphicsProvider, repo storage.StructureRepo, bus eventbus.EventBus) *Session {
	return &Session{
		cfg:     cfg,
		grid:    NewGrid(),
		history: NewHistory(cfg.HistoryCapacity),
		camera:  NewCamera(cfg.Camera),
		pool:    NewResourcePool(provider),
		tools:   ToolConfig{Mode: ToolPlace, BlockType: block.StoneBlockID},
		repo:    repo,
		bus:     bus,
		log:     logging.GetEditorLogger(),
		metrics: NewMetrics(),
	}
}

// Grid возвращает воксельную сетку сессии
func (s *Session) Grid() *Grid { return s.grid }

// Camera возвращает камеру сессии
func (s *Session) Camera() *Camera { return s.camera }

// Pool возвращает пул ресурсов сессии
func (s *Session) Pool() *ResourcePool { return s.pool }

// History возвращает историю команд сессии
func (s *Session) History() *History { return s.history }

// Metrics возвращает метрики сессии
func (s *Session) Metrics() *Metrics { return s.metrics }

// Tools возвращает текущее состояние инструментов
func (s *Session) Tools() ToolConfig { return s.tools }

// SetTool переключает активный инструмент. Ожидающая фигурная
// операция при этом отменяется.
func (s *Session) SetTool(mode ToolMode) {
	if s.tools.Mode != mode {
		s.CancelPending()
	}
	s.tools.Mode = mode
}

// SetBlockType выбирает тип блока для последующих установок
func (s *Session) SetBlockType(id block.BlockID) {
	if !block.IsValidBlockID(id) {
		s.log.Warn("Выбран незарегистрированный тип блока %d — игнорируется", id)
		return
	}
	s.tools.BlockType = id
}

// Start открывает сессию: сигнализирует хосту о начале редактирования
func (s *Session) Start(ctx context.Context) {
	if s.started {
		return
	}
	s.started = true
	s.publish(ctx, eventbus.EventSessionStarted, nil)
	s.log.Info("🧱 Сессия редактора открыта")
}

// End закрывает сессию: освобождает пул ресурсов и сигнализирует
// хосту о завершении. Повторные вызовы игнорируются.
func (s *Session) End(ctx context.Context) {
	if !s.started {
		return
	}
	s.started = false
	s.CancelPending()
	s.pool.Release()
	s.publish(ctx, eventbus.EventSessionEnded, nil)
	s.log.Info("🧱 Сессия редактора закрыта, сетка: %d блоков", s.grid.Size())
}

// Preview возвращает текущий набор ячеек предпросмотра фигуры.
// Пустой, когда фигурная операция не ожидается.
func (s *Session) Preview() []vec.Vec3 { return s.preview }

// PendingAnchor возвращает первую якорную точку ожидающей фигуры
func (s *Session) PendingAnchor() (vec.Vec3, bool) {
	if s.pending == nil {
		return vec.Vec3{}, false
	}
	return s.pending.AnchorA, true
}

// PointerDown обрабатывает нажатие кнопки указателя: одиночные
// инструменты применяются сразу, фигурные проходят через автомат
// якорь → предпросмотр → фиксация.
func (s *Session) PointerDown(ctx context.Context, ray Ray) {
	switch {
	case s.tools.Mode == ToolPlace:
		s.placeSingle(ctx, ray)
	case s.tools.Mode == ToolRemove:
		s.removeSingle(ctx, ray)
	case s.tools.Mode == ToolDoor:
		s.carveDoor(ctx, ray)
	case s.tools.Mode.IsShapeTool():
		switch s.state {
		case stateIdle:
			s.setAnchor(ray)
		case stateAnchorSet, stateVerticalAdjust:
			s.commitShape(ctx)
		}
	}
}

// PointerMove обрабатывает движение указателя. ray — текущий луч
// пикинга, dy — вертикальная дельта в пикселях (нужна только режиму
// вертикальной подстройки).
func (s *Session) PointerMove(ray Ray, dy float64) {
	switch s.state {
	case stateAnchorSet:
		hit, ok := PickCell(ray, s.grid)
		if !ok {
			return
		}
		s.pending.AnchorB = hit.PlacementTarget()
		s.refreshPreview()
	case stateVerticalAdjust:
		// По вертикали двигается только вторая якорная точка;
		// X и Z заморожены до выхода из режима
		s.vertAccum += dy
		step := s.cfg.VerticalStepPx
		for s.vertAccum <= -step {
			s.pending.AnchorB.Y++
			s.vertAccum += step
		}
		for s.vertAccum >= step {
			s.pending.AnchorB.Y--
			s.vertAccum -= step
		}
		s.refreshPreview()
	}
}

// SetVerticalAdjust переключает подрежим вертикальной подстройки
// (зажат модификатор). Действует только при установленном якоре.
func (s *Session) SetVerticalAdjust(active bool) {
	switch {
	case active && s.state == stateAnchorSet:
		s.state = stateVerticalAdjust
		s.vertAccum = 0
	case !active && s.state == stateVerticalAdjust:
		s.state = stateAnchorSet
	}
}

// CancelPending отменяет ожидающую фигурную операцию: якорь и
// предпросмотр очищаются, сетка и история не затрагиваются.
func (s *Session) CancelPending() {
	if s.state == stateIdle {
		return
	}
	s.state = stateIdle
	s.pending = nil
	s.preview = nil
	s.vertAccum = 0
	s.log.Debug("Фигурная операция отменена")
}

// Undo отменяет последнюю команду. Пустой стек — no-op.
func (s *Session) Undo(ctx context.Context) bool {
	if !s.history.Undo(s.grid) {
		s.metrics.noops.Inc()
		return false
	}
	s.metrics.undos.Inc()
	s.publish(ctx, eventbus.EventEditUndone, &eventbus.EditPayload{GridSize: s.grid.Size()})
	return true
}

// Redo повторяет последнюю отменённую команду. Пустой стек — no-op.
func (s *Session) Redo(ctx context.Context) bool {
	if !s.history.Redo(s.grid) {
		s.metrics.noops.Inc()
		return false
	}
	s.metrics.redos.Inc()
	s.publish(ctx, eventbus.EventEditRedone, &eventbus.EditPayload{GridSize: s.grid.Size()})
	return true
}

// setAnchor фиксирует первую якорную точку фигурного инструмента
func (s *Session) setAnchor(ray Ray) {
	hit, ok := PickCell(ray, s.grid)
	if !ok {
		s.log.Debug("Луч мимо сцены — якорь не установлен")
		return
	}
	anchor := hit.PlacementTarget()
	s.pending = &ShapeRequest{
		Mode:      s.tools.Mode,
		AnchorA:   anchor,
		AnchorB:   anchor,
		BlockType: s.tools.BlockType,
	}
	s.state = stateAnchorSet
	s.refreshPreview()
}

// refreshPreview пересчитывает предпросмотр по текущим якорям
func (s *Session) refreshPreview() {
	s.preview = ShapePositions(s.pending.Mode, s.pending.AnchorA, s.pending.AnchorB)
}

// placeSingle устанавливает один блок по лучу пикинга.
// Политика самососедней установки: если целевая ячейка совпадает с
// ячейкой начала луча, цель считается занятой — no-op.
func (s *Session) placeSingle(ctx context.Context, ray Ray) {
	hit, ok := PickCell(ray, s.grid)
	if !ok {
		s.log.Debug("Луч мимо сцены — установка пропущена")
		return
	}
	target := hit.PlacementTarget()

	if target == ray.Origin.ToVec3() {
		s.log.Debug("Цель установки совпадает с ячейкой наблюдателя %v — считаем занятой", target)
		s.metrics.noops.Inc()
		return
	}
	if s.grid.Has(target) {
		s.log.Debug("Ячейка %v уже занята — установка пропущена", target)
		s.metrics.noops.Inc()
		return
	}

	s.pool.MaterialFor(s.tools.BlockType)
	s.history.Apply(s.grid, NewPlaceCommand(target, s.tools.BlockType))
	s.metrics.placements.Inc()
	s.publish(ctx, eventbus.EventEditApplied, &eventbus.EditPayload{
		Command:    CmdPlace.String(),
		BlockCount: 1,
		GridSize:   s.grid.Size(),
	})
}

// removeSingle удаляет блок, в который попал луч
func (s *Session) removeSingle(ctx context.Context, ray Ray) {
	hit, ok := PickCell(ray, s.grid)
	if !ok {
		s.log.Debug("Луч мимо сцены — удаление пропущено")
		return
	}
	target, ok := hit.RemovalTarget()
	if !ok {
		s.log.Debug("Попадание в землю — удалять нечего")
		s.metrics.noops.Inc()
		return
	}

	id, exists := s.grid.Get(target)
	if !exists {
		s.log.Debug("Ячейка %v пуста — удаление пропущено", target)
		s.metrics.noops.Inc()
		return
	}

	s.history.Apply(s.grid, NewRemoveCommand(target, id))
	s.metrics.removals.Inc()
	s.publish(ctx, eventbus.EventEditApplied, &eventbus.EditPayload{
		Command:    CmdRemove.String(),
		BlockCount: 1,
		GridSize:   s.grid.Size(),
	})
}

// carveDoor вырезает дверной проём 2×2 от блока, в который попал луч.
// Всегда удаление; пустые ячейки проёма пропускаются.
func (s *Session) carveDoor(ctx context.Context, ray Ray) {
	hit, ok := PickCell(ray, s.grid)
	if !ok {
		return
	}
	anchor, ok := hit.RemovalTarget()
	if !ok {
		s.log.Debug("Дверной проём требует попадания в блок")
		s.metrics.noops.Inc()
		return
	}

	var entries []BlockEntry
	for _, pos := range ShapePositions(ToolDoor, anchor, anchor) {
		if id, exists := s.grid.Get(pos); exists {
			entries = append(entries, BlockEntry{Position: pos, Type: id})
		}
	}
	if len(entries) == 0 {
		s.log.Debug("Проём в %v не пересёк ни одного блока — пропуск", anchor)
		s.metrics.noops.Inc()
		return
	}

	s.history.Apply(s.grid, NewBatchRemoveCommand(entries))
	s.metrics.removals.Add(float64(len(entries)))
	s.publish(ctx, eventbus.EventEditApplied, &eventbus.EditPayload{
		Command:    CmdBatchRemove.String(),
		BlockCount: len(entries),
		GridSize:   s.grid.Size(),
	})
}

// commitShape фиксирует ожидающую фигуру как одну пакетную команду.
// Занятые ячейки отфильтровываются до записи команды, чтобы отмена
// не стёрла чужие блоки. Фигура без единой новой ячейки не порождает
// команду вовсе.
func (s *Session) commitShape(ctx context.Context) {
	req := s.pending
	positions := s.preview
	s.CancelPending()

	if len(positions) == 0 {
		s.log.Debug("Вырожденная фигура %s — команда не создана", req.Mode)
		s.metrics.noops.Inc()
		return
	}

	entries := make([]BlockEntry, 0, len(positions))
	for _, pos := range positions {
		if s.grid.Has(pos) {
			continue // Установка в занятую ячейку — no-op
		}
		entries = append(entries, BlockEntry{Position: pos, Type: req.BlockType})
	}
	if len(entries) == 0 {
		s.log.Debug("Фигура %s целиком перекрыта занятыми ячейками — пропуск", req.Mode)
		s.metrics.noops.Inc()
		return
	}

	s.pool.MaterialFor(req.BlockType)
	s.history.Apply(s.grid, NewBatchPlaceCommand(entries))
	s.metrics.placements.Add(float64(len(entries)))
	s.publish(ctx, eventbus.EventEditApplied, &eventbus.EditPayload{
		Command:    CmdBatchPlace.String(),
		BlockCount: len(entries),
		GridSize:   s.grid.Size(),
	})
	s.log.Info("Фигура %s: установлено %d блоков", req.Mode, len(entries))
}

// SaveStructure собирает запись структуры из сетки и сохраняет её в
// хранилище. Ошибка сохранения не меняет состояние в памяти.
func (s *Session) SaveStructure(ctx context.Context, name string) (*storage.StructureRecord, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("хранилище структур не подключено")
	}

	blocks := make([]storage.BlockRecord, 0, s.grid.Size())
	for pos, id := range s.grid.All() {
		blocks = append(blocks, storage.BlockRecord{Position: pos, Type: id})
	}
	// Детерминированный порядок записи: снизу вверх, затем по X и Z
	sort.Slice(blocks, func(i, j int) bool {
		a, b := blocks[i].Position, blocks[j].Position
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Z < b.Z
	})

	rec := storage.NewStructureRecord(name, blocks)
	if err := s.repo.Save(ctx, rec); err != nil {
		s.log.Error("Сохранение структуры %s не удалось: %v", name, err)
		return nil, err
	}

	s.publish(ctx, eventbus.EventStructureSaved, &eventbus.StructurePayload{
		Name:       name,
		BlockCount: len(blocks),
	})
	s.log.Info("💾 Структура %s сохранена: %d блоков", name, len(blocks))
	return rec, nil
}

// LoadStructure загружает структуру по имени: очищает сетку и историю,
// затем воспроизводит по одной установке на запись в порядке списка.
// При ошибке загрузки текущая сетка и история остаются нетронутыми.
func (s *Session) LoadStructure(ctx context.Context, name string) error {
	if s.repo == nil {
		return fmt.Errorf("хранилище структур не подключено")
	}

	rec, err := s.repo.Load(ctx, name)
	if err != nil {
		s.log.Error("Загрузка структуры %s не удалась: %v", name, err)
		return err
	}

	s.CancelPending()
	s.grid.Clear()
	s.history.Clear()

	for _, b := range rec.Blocks {
		s.pool.MaterialFor(b.Type)
		s.grid.Set(b.Position, b.Type)
	}

	s.publish(ctx, eventbus.EventStructureLoaded, &eventbus.StructurePayload{
		Name:       name,
		BlockCount: len(rec.Blocks),
	})
	s.log.Info("📂 Структура %s загружена: %d блоков", name, len(rec.Blocks))
	return nil
}

// publish отправляет событие в шину, если она подключена
func (s *Session) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, eventbus.NewEnvelope("editor", eventType, payload)); err != nil {
		s.log.Warn("Публикация события %s не удалась: %v", eventType, err)
	}
}
