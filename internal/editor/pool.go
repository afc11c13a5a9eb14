package editor

import (
	"sync"

	"github.com/annel0/voxel-designer/internal/logging"
	"github.com/annel0/voxel-designer/internal/world/block"
)

// TextureRef — непрозрачная ссылка на текстуру, понятная рендереру
// (путь к файлу или ключ атласа). Ядро её не интерпретирует.
type TextureRef string

// GraphicsProvider абстрагирует внешний графический слой.
// Ядро обязано корректно работать и без провайдера: материалы тогда
// остаются плоским цветом из палитры блоков.
type GraphicsProvider interface {
	// LoadMaterial запускает асинхронную подготовку материала для типа
	// блока. ready вызывается ровно один раз по завершении; при ошибке
	// материал остаётся на запасном цвете.
	LoadMaterial(id block.BlockID, ready func(tex TextureRef, err error))

	// Thumbnail возвращает превью текстуры для палитры, если оно есть
	Thumbnail(id block.BlockID) (TextureRef, bool)
}

// GeometryHandle — общий геометрический ресурс: один единичный куб
// на все воксели сцены. Никогда не дублируется на блок.
type GeometryHandle struct {
	mu       sync.Mutex
	released bool
}

// Released сообщает, освобождён ли ресурс
func (h *GeometryHandle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

func (h *GeometryHandle) release() {
	h.mu.Lock()
	h.released = true
	h.mu.Unlock()
}

// MaterialHandle — материал одного типа блока. Создаётся сразу с
// запасным плоским цветом; когда провайдер разрешит текстуру,
// материал обновляется на месте — уже размещённые воксели подхватят
// её без повторной установки.
type MaterialHandle struct {
	mu        sync.Mutex
	blockType block.BlockID
	color     block.Color
	texture   TextureRef
	resolved  bool
	released  bool
}

// BlockType возвращает тип блока материала
func (m *MaterialHandle) BlockType() block.BlockID { return m.blockType }

// Color возвращает запасной плоский цвет материала
func (m *MaterialHandle) Color() block.Color { return m.color }

// Texture возвращает текстуру, если провайдер её уже разрешил
func (m *MaterialHandle) Texture() (TextureRef, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.resolved || m.texture == "" {
		return "", false
	}
	return m.texture, true
}

// Resolved сообщает, завершил ли провайдер загрузку материала
func (m *MaterialHandle) Resolved() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolved
}

// Released сообщает, освобождён ли материал
func (m *MaterialHandle) Released() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

func (m *MaterialHandle) upgrade(tex TextureRef) {
	m.mu.Lock()
	if !m.released {
		m.texture = tex
		m.resolved = true
	}
	m.mu.Unlock()
}

func (m *MaterialHandle) release() {
	m.mu.Lock()
	m.released = true
	m.mu.Unlock()
}

// ResourcePool владеет общей геометрией и кешем материалов по типам
// блоков. Стоимость ресурсов сессии ограничена числом различных типов
// блоков, а не числом размещённых вокселей: каждая установка получает
// ссылку в кеш, а не собственную копию.
//
// Пул живёт столько же, сколько сессия редактора; Release освобождает
// всё ровно один раз. Удаление отдельного блока пул не трогает.
type ResourcePool struct {
	mu        sync.Mutex
	provider  GraphicsProvider // может быть nil
	geometry  *GeometryHandle
	materials map[block.BlockID]*MaterialHandle
	released  bool
	log       *logging.Logger
}

// NewResourcePool создает пул. provider может быть nil — тогда все
// материалы остаются плоским цветом.
func NewResourcePool(provider GraphicsProvider) *ResourcePool {
	return &ResourcePool{
		provider:  provider,
		geometry:  &GeometryHandle{},
		materials: make(map[block.BlockID]*MaterialHandle),
		log:       logging.GetEditorLogger(),
	}
}

// Geometry возвращает общий геометрический ресурс
func (p *ResourcePool) Geometry() *GeometryHandle {
	return p.geometry
}

// MaterialFor возвращает материал для типа блока, создавая и кешируя
// его при первом обращении. Материал сразу пригоден к использованию с
// запасным цветом; загрузка текстуры идёт асинхронно и не блокирует
// установку блоков.
func (p *ResourcePool) MaterialFor(id block.BlockID) *MaterialHandle {
	p.mu.Lock()
	if m, exists := p.materials[id]; exists {
		p.mu.Unlock()
		return m
	}

	def, known := block.Get(id)
	if !known {
		p.log.Warn("Материал запрошен для незарегистрированного блока %d", id)
	}

	m := &MaterialHandle{
		blockType: id,
		color:     def.FallbackColor,
	}
	p.materials[id] = m
	provider := p.provider
	p.mu.Unlock()

	if provider == nil {
		// Провайдера нет — материал окончательно остаётся плоским цветом
		m.upgrade("")
		return m
	}

	provider.LoadMaterial(id, func(tex TextureRef, err error) {
		if err != nil {
			p.log.Warn("Загрузка материала для блока %d не удалась, остаёмся на цвете: %v", id, err)
			m.upgrade("")
			return
		}
		m.upgrade(tex)
	})
	return m
}

// MaterialCount возвращает число закешированных материалов
func (p *ResourcePool) MaterialCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.materials)
}

// Release освобождает общую геометрию и все материалы. Повторные
// вызовы игнорируются.
func (p *ResourcePool) Release() {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return
	}
	p.released = true
	materials := p.materials
	p.materials = make(map[block.BlockID]*MaterialHandle)
	p.mu.Unlock()

	p.geometry.release()
	for _, m := range materials {
		m.release()
	}
	p.log.Debug("Пул ресурсов освобождён: %d материалов", len(materials))
}
