package block

// BlockID представляет идентификатор типа блока
type BlockID uint16

// Константы ID блоков
const (
	// Базовые строительные блоки
	StoneBlockID BlockID = iota + 1 // 1
	DirtBlockID                     // 2
	GrassBlockID                    // 3
	SandBlockID                     // 4
	WoodBlockID                     // 5
	PlankBlockID                    // 6

	// Для возможности расширения оставляем промежутки между категориями

	// Декоративные блоки (начиная со 100)
	GlassBlockID    BlockID = 100 // Стекло
	BrickBlockID    BlockID = 101 // Кирпич
	ObsidianBlockID BlockID = 102 // Обсидиан
	SnowBlockID     BlockID = 103 // Снег
)

// Color задаёт запасной плоский цвет блока (RGBA).
// Используется пулом ресурсов, когда графический провайдер
// недоступен или текстура не загрузилась.
type Color struct {
	R, G, B, A uint8
}

// Definition описывает тип блока в палитре редактора.
// В отличие от игрового сервера блоки здесь инертны:
// никакого поведения, только имя, цвет и путь к текстуре.
type Definition struct {
	ID            BlockID
	Name          string // Человекочитаемое имя для палитры и сохранений
	FallbackColor Color  // Плоский цвет, если текстуры нет
	Texture       string // Относительный путь к текстуре (может быть пустым)
}

var registry = make(map[BlockID]Definition)

// Register добавляет определение блока в регистр
func Register(def Definition) {
	registry[def.ID] = def
}

// Get возвращает определение для указанного ID
func Get(id BlockID) (Definition, bool) {
	def, exists := registry[id]
	return def, exists
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	_, exists := registry[id]
	return exists
}

// All возвращает все зарегистрированные определения.
// Порядок не гарантируется.
func All() []Definition {
	defs := make([]Definition, 0, len(registry))
	for _, def := range registry {
		defs = append(defs, def)
	}
	return defs
}
