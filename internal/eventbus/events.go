package eventbus

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Типы событий редактора
const (
	EventSessionStarted  = "session_started"
	EventSessionEnded    = "session_ended"
	EventEditApplied     = "edit_applied"
	EventEditUndone      = "edit_undone"
	EventEditRedone      = "edit_redone"
	EventStructureSaved  = "structure_saved"
	EventStructureLoaded = "structure_loaded"
)

// EditPayload — полезная нагрузка событий редактирования
type EditPayload struct {
	Command    string `json:"command"`     // Вид команды (place, batch_remove…)
	BlockCount int    `json:"block_count"` // Число затронутых блоков
	GridSize   int    `json:"grid_size"`   // Размер сетки после применения
}

// StructurePayload — полезная нагрузка событий сохранения/загрузки
type StructurePayload struct {
	Name       string `json:"name"`
	BlockCount int    `json:"block_count"`
}

// NewEnvelope собирает конверт события с UUID и отметкой времени UTC.
// payload сериализуется в JSON; ошибка сериализации невозможна для
// типов нагрузок этого пакета, поэтому молча даёт пустой Payload.
func NewEnvelope(source, eventType string, payload interface{}) *Envelope {
	var data []byte
	if payload != nil {
		data, _ = json.Marshal(payload)
	}
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Payload:   data,
	}
}
