package editor

import (
	"math"

	"github.com/annel0/voxel-designer/internal/vec"
)

// CameraConfig задаёт пределы и значения по умолчанию орбитальной камеры
type CameraConfig struct {
	DefaultYaw      float64 // Градусы
	DefaultPitch    float64 // Градусы от горизонта
	DefaultDistance float64
	MinPitch        float64 // Нижняя граница наклона
	MaxPitch        float64 // Верхняя граница наклона
	MinDistance     float64
	MaxDistance     float64
	RotateSpeed     float64 // Градусы на пиксель перетаскивания
	PanStep         float64 // Шаг панорамирования на нажатие клавиши
	ZoomSpeed       float64 // Единицы дистанции на деление колеса
}

// DefaultCameraConfig возвращает конфигурацию камеры по умолчанию.
// Наклон зажат в полосе 10°–80° от горизонта, чтобы вид не
// перекидывался через полюса.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		DefaultYaw:      45,
		DefaultPitch:    35,
		DefaultDistance: 24,
		MinPitch:        10,
		MaxPitch:        80,
		MinDistance:     4,
		MaxDistance:     96,
		RotateSpeed:     0.4,
		PanStep:         1,
		ZoomSpeed:       2,
	}
}

// Camera реализует орбитальную камеру редактора: рыскание и наклон от
// перетаскивания указателя, панорамирование по земле от клавиш,
// дистанция от колеса. Это состояние вида, не структуры: камера не
// сохраняется и не участвует в истории правок.
type Camera struct {
	cfg      CameraConfig
	yaw      float64       // Поворот вокруг вертикальной оси, градусы
	pitch    float64       // Наклон от горизонта, градусы
	distance float64       // Дистанция орбиты
	pan      vec.Vec2Float // Смещение в плоскости земли (X, Z)

	lockX bool // Блокировка панорамирования по X
	lockZ bool // Блокировка панорамирования по Z
}

// NewCamera создает камеру в положении по умолчанию
func NewCamera(cfg CameraConfig) *Camera {
	c := &Camera{cfg: cfg}
	c.Reset()
	return c
}

// Reset возвращает рыскание, наклон, панораму и дистанцию к значениям
// по умолчанию
func (c *Camera) Reset() {
	c.yaw = c.cfg.DefaultYaw
	c.pitch = clamp(c.cfg.DefaultPitch, c.cfg.MinPitch, c.cfg.MaxPitch)
	c.distance = clamp(c.cfg.DefaultDistance, c.cfg.MinDistance, c.cfg.MaxDistance)
	c.pan = vec.Vec2Float{}
}

// Rotate обновляет рыскание и наклон по дельте перетаскивания
// указателя. Наклон зажимается в настроенной полосе.
func (c *Camera) Rotate(dx, dy float64) {
	c.yaw += dx * c.cfg.RotateSpeed
	c.pitch = clamp(c.pitch+dy*c.cfg.RotateSpeed, c.cfg.MinPitch, c.cfg.MaxPitch)
}

// Pan сдвигает цель камеры по плоскости земли. Ось, для которой
// включена блокировка, не сдвигается.
func (c *Camera) Pan(dx, dz float64) {
	if c.lockX {
		dx = 0
	}
	if c.lockZ {
		dz = 0
	}
	c.pan.X += dx * c.cfg.PanStep
	c.pan.Y += dz * c.cfg.PanStep
}

// Zoom изменяет дистанцию орбиты по дельте колеса
func (c *Camera) Zoom(delta float64) {
	c.distance = clamp(c.distance-delta*c.cfg.ZoomSpeed, c.cfg.MinDistance, c.cfg.MaxDistance)
}

// SetAxisLockX включает или выключает блокировку панорамирования по X
func (c *Camera) SetAxisLockX(locked bool) { c.lockX = locked }

// SetAxisLockZ включает или выключает блокировку панорамирования по Z
func (c *Camera) SetAxisLockZ(locked bool) { c.lockZ = locked }

// AxisLocks возвращает текущее состояние блокировок осей
func (c *Camera) AxisLocks() (x, z bool) { return c.lockX, c.lockZ }

// Yaw возвращает текущее рыскание в градусах
func (c *Camera) Yaw() float64 { return c.yaw }

// Pitch возвращает текущий наклон в градусах
func (c *Camera) Pitch() float64 { return c.pitch }

// Distance возвращает текущую дистанцию орбиты
func (c *Camera) Distance() float64 { return c.distance }

// Target возвращает точку, вокруг которой вращается камера:
// начало координат плюс смещение панорамы по земле.
func (c *Camera) Target() vec.Vec3Float {
	return vec.Vec3Float{X: c.pan.X, Y: 0, Z: c.pan.Y}
}

// Position выводит позицию камеры из рыскания, наклона и дистанции
// стандартным сферическо-декартовым преобразованием плюс панорама.
// Вычисление не имеет побочных эффектов и может повторяться на каждом
// кадре.
func (c *Camera) Position() vec.Vec3Float {
	yawRad := c.yaw * math.Pi / 180
	pitchRad := c.pitch * math.Pi / 180

	horizontal := c.distance * math.Cos(pitchRad)
	target := c.Target()
	return vec.Vec3Float{
		X: target.X + horizontal*math.Sin(yawRad),
		Y: target.Y + c.distance*math.Sin(pitchRad),
		Z: target.Z + horizontal*math.Cos(yawRad),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
