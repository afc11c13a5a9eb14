package editor

import (
	"math"

	"github.com/annel0/voxel-designer/internal/vec"
)

// Ray представляет луч пикинга: точка начала и направление.
// Направление не обязано быть нормированным.
type Ray struct {
	Origin    vec.Vec3Float
	Direction vec.Vec3Float
}

// AABB представляет выровненный по осям параллелепипед
type AABB struct {
	Min vec.Vec3Float
	Max vec.Vec3Float
}

// CellAABB возвращает объём ячейки решётки: ячейка c занимает
// единичный куб [c, c+1) по каждой оси.
func CellAABB(c vec.Vec3) AABB {
	lo := c.ToFloat()
	return AABB{
		Min: lo,
		Max: vec.Vec3Float{X: lo.X + 1, Y: lo.Y + 1, Z: lo.Z + 1},
	}
}

// HitKind различает попадание в плоскость земли и в размещённый блок
type HitKind int

const (
	HitGround HitKind = iota
	HitBlock
)

// Hit описывает ближайшее пересечение луча со сценой
type Hit struct {
	Kind     HitKind
	Cell     vec.Vec3      // Ячейка блока (для HitBlock)
	Normal   vec.Vec3      // Внешняя нормаль грани, в которую попал луч
	Distance float64       // Расстояние вдоль луча до точки попадания
	Point    vec.Vec3Float // Точка попадания в мировых координатах
}

// at возвращает точку на луче на расстоянии t
func (r Ray) at(t float64) vec.Vec3Float {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectAABB выполняет пересечение луча с боксом методом «плит».
// Возвращает расстояние входа, внешнюю нормаль входной грани и признак
// попадания. Пересечения позади начала луча не засчитываются.
func (r Ray) IntersectAABB(box AABB) (float64, vec.Vec3, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	var normal vec.Vec3

	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			// Луч параллелен плитам этой оси
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, vec.Vec3{}, false
			}
			continue
		}

		inv := 1 / dir[axis]
		t1 := (lo[axis] - origin[axis]) * inv
		t2 := (hi[axis] - origin[axis]) * inv

		axisNormal := -1
		if t1 > t2 {
			t1, t2 = t2, t1
			axisNormal = 1
		}
		if t1 > tMin {
			tMin = t1
			normal = vec.Vec3{}
			switch axis {
			case 0:
				normal.X = axisNormal
			case 1:
				normal.Y = axisNormal
			case 2:
				normal.Z = axisNormal
			}
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, vec.Vec3{}, false
		}
	}

	if tMax < 0 {
		// Бокс целиком позади начала луча
		return 0, vec.Vec3{}, false
	}
	if tMin < 0 {
		// Начало луча внутри бокса
		tMin = 0
	}
	return tMin, normal, true
}

// intersectGround пересекает луч с плоскостью земли Y=0.
// Засчитывается только попадание сверху (луч идёт вниз).
func (r Ray) intersectGround() (float64, bool) {
	if r.Direction.Y >= 0 {
		return 0, false
	}
	t := -r.Origin.Y / r.Direction.Y
	if t < 0 {
		return 0, false
	}
	return t, true
}

// PickCell находит ближайшее пересечение луча с плоскостью земли и с
// объёмами всех размещённых блоков. Побеждает минимальное расстояние;
// порядок перебора блоков не задан, но на результат не влияет.
// При промахе ok == false.
func PickCell(ray Ray, g *Grid) (Hit, bool) {
	best := Hit{Distance: math.Inf(1)}
	found := false

	if t, ok := ray.intersectGround(); ok {
		best = Hit{
			Kind:     HitGround,
			Normal:   vec.Vec3{Y: 1},
			Distance: t,
			Point:    ray.at(t),
		}
		found = true
	}

	for cell := range g.All() {
		t, normal, ok := ray.IntersectAABB(CellAABB(cell))
		if !ok || t >= best.Distance {
			continue
		}
		best = Hit{
			Kind:     HitBlock,
			Cell:     cell,
			Normal:   normal,
			Distance: t,
			Point:    ray.at(t),
		}
		found = true
	}

	return best, found
}

// PlacementTarget возвращает ячейку для установки нового блока:
// для земли — ячейку нулевого уровня под точкой попадания, для блока —
// соседа со стороны грани, в которую попал луч.
func (h Hit) PlacementTarget() vec.Vec3 {
	if h.Kind == HitGround {
		return vec.Vec3{
			X: int(math.Floor(h.Point.X)),
			Y: 0,
			Z: int(math.Floor(h.Point.Z)),
		}
	}
	return h.Cell.Add(h.Normal)
}

// RemovalTarget возвращает ячейку для удаления: сам блок, в который
// попал луч. Попадание в землю удалять нечего — ok == false.
func (h Hit) RemovalTarget() (vec.Vec3, bool) {
	if h.Kind != HitBlock {
		return vec.Vec3{}, false
	}
	return h.Cell, true
}
