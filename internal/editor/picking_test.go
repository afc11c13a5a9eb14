package editor

import (
	"math"
	"testing"

	"github.com/annel0/voxel-designer/internal/vec"
	"github.com/annel0/voxel-designer/internal/world/block"
)

func TestPickGround(t *testing.T) {
	g := NewGrid()
	ray := Ray{
		Origin:    vec.Vec3Float{X: 2.5, Y: 10, Z: 3.5},
		Direction: vec.Vec3Float{X: 0, Y: -1, Z: 0},
	}

	hit, ok := PickCell(ray, g)
	if !ok {
		t.Fatal("Луч вниз должен попасть в плоскость земли")
	}
	if hit.Kind != HitGround {
		t.Fatalf("Ожидалось попадание в землю, получено %v", hit.Kind)
	}
	if math.Abs(hit.Distance-10) > 1e-9 {
		t.Errorf("Ожидалось расстояние 10, получено %.4f", hit.Distance)
	}

	target := hit.PlacementTarget()
	want := vec.Vec3{X: 2, Y: 0, Z: 3}
	if !target.Equals(want) {
		t.Errorf("Цель установки: ожидалось %v, получено %v", want, target)
	}

	// Попадание в землю удалять нечего
	if _, ok := hit.RemovalTarget(); ok {
		t.Error("Попадание в землю не должно давать цель удаления")
	}
}

func TestPickGroundNegativeCoordinates(t *testing.T) {
	g := NewGrid()
	ray := Ray{
		Origin:    vec.Vec3Float{X: -0.5, Y: 5, Z: -2.5},
		Direction: vec.Vec3Float{X: 0, Y: -1, Z: 0},
	}

	hit, ok := PickCell(ray, g)
	if !ok {
		t.Fatal("Луч вниз должен попасть в землю")
	}

	// Округление вниз, а не к нулю: -0.5 лежит в ячейке -1
	target := hit.PlacementTarget()
	want := vec.Vec3{X: -1, Y: 0, Z: -3}
	if !target.Equals(want) {
		t.Errorf("Цель установки: ожидалось %v, получено %v", want, target)
	}
}

func TestPickMiss(t *testing.T) {
	g := NewGrid()
	ray := Ray{
		Origin:    vec.Vec3Float{X: 0, Y: 5, Z: 0},
		Direction: vec.Vec3Float{X: 0, Y: 1, Z: 0}, // вверх, мимо всего
	}

	if _, ok := PickCell(ray, g); ok {
		t.Error("Луч вверх над пустой сценой должен промахнуться")
	}
}

func TestPickBlockBeatsGround(t *testing.T) {
	g := NewGrid()
	g.Set(vec.Vec3{X: 0, Y: 0, Z: 0}, block.StoneBlockID)

	// Луч вниз сквозь блок: блок ближе земли
	ray := Ray{
		Origin:    vec.Vec3Float{X: 0.5, Y: 5, Z: 0.5},
		Direction: vec.Vec3Float{X: 0, Y: -1, Z: 0},
	}

	hit, ok := PickCell(ray, g)
	if !ok {
		t.Fatal("Луч должен попасть в блок")
	}
	if hit.Kind != HitBlock {
		t.Fatalf("Блок ближе земли: ожидался HitBlock, получено %v", hit.Kind)
	}
	if !hit.Cell.Equals(vec.Vec3{X: 0, Y: 0, Z: 0}) {
		t.Errorf("Ожидалась ячейка (0,0,0), получено %v", hit.Cell)
	}
	if !hit.Normal.Equals(vec.Vec3{Y: 1}) {
		t.Errorf("Луч сверху входит через верхнюю грань: нормаль %v", hit.Normal)
	}

	// Установка — в соседа со стороны входной грани
	target := hit.PlacementTarget()
	if !target.Equals(vec.Vec3{X: 0, Y: 1, Z: 0}) {
		t.Errorf("Цель установки над блоком: получено %v", target)
	}

	// Удаление — сам блок
	removal, ok := hit.RemovalTarget()
	if !ok || !removal.Equals(vec.Vec3{X: 0, Y: 0, Z: 0}) {
		t.Errorf("Цель удаления должна быть самим блоком, получено %v", removal)
	}
}

func TestPickSideFaceNormal(t *testing.T) {
	g := NewGrid()
	g.Set(vec.Vec3{X: 0, Y: 0, Z: 0}, block.StoneBlockID)

	// Горизонтальный луч в боковую грань X=1
	ray := Ray{
		Origin:    vec.Vec3Float{X: 5, Y: 0.5, Z: 0.5},
		Direction: vec.Vec3Float{X: -1, Y: 0, Z: 0},
	}

	hit, ok := PickCell(ray, g)
	if !ok || hit.Kind != HitBlock {
		t.Fatal("Горизонтальный луч должен попасть в блок")
	}
	if !hit.Normal.Equals(vec.Vec3{X: 1}) {
		t.Errorf("Ожидалась нормаль +X, получено %v", hit.Normal)
	}
	if !hit.PlacementTarget().Equals(vec.Vec3{X: 1, Y: 0, Z: 0}) {
		t.Errorf("Установка сбоку: получено %v", hit.PlacementTarget())
	}
}

func TestPickNearestBlockWins(t *testing.T) {
	g := NewGrid()
	g.Set(vec.Vec3{X: 0, Y: 0, Z: 0}, block.StoneBlockID)
	g.Set(vec.Vec3{X: 0, Y: 0, Z: 3}, block.StoneBlockID)

	// Луч вдоль -Z: ближе блок с Z=3
	ray := Ray{
		Origin:    vec.Vec3Float{X: 0.5, Y: 0.5, Z: 10},
		Direction: vec.Vec3Float{X: 0, Y: 0, Z: -1},
	}

	hit, ok := PickCell(ray, g)
	if !ok || hit.Kind != HitBlock {
		t.Fatal("Луч должен попасть в блок")
	}
	if !hit.Cell.Equals(vec.Vec3{X: 0, Y: 0, Z: 3}) {
		t.Errorf("Побеждает ближайший блок: ожидалась ячейка (0,0,3), получено %v", hit.Cell)
	}
}

func TestIntersectAABBBehindRay(t *testing.T) {
	box := CellAABB(vec.Vec3{X: 0, Y: 0, Z: 0})
	ray := Ray{
		Origin:    vec.Vec3Float{X: 5, Y: 0.5, Z: 0.5},
		Direction: vec.Vec3Float{X: 1, Y: 0, Z: 0}, // от бокса
	}

	if _, _, ok := ray.IntersectAABB(box); ok {
		t.Error("Бокс позади начала луча не должен засчитываться")
	}
}

func TestIntersectAABBParallelOutside(t *testing.T) {
	box := CellAABB(vec.Vec3{X: 0, Y: 0, Z: 0})
	ray := Ray{
		Origin:    vec.Vec3Float{X: 0.5, Y: 5, Z: 0.5},
		Direction: vec.Vec3Float{X: 1, Y: 0, Z: 0}, // параллелен плитам Y, вне их
	}

	if _, _, ok := ray.IntersectAABB(box); ok {
		t.Error("Луч, параллельный плитам оси вне диапазона, должен промахнуться")
	}
}

func TestIntersectAABBOriginInside(t *testing.T) {
	box := CellAABB(vec.Vec3{X: 0, Y: 0, Z: 0})
	ray := Ray{
		Origin:    vec.Vec3Float{X: 0.5, Y: 0.5, Z: 0.5},
		Direction: vec.Vec3Float{X: 0, Y: -1, Z: 0},
	}

	dist, _, ok := ray.IntersectAABB(box)
	if !ok {
		t.Fatal("Луч изнутри бокса должен засчитываться")
	}
	if dist != 0 {
		t.Errorf("Начало внутри бокса: расстояние входа 0, получено %.4f", dist)
	}
}

func TestGroundNotHitFromBelow(t *testing.T) {
	g := NewGrid()
	ray := Ray{
		Origin:    vec.Vec3Float{X: 0.5, Y: -5, Z: 0.5},
		Direction: vec.Vec3Float{X: 0, Y: 1, Z: 0},
	}

	hit, ok := PickCell(ray, g)
	if ok && hit.Kind == HitGround {
		t.Error("Земля засчитывается только при попадании сверху")
	}
}
