package editor

import (
	"math"

	"github.com/annel0/voxel-designer/internal/vec"
)

// ToolMode определяет активный инструмент редактора
type ToolMode int

const (
	ToolPlace ToolMode = iota // Одиночная установка блока
	ToolRemove                // Одиночное удаление блока
	ToolFillCube
	ToolHollowCube
	ToolWall
	ToolFloor
	ToolLine
	ToolHollowSphere
	ToolHollowCylinder
	ToolHollowPyramid
	ToolDoor
)

// String возвращает строковое представление инструмента
func (m ToolMode) String() string {
	switch m {
	case ToolPlace:
		return "place"
	case ToolRemove:
		return "remove"
	case ToolFillCube:
		return "fill_cube"
	case ToolHollowCube:
		return "hollow_cube"
	case ToolWall:
		return "wall"
	case ToolFloor:
		return "floor"
	case ToolLine:
		return "line"
	case ToolHollowSphere:
		return "hollow_sphere"
	case ToolHollowCylinder:
		return "hollow_cylinder"
	case ToolHollowPyramid:
		return "hollow_pyramid"
	case ToolDoor:
		return "door"
	default:
		return "unknown"
	}
}

// IsShapeTool сообщает, требует ли инструмент двух якорных точек
func (m ToolMode) IsShapeTool() bool {
	switch m {
	case ToolFillCube, ToolHollowCube, ToolWall, ToolFloor, ToolLine,
		ToolHollowSphere, ToolHollowCylinder, ToolHollowPyramid:
		return true
	default:
		return false
	}
}

// IsRemoval сообщает, удаляет ли инструмент блоки вместо установки
func (m ToolMode) IsRemoval() bool {
	return m == ToolRemove || m == ToolDoor
}

// ShapePositions порождает упорядоченный набор координат ячеек для
// инструмента и пары якорных точек. Функция чистая: состояние сетки
// не читается, пересечения с занятыми ячейками разрешает вызывающий
// код. Для вырожденных параметров (нулевой радиус, нулевая высота)
// возвращается nil — такая фигура не должна порождать команду.
func ShapePositions(mode ToolMode, a, b vec.Vec3) []vec.Vec3 {
	switch mode {
	case ToolFillCube:
		return fillCubePositions(a, b)
	case ToolHollowCube:
		return hollowCubePositions(a, b)
	case ToolWall:
		return wallPositions(a, b)
	case ToolFloor:
		return floorPositions(a, b)
	case ToolLine:
		return linePositions(a, b)
	case ToolHollowSphere:
		return hollowSpherePositions(a, b)
	case ToolHollowCylinder:
		return hollowCylinderPositions(a, b)
	case ToolHollowPyramid:
		return hollowPyramidPositions(a, b)
	case ToolDoor:
		return doorPositions(a)
	default:
		return nil
	}
}

// fillCubePositions возвращает все целые точки бокса между a и b включительно
func fillCubePositions(a, b vec.Vec3) []vec.Vec3 {
	lo, hi := vec.Min(a, b), vec.Max(a, b)
	positions := make([]vec.Vec3, 0, (hi.X-lo.X+1)*(hi.Y-lo.Y+1)*(hi.Z-lo.Z+1))
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				positions = append(positions, vec.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	return positions
}

// hollowCubePositions возвращает только оболочку бокса: точки, у которых
// хотя бы одна компонента совпадает с границей по своей оси.
func hollowCubePositions(a, b vec.Vec3) []vec.Vec3 {
	lo, hi := vec.Min(a, b), vec.Max(a, b)
	var positions []vec.Vec3
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				onShell := x == lo.X || x == hi.X ||
					y == lo.Y || y == hi.Y ||
					z == lo.Z || z == hi.Z
				if onShell {
					positions = append(positions, vec.Vec3{X: x, Y: y, Z: z})
				}
			}
		}
	}
	return positions
}

// wallPositions строит вертикальную плоскость. Свободной горизонтальной
// осью становится та (X или Z), у которой больше размах между якорями;
// вторая горизонтальная ось прижимается к значению точки a.
func wallPositions(a, b vec.Vec3) []vec.Vec3 {
	lo, hi := vec.Min(a, b), vec.Max(a, b)
	spanX := hi.X - lo.X
	spanZ := hi.Z - lo.Z

	var positions []vec.Vec3
	if spanX >= spanZ {
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				positions = append(positions, vec.Vec3{X: x, Y: y, Z: a.Z})
			}
		}
	} else {
		for z := lo.Z; z <= hi.Z; z++ {
			for y := lo.Y; y <= hi.Y; y++ {
				positions = append(positions, vec.Vec3{X: a.X, Y: y, Z: z})
			}
		}
	}
	return positions
}

// floorPositions строит горизонтальную плоскость на высоте точки a
func floorPositions(a, b vec.Vec3) []vec.Vec3 {
	lo, hi := vec.Min(a, b), vec.Max(a, b)
	positions := make([]vec.Vec3, 0, (hi.X-lo.X+1)*(hi.Z-lo.Z+1))
	for x := lo.X; x <= hi.X; x++ {
		for z := lo.Z; z <= hi.Z; z++ {
			positions = append(positions, vec.Vec3{X: x, Y: a.Y, Z: z})
		}
	}
	return positions
}

// linePositions строит точную цифровую 3D-линию между a и b
// (алгоритм Брезенхэма с накоплением ошибки). Шаги задаёт ось с
// наибольшей |дельтой|; две другие оси накапливают ошибку, кратную
// удвоенной дельте, и сдвигаются на ±1 при её переполнении.
// Результат — ровно max(|Δx|,|Δy|,|Δz|)+1 точек связного пути.
func linePositions(a, b vec.Vec3) []vec.Vec3 {
	dx, dy, dz := abs(b.X-a.X), abs(b.Y-a.Y), abs(b.Z-a.Z)
	sx, sy, sz := sign(b.X-a.X), sign(b.Y-a.Y), sign(b.Z-a.Z)

	p := a
	positions := []vec.Vec3{p}

	switch {
	case dx >= dy && dx >= dz:
		e1, e2 := 2*dy-dx, 2*dz-dx
		for p.X != b.X {
			p.X += sx
			if e1 >= 0 {
				p.Y += sy
				e1 -= 2 * dx
			}
			if e2 >= 0 {
				p.Z += sz
				e2 -= 2 * dx
			}
			e1 += 2 * dy
			e2 += 2 * dz
			positions = append(positions, p)
		}
	case dy >= dx && dy >= dz:
		e1, e2 := 2*dx-dy, 2*dz-dy
		for p.Y != b.Y {
			p.Y += sy
			if e1 >= 0 {
				p.X += sx
				e1 -= 2 * dy
			}
			if e2 >= 0 {
				p.Z += sz
				e2 -= 2 * dy
			}
			e1 += 2 * dx
			e2 += 2 * dz
			positions = append(positions, p)
		}
	default:
		e1, e2 := 2*dx-dz, 2*dy-dz
		for p.Z != b.Z {
			p.Z += sz
			if e1 >= 0 {
				p.X += sx
				e1 -= 2 * dz
			}
			if e2 >= 0 {
				p.Y += sy
				e2 -= 2 * dz
			}
			e1 += 2 * dx
			e2 += 2 * dy
			positions = append(positions, p)
		}
	}
	return positions
}

// hollowSpherePositions строит сферическую оболочку с центром в a.
// Радиус — округлённое евклидово расстояние до b; точка принадлежит
// оболочке, если её расстояние до центра лежит в [r−0.5, r+0.5].
// Точки ниже уровня земли (Y<0) исключаются. Нулевой радиус вырожден.
func hollowSpherePositions(a, b vec.Vec3) []vec.Vec3 {
	r := int(math.Round(a.DistanceTo(b)))
	if r == 0 {
		return nil
	}

	var positions []vec.Vec3
	for x := a.X - r; x <= a.X+r; x++ {
		for y := a.Y - r; y <= a.Y+r; y++ {
			if y < 0 {
				continue
			}
			for z := a.Z - r; z <= a.Z+r; z++ {
				p := vec.Vec3{X: x, Y: y, Z: z}
				d := p.DistanceTo(a)
				if d >= float64(r)-0.5 && d <= float64(r)+0.5 {
					positions = append(positions, p)
				}
			}
		}
	}
	return positions
}

// hollowCylinderPositions строит цилиндрическую оболочку без торцов.
// Основание — точка a на её высоте; радиус — округлённое горизонтальное
// расстояние до b (Y игнорируется); высота — |Δy|. Слои идут от a.Y
// вверх, точка слоя принадлежит оболочке, если её горизонтальное
// расстояние до оси лежит в [r−0.5, r+0.5]. Y<0 исключаются.
func hollowCylinderPositions(a, b vec.Vec3) []vec.Vec3 {
	r := int(math.Round(a.HorizontalDistanceTo(b)))
	if r == 0 {
		return nil
	}
	height := abs(b.Y - a.Y)

	var positions []vec.Vec3
	for y := a.Y; y <= a.Y+height; y++ {
		if y < 0 {
			continue
		}
		for x := a.X - r; x <= a.X+r; x++ {
			for z := a.Z - r; z <= a.Z+r; z++ {
				p := vec.Vec3{X: x, Y: y, Z: z}
				d := p.HorizontalDistanceTo(a)
				if d >= float64(r)-0.5 && d <= float64(r)+0.5 {
					positions = append(positions, p)
				}
			}
		}
	}
	return positions
}

// hollowPyramidPositions строит пирамиду послойно от основания вверх.
// Основание — прямоугольник, натянутый на a и b по горизонтали, на
// высоте a.Y; высота — |Δy|. На доле высоты f прямоугольник слоя
// линейно сжимается к центру с коэффициентом (1−f) по обеим
// горизонтальным осям; выкладываются только краевые ячейки. Слой
// пропускается, когда сжатые размеры дошли до нуля; слои ниже Y=0
// исключаются. Нулевая высота вырождена.
func hollowPyramidPositions(a, b vec.Vec3) []vec.Vec3 {
	height := abs(b.Y - a.Y)
	if height == 0 {
		return nil
	}

	lo, hi := vec.Min(a, b), vec.Max(a, b)
	cx := float64(lo.X+hi.X) / 2
	cz := float64(lo.Z+hi.Z) / 2
	halfX := float64(hi.X-lo.X) / 2
	halfZ := float64(hi.Z-lo.Z) / 2

	var positions []vec.Vec3
	for i := 0; i < height; i++ {
		y := a.Y + i
		if y < 0 {
			continue
		}

		f := float64(i) / float64(height)
		hx := halfX * (1 - f)
		hz := halfZ * (1 - f)

		x0, x1 := int(math.Ceil(cx-hx)), int(math.Floor(cx+hx))
		z0, z1 := int(math.Ceil(cz-hz)), int(math.Floor(cz+hz))
		if x1 < x0 || z1 < z0 {
			// Сжатые размеры дошли до нуля — слой пропускается
			continue
		}

		for x := x0; x <= x1; x++ {
			for z := z0; z <= z1; z++ {
				onEdge := x == x0 || x == x1 || z == z0 || z == z1
				if onEdge {
					positions = append(positions, vec.Vec3{X: x, Y: y, Z: z})
				}
			}
		}
	}
	return positions
}

// doorPositions возвращает четыре ячейки дверного проёма 2×2 с нижним
// углом в a: ширина вдоль X, высота вдоль Y. Инструмент двери всегда
// удаляет блоки, никогда не ставит.
func doorPositions(a vec.Vec3) []vec.Vec3 {
	return []vec.Vec3{
		a,
		{X: a.X + 1, Y: a.Y, Z: a.Z},
		{X: a.X, Y: a.Y + 1, Z: a.Z},
		{X: a.X + 1, Y: a.Y + 1, Z: a.Z},
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
