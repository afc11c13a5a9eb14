package vec

import "math"

// Vec3 представляет координату ячейки решётки — целочисленную тройку (X, Y, Z).
// Используется как ключ в воксельной сетке; равенство — покомпонентное.
type Vec3 struct {
	X int
	Y int
	Z int
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub вычитает другой вектор
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// DistanceTo возвращает евклидово расстояние до другой ячейки
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	dz := float64(v.Z - other.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// HorizontalDistanceTo возвращает расстояние в плоскости XZ (Y игнорируется).
// Радиус цилиндра меряется именно так.
func (v Vec3) HorizontalDistanceTo(other Vec3) float64 {
	dx := float64(v.X - other.X)
	dz := float64(v.Z - other.Z)
	return math.Sqrt(dx*dx + dz*dz)
}

// ToFloat преобразует координату ячейки в вектор с плавающей точкой
func (v Vec3) ToFloat() Vec3Float {
	return Vec3Float{
		X: float64(v.X),
		Y: float64(v.Y),
		Z: float64(v.Z),
	}
}

// Min возвращает покомпонентный минимум двух векторов
func Min(a, b Vec3) Vec3 {
	return Vec3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)}
}

// Max возвращает покомпонентный максимум двух векторов
func Max(a, b Vec3) Vec3 {
	return Vec3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)}
}
