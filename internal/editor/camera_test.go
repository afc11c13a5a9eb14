package editor

import (
	"math"
	"testing"
)

func TestCameraPitchClamped(t *testing.T) {
	c := NewCamera(DefaultCameraConfig())

	// Тянем вверх далеко за пределы полосы
	c.Rotate(0, 1000)
	if c.Pitch() != 80 {
		t.Errorf("Наклон должен зажиматься на 80°, получено %.2f", c.Pitch())
	}

	// Тянем вниз далеко за пределы полосы
	c.Rotate(0, -1000)
	if c.Pitch() != 10 {
		t.Errorf("Наклон должен зажиматься на 10°, получено %.2f", c.Pitch())
	}
}

func TestCameraYawUnbounded(t *testing.T) {
	cfg := DefaultCameraConfig()
	c := NewCamera(cfg)

	c.Rotate(100, 0)
	want := cfg.DefaultYaw + 100*cfg.RotateSpeed
	if math.Abs(c.Yaw()-want) > 1e-9 {
		t.Errorf("Рыскание не зажимается: ожидалось %.2f, получено %.2f", want, c.Yaw())
	}
}

func TestCameraZoomClamped(t *testing.T) {
	cfg := DefaultCameraConfig()
	c := NewCamera(cfg)

	c.Zoom(1000)
	if c.Distance() != cfg.MinDistance {
		t.Errorf("Дистанция должна зажиматься снизу на %.1f, получено %.2f", cfg.MinDistance, c.Distance())
	}

	c.Zoom(-1000)
	if c.Distance() != cfg.MaxDistance {
		t.Errorf("Дистанция должна зажиматься сверху на %.1f, получено %.2f", cfg.MaxDistance, c.Distance())
	}
}

func TestCameraPanAxisLock(t *testing.T) {
	c := NewCamera(DefaultCameraConfig())

	c.SetAxisLockX(true)
	c.Pan(5, 3)

	target := c.Target()
	if target.X != 0 {
		t.Errorf("Заблокированная ось X не должна сдвигаться, получено %.2f", target.X)
	}
	if target.Z == 0 {
		t.Error("Свободная ось Z должна сдвигаться")
	}

	c.SetAxisLockX(false)
	c.SetAxisLockZ(true)
	before := c.Target()
	c.Pan(2, 7)
	after := c.Target()

	if after.X == before.X {
		t.Error("Разблокированная ось X должна сдвигаться")
	}
	if after.Z != before.Z {
		t.Errorf("Заблокированная ось Z не должна сдвигаться: %.2f -> %.2f", before.Z, after.Z)
	}

	lockX, lockZ := c.AxisLocks()
	if lockX || !lockZ {
		t.Errorf("Состояние блокировок: ожидалось (false, true), получено (%v, %v)", lockX, lockZ)
	}
}

func TestCameraReset(t *testing.T) {
	cfg := DefaultCameraConfig()
	c := NewCamera(cfg)

	c.Rotate(50, 20)
	c.Zoom(5)
	c.Pan(3, -2)
	c.Reset()

	if c.Yaw() != cfg.DefaultYaw || c.Pitch() != cfg.DefaultPitch || c.Distance() != cfg.DefaultDistance {
		t.Errorf("Reset должен вернуть положение по умолчанию: yaw=%.1f pitch=%.1f dist=%.1f",
			c.Yaw(), c.Pitch(), c.Distance())
	}
	if target := c.Target(); target.X != 0 || target.Z != 0 {
		t.Errorf("Reset должен обнулить панораму, цель %v", target)
	}
}

func TestCameraPositionDerivation(t *testing.T) {
	cfg := DefaultCameraConfig()
	cfg.DefaultYaw = 0
	cfg.DefaultPitch = 30
	cfg.DefaultDistance = 10
	c := NewCamera(cfg)

	pos := c.Position()

	// При нулевом рыскании камера стоит на оси +Z от цели
	if math.Abs(pos.X) > 1e-9 {
		t.Errorf("При yaw=0 ожидалось X=0, получено %.4f", pos.X)
	}
	wantY := 10 * math.Sin(30*math.Pi/180)
	wantZ := 10 * math.Cos(30*math.Pi/180)
	if math.Abs(pos.Y-wantY) > 1e-9 || math.Abs(pos.Z-wantZ) > 1e-9 {
		t.Errorf("Ожидалось (0, %.4f, %.4f), получено (%.4f, %.4f, %.4f)",
			wantY, wantZ, pos.X, pos.Y, pos.Z)
	}

	// Дистанция от цели до камеры равна дистанции орбиты
	d := pos.DistanceTo(c.Target())
	if math.Abs(d-10) > 1e-9 {
		t.Errorf("Расстояние до цели должно равняться дистанции орбиты: %.4f", d)
	}
}

func TestCameraPositionFollowsPan(t *testing.T) {
	c := NewCamera(DefaultCameraConfig())

	before := c.Position()
	c.Pan(4, 0)
	after := c.Position()

	cfg := DefaultCameraConfig()
	if math.Abs((after.X-before.X)-4*cfg.PanStep) > 1e-9 {
		t.Errorf("Позиция камеры должна сдвигаться вместе с панорамой: ΔX=%.4f", after.X-before.X)
	}
	if math.Abs(after.Y-before.Y) > 1e-9 {
		t.Error("Панорамирование по земле не должно менять высоту камеры")
	}
}
