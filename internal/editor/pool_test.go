package editor

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-designer/internal/world/block"
)

// fakeProvider реализует GraphicsProvider для тестов: загрузки
// копятся и завершаются вручную вызовом resolve/fail.
type fakeProvider struct {
	mu      sync.Mutex
	pending map[block.BlockID]func(TextureRef, error)
	loads   int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{pending: make(map[block.BlockID]func(TextureRef, error))}
}

func (f *fakeProvider) LoadMaterial(id block.BlockID, ready func(TextureRef, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[id] = ready
	f.loads++
}

func (f *fakeProvider) Thumbnail(id block.BlockID) (TextureRef, bool) {
	return "", false
}

func (f *fakeProvider) resolve(id block.BlockID, tex TextureRef) {
	f.mu.Lock()
	ready := f.pending[id]
	delete(f.pending, id)
	f.mu.Unlock()
	ready(tex, nil)
}

func (f *fakeProvider) fail(id block.BlockID) {
	f.mu.Lock()
	ready := f.pending[id]
	delete(f.pending, id)
	f.mu.Unlock()
	ready("", fmt.Errorf("текстура недоступна"))
}

func TestPoolSharedGeometry(t *testing.T) {
	p := NewResourcePool(nil)

	g1 := p.Geometry()
	g2 := p.Geometry()
	assert.Same(t, g1, g2, "геометрия общая: один куб на все воксели")
	assert.False(t, g1.Released())
}

func TestPoolMaterialCachedPerBlockType(t *testing.T) {
	provider := newFakeProvider()
	p := NewResourcePool(provider)

	m1 := p.MaterialFor(block.StoneBlockID)
	m2 := p.MaterialFor(block.StoneBlockID)
	m3 := p.MaterialFor(block.WoodBlockID)

	assert.Same(t, m1, m2, "повторный запрос того же типа возвращает кешированный материал")
	assert.NotSame(t, m1, m3, "разные типы блоков получают разные материалы")
	assert.Equal(t, 2, p.MaterialCount())
	assert.Equal(t, 2, provider.loads, "загрузка запускается один раз на тип")
}

func TestPoolFallbackColorImmediatelyUsable(t *testing.T) {
	provider := newFakeProvider()
	p := NewResourcePool(provider)

	m := p.MaterialFor(block.StoneBlockID)

	// Материал пригоден сразу, до разрешения текстуры
	def, _ := block.Get(block.StoneBlockID)
	assert.Equal(t, def.FallbackColor, m.Color(), "до загрузки материал живёт на запасном цвете")
	assert.False(t, m.Resolved(), "текстура ещё не разрешена")
	_, hasTex := m.Texture()
	assert.False(t, hasTex)

	// Провайдер завершил загрузку — материал обновился на месте
	provider.resolve(block.StoneBlockID, "blocks/stone.png")
	require.True(t, m.Resolved())
	tex, hasTex := m.Texture()
	require.True(t, hasTex)
	assert.Equal(t, TextureRef("blocks/stone.png"), tex)
}

func TestPoolLoadFailureKeepsColor(t *testing.T) {
	provider := newFakeProvider()
	p := NewResourcePool(provider)

	m := p.MaterialFor(block.GlassBlockID)
	provider.fail(block.GlassBlockID)

	assert.True(t, m.Resolved(), "после ошибки загрузка считается завершённой")
	_, hasTex := m.Texture()
	assert.False(t, hasTex, "при ошибке материал остаётся на плоском цвете")

	def, _ := block.Get(block.GlassBlockID)
	assert.Equal(t, def.FallbackColor, m.Color())
}

func TestPoolNilProvider(t *testing.T) {
	p := NewResourcePool(nil)

	m := p.MaterialFor(block.BrickBlockID)
	assert.True(t, m.Resolved(), "без провайдера материал окончательный сразу")
	_, hasTex := m.Texture()
	assert.False(t, hasTex, "без провайдера текстуры нет")

	def, _ := block.Get(block.BrickBlockID)
	assert.Equal(t, def.FallbackColor, m.Color())
}

func TestPoolUnknownBlockFallsBack(t *testing.T) {
	p := NewResourcePool(nil)

	m := p.MaterialFor(block.BlockID(9999))
	assert.Equal(t, block.Color{}, m.Color(), "незарегистрированный тип получает нулевой цвет")
	assert.Equal(t, 1, p.MaterialCount(), "материал всё равно кешируется")
}

func TestPoolReleaseOnce(t *testing.T) {
	provider := newFakeProvider()
	p := NewResourcePool(provider)

	m := p.MaterialFor(block.StoneBlockID)
	p.MaterialFor(block.WoodBlockID)

	p.Release()
	assert.True(t, p.Geometry().Released(), "геометрия освобождается вместе с пулом")
	assert.True(t, m.Released(), "материалы освобождаются вместе с пулом")
	assert.Equal(t, 0, p.MaterialCount())

	// Повторный Release — no-op
	p.Release()

	// Поздний колбэк провайдера не воскрешает освобождённый материал
	provider.resolve(block.StoneBlockID, "blocks/stone.png")
	_, hasTex := m.Texture()
	assert.False(t, hasTex, "освобождённый материал не должен принимать текстуру")
}
