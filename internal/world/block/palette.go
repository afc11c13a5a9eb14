package block

// Стандартная палитра редактора. Регистрируется при инициализации
// пакета; приложение может дорегистрировать свои блоки поверх.
func init() {
	Register(Definition{ID: StoneBlockID, Name: "Stone", FallbackColor: Color{R: 128, G: 128, B: 128, A: 255}, Texture: "blocks/stone.png"})
	Register(Definition{ID: DirtBlockID, Name: "Dirt", FallbackColor: Color{R: 134, G: 96, B: 67, A: 255}, Texture: "blocks/dirt.png"})
	Register(Definition{ID: GrassBlockID, Name: "Grass", FallbackColor: Color{R: 95, G: 159, B: 53, A: 255}, Texture: "blocks/grass.png"})
	Register(Definition{ID: SandBlockID, Name: "Sand", FallbackColor: Color{R: 219, G: 207, B: 163, A: 255}, Texture: "blocks/sand.png"})
	Register(Definition{ID: WoodBlockID, Name: "Wood", FallbackColor: Color{R: 102, G: 81, B: 50, A: 255}, Texture: "blocks/wood.png"})
	Register(Definition{ID: PlankBlockID, Name: "Plank", FallbackColor: Color{R: 157, G: 128, B: 79, A: 255}, Texture: "blocks/plank.png"})
	Register(Definition{ID: GlassBlockID, Name: "Glass", FallbackColor: Color{R: 200, G: 224, B: 230, A: 140}, Texture: "blocks/glass.png"})
	Register(Definition{ID: BrickBlockID, Name: "Brick", FallbackColor: Color{R: 150, G: 60, B: 50, A: 255}, Texture: "blocks/brick.png"})
	Register(Definition{ID: ObsidianBlockID, Name: "Obsidian", FallbackColor: Color{R: 25, G: 18, B: 36, A: 255}, Texture: "blocks/obsidian.png"})
	Register(Definition{ID: SnowBlockID, Name: "Snow", FallbackColor: Color{R: 240, G: 244, B: 248, A: 255}, Texture: "blocks/snow.png"})
}
