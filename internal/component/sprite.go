package component

// Sprite names the image drawn at an entity's Position.
type Sprite struct {
	Image string
	Layer int
}
