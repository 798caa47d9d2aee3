package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/esworld/internal/component"
	"github.com/l1jgo/esworld/internal/core/ecs"
	"gopkg.in/yaml.v3"
)

// Vec2 is a YAML point.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// SceneEntity describes one entity to spawn. Nil fields are not attached.
type SceneEntity struct {
	Name     string   `yaml:"name"`
	Position *Vec2    `yaml:"position"`
	Velocity *Vec2    `yaml:"velocity"`
	Sprite   string   `yaml:"sprite"`
	Layer    int      `yaml:"layer"`
	Health   *float64 `yaml:"health"`
}

// Components builds the component instances for e.
func (e *SceneEntity) Components() []any {
	var out []any
	if e.Position != nil {
		out = append(out, &component.Position{X: e.Position.X, Y: e.Position.Y})
	}
	if e.Velocity != nil {
		out = append(out, &component.Velocity{X: e.Velocity.X, Y: e.Velocity.Y})
	}
	if e.Sprite != "" {
		out = append(out, &component.Sprite{Image: e.Sprite, Layer: e.Layer})
	}
	if e.Health != nil {
		out = append(out, &component.Health{Points: *e.Health, Max: *e.Health})
	}
	return out
}

// Scene is the startup entity list.
type Scene struct {
	Entities []SceneEntity `yaml:"entities"`
}

// LoadScene loads a scene YAML file.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(raw)
}

// ParseScene decodes scene YAML. Names must be unique when set.
func ParseScene(raw []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	names := make(map[string]struct{}, len(s.Entities))
	for i := range s.Entities {
		name := s.Entities[i].Name
		if name == "" {
			continue
		}
		if _, dup := names[name]; dup {
			return nil, fmt.Errorf("parse scene: duplicate entity name %q", name)
		}
		names[name] = struct{}{}
	}
	return &s, nil
}

// Count returns the number of entities in the scene.
func (s *Scene) Count() int {
	return len(s.Entities)
}

// Spawn creates every scene entity in w and requests its components.
// Membership follows on the next w.Update.
func (s *Scene) Spawn(w *ecs.World) ([]ecs.Entity, error) {
	out := make([]ecs.Entity, 0, len(s.Entities))
	for i := range s.Entities {
		se := &s.Entities[i]
		e := w.CreateEntity()
		for _, c := range se.Components() {
			if err := e.AddComponent(c); err != nil {
				return out, fmt.Errorf("spawn %q: %w", se.Name, err)
			}
		}
		if se.Name != "" {
			if err := e.SetName(se.Name); err != nil {
				return out, fmt.Errorf("spawn %q: %w", se.Name, err)
			}
		}
		out = append(out, e)
	}
	return out, nil
}
