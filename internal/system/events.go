package system

import "github.com/l1jgo/esworld/internal/core/ecs"

// Dead is sent by LifeSystem when an entity runs out of health.
type Dead struct {
	Entity ecs.Entity
}
