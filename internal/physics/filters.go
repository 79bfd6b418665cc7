package physics

import "github.com/jakecoffman/cp"

// CategoryWindowInner marks colliders that live inside the window: the window's own
// body box and the monitor walls only accept contacts from this category.
const CategoryWindowInner uint = 1 << 0

const allCategories = ^uint(0)

var (
	// Window body box: collides with the monitor walls only.
	windowBoxFilter = cp.ShapeFilter{Categories: allCategories, Mask: CategoryWindowInner}
	// Window walls: collide with decorations, never with the monitor.
	windowWallFilter = cp.ShapeFilter{Categories: ^CategoryWindowInner, Mask: allCategories}
	// Monitor walls: stop the window box only.
	monitorWallFilter = cp.ShapeFilter{Categories: allCategories, Mask: CategoryWindowInner}
	// Decorations: bounce off the window walls, ignore the window box and the monitor.
	decorationFilter = cp.ShapeFilter{Categories: ^CategoryWindowInner, Mask: allCategories}
)

// Interacts reports whether two filters allow a contact, using the same rule as the
// engine's broadphase: a shared non-zero group rejects, and each side's categories must
// intersect the other's mask.
func Interacts(a, b cp.ShapeFilter) bool {
	if a.Group != 0 && a.Group == b.Group {
		return false
	}
	return a.Categories&b.Mask != 0 && b.Categories&a.Mask != 0
}
