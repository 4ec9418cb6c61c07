package trace

import (
	"time"

	"github.com/petermattis/goid"
)

// Point emits an instant event under parent. It is a no-op when t is nil,
// disabled, or filters out scope.
func Point(t Tracer, scope Scope, name string, parent uint64, detail string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		GID:      goid.Get(),
		Name:     name,
		Detail:   detail,
	})
}
