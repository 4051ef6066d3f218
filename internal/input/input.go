// Package input turns GLFW key and mouse events into the viewer's controls:
// held movement actions, one-shot toggles and the hotbar slot.
package input

import (
	"sync"

	"spherecraft/internal/player"

	"github.com/go-gl/glfw/v3.3/glfw"
	"golang.org/x/exp/maps"
)

// Action is a logical control of the viewer.
type Action uint8

const (
	MoveForward Action = iota
	MoveBackward
	MoveLeft
	MoveRight
	Jump
	Sprint
	Descend
	ToggleFlight
	Pause
	Hotbar1
	Hotbar2
	Hotbar3
	ToggleWireframe
	ToggleProfiling
	RenderDistanceUp
	RenderDistanceDown
	Break
	Place

	actionCount
)

// Trigger is a physical key or mouse button.
type Trigger struct {
	Key    glfw.Key
	Button glfw.MouseButton
	Mouse  bool
}

// Key returns the trigger for a keyboard key.
func Key(k glfw.Key) Trigger { return Trigger{Key: k} }

// Button returns the trigger for a mouse button.
func Button(b glfw.MouseButton) Trigger { return Trigger{Button: b, Mouse: true} }

// DefaultBindings is the stock layout: WASD to walk, space and shift for
// vertical motion, mouse buttons to edit.
var DefaultBindings = map[Trigger]Action{
	Key(glfw.KeyW):                MoveForward,
	Key(glfw.KeyS):                MoveBackward,
	Key(glfw.KeyA):                MoveLeft,
	Key(glfw.KeyD):                MoveRight,
	Key(glfw.KeySpace):            Jump,
	Key(glfw.KeyLeftControl):      Sprint,
	Key(glfw.KeyLeftShift):        Descend,
	Key(glfw.KeyG):                ToggleFlight,
	Key(glfw.KeyEscape):           Pause,
	Key(glfw.Key1):                Hotbar1,
	Key(glfw.Key2):                Hotbar2,
	Key(glfw.Key3):                Hotbar3,
	Key(glfw.KeyF):                ToggleWireframe,
	Key(glfw.KeyV):                ToggleProfiling,
	Key(glfw.KeyEqual):            RenderDistanceUp,
	Key(glfw.KeyMinus):            RenderDistanceDown,
	Button(glfw.MouseButtonLeft):  Break,
	Button(glfw.MouseButtonRight): Place,
}

// Controls collects held and freshly pressed actions between frames. Events
// arrive from GLFW callbacks; the game loop reads and then calls EndFrame.
type Controls struct {
	mu       sync.Mutex
	bindings map[Trigger]Action
	down     map[Trigger]bool
	held     [actionCount]uint8 // triggers currently holding each action
	pressed  uint32
}

// NewControls creates controls over a copy of bindings; nil means DefaultBindings.
func NewControls(bindings map[Trigger]Action) *Controls {
	if bindings == nil {
		bindings = DefaultBindings
	}
	return &Controls{
		bindings: maps.Clone(bindings),
		down:     make(map[Trigger]bool),
	}
}

// Bind maps an extra trigger to an action. Several triggers may share one.
func (c *Controls) Bind(t Trigger, a Action) {
	if a >= actionCount {
		return
	}
	c.mu.Lock()
	c.bindings[t] = a
	c.mu.Unlock()
}

// KeyEvent records a key callback. Repeats count as held.
func (c *Controls) KeyEvent(k glfw.Key, action glfw.Action) {
	c.set(Key(k), action != glfw.Release)
}

// ButtonEvent records a mouse button callback.
func (c *Controls) ButtonEvent(b glfw.MouseButton, action glfw.Action) {
	c.set(Button(b), action == glfw.Press)
}

func (c *Controls) set(t Trigger, down bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.bindings[t]
	if !ok || c.down[t] == down {
		return
	}
	c.down[t] = down
	if !down {
		if c.held[a] > 0 {
			c.held[a]--
		}
		return
	}
	if c.held[a] == 0 {
		c.pressed |= 1 << a
	}
	c.held[a]++
}

// Held reports whether any trigger of the action is down.
func (c *Controls) Held(a Action) bool {
	if a >= actionCount {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held[a] > 0
}

// Pressed reports whether the action went down during this frame.
func (c *Controls) Pressed(a Action) bool {
	if a >= actionCount {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pressed&(1<<a) != 0
}

// EndFrame forgets this frame's presses. Held actions stay held.
func (c *Controls) EndFrame() {
	c.mu.Lock()
	c.pressed = 0
	c.mu.Unlock()
}

// Axis returns -1, 0 or +1 from a pair of opposing actions.
func (c *Controls) Axis(negative, positive Action) float64 {
	v := 0.0
	if c.Held(negative) {
		v--
	}
	if c.Held(positive) {
		v++
	}
	return v
}

// Intent is the movement the held actions ask for this frame.
func (c *Controls) Intent() player.Intent {
	return player.Intent{
		Forward:  c.Axis(MoveBackward, MoveForward),
		Strafe:   c.Axis(MoveLeft, MoveRight),
		Vertical: c.Axis(Descend, Jump),
		Jump:     c.Held(Jump),
		Sprint:   c.Held(Sprint),
	}
}

// HotbarSlot returns the slot whose key was pressed this frame.
func (c *Controls) HotbarSlot() (int, bool) {
	for slot, a := range [...]Action{Hotbar1, Hotbar2, Hotbar3} {
		if c.Pressed(a) {
			return slot, true
		}
	}
	return 0, false
}
