package service

import (
	"math/rand"
	"sync"
	"time"

	"ar-geometry/internal/geometry/equation"
	"ar-geometry/internal/geometry/models"

	"github.com/google/uuid"
)

// ============================================================
// Object Store
// ============================================================

// Store owns every math object and the current selection. Each method runs as
// one critical section, so callers never observe a half-applied mutation.
type Store struct {
	mu       sync.Mutex
	objects  []models.MathObject
	selected string

	formatter equation.Formatter
	placement Placement
	newID     func() string
	rng       *rand.Rand
}

type Option func(*Store)

// WithPlacement sets the policy used when AddLine/AddPlane get no pose.
func WithPlacement(p Placement) Option {
	return func(s *Store) { s.placement = p }
}

// WithSignStyle selects how negative plane coefficients are rendered.
func WithSignStyle(style equation.SignStyle) Option {
	return func(s *Store) { s.formatter.Signs = style }
}

// WithIDGenerator replaces uuid.NewString as the id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithSeed makes color generation reproducible.
func WithSeed(seed int64) Option {
	return func(s *Store) { s.rng = rand.New(rand.NewSource(seed)) }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		placement: FixedPlacement{},
		newID:     uuid.NewString,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================
// Creation & removal
// ============================================================

// AddLine creates a line, selects it and returns its id. A nil position or
// rotation is taken from the store's placement policy.
func (s *Store) AddLine(position *models.Vec3, rotation *models.Euler) string {
	return s.add(models.KindLine, position, rotation)
}

// AddPlane creates a plane, selects it and returns its id.
func (s *Store) AddPlane(position *models.Vec3, rotation *models.Euler) string {
	return s.add(models.KindPlane, position, rotation)
}

func (s *Store) add(kind models.Kind, position *models.Vec3, rotation *models.Euler) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, rot := s.placement.Pose()
	if position != nil {
		pos = *position
	}
	if rotation != nil {
		rot = *rotation
	}

	id := s.freshID()
	s.objects = append(s.objects, models.MathObject{
		ID:       id,
		Kind:     kind,
		Position: pos,
		Rotation: rot,
		Color:    randomColor(s.rng),
		Visible:  true,
	})
	s.selected = id
	s.updateEquation(len(s.objects) - 1)

	Logger().Debug("object added", "id", id, "kind", kind)
	return id
}

// freshID draws ids until one is unused. With uuids the loop runs once.
func (s *Store) freshID() string {
	for {
		id := s.newID()
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

// RemoveObject deletes the object and clears the selection if it pointed at it.
// Removing an absent id does nothing.
func (s *Store) RemoveObject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.objects = append(s.objects[:i:i], s.objects[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}

	Logger().Debug("object removed", "id", id)
	return true
}

// Reset drops every object and the selection.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects = nil
	s.selected = ""
	Logger().Debug("store reset")
}

// ============================================================
// Mutation
// ============================================================

// UpdateObjectPosition moves the object and recomputes its equation.
func (s *Store) UpdateObjectPosition(id string, position models.Vec3) bool {
	return s.mutate(id, "position updated", func(obj *models.MathObject) {
		obj.Position = position
	})
}

// UpdateObjectRotation rotates the object and recomputes its equation.
func (s *Store) UpdateObjectRotation(id string, rotation models.Euler) bool {
	return s.mutate(id, "rotation updated", func(obj *models.MathObject) {
		obj.Rotation = rotation
	})
}

// UpdateEquation recomputes the stored equation from the object's pose.
func (s *Store) UpdateEquation(id string) bool {
	return s.mutate(id, "equation updated", func(*models.MathObject) {})
}

func (s *Store) mutate(id, msg string, apply func(*models.MathObject)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	apply(&s.objects[i])
	s.updateEquation(i)

	Logger().Debug(msg, "id", id, "equation", s.objects[i].Equation)
	return true
}

func (s *Store) updateEquation(i int) {
	obj := &s.objects[i]
	obj.Equation = s.formatter.Format(obj.Kind, obj.Position, obj.Rotation)
}

// ToggleVisibility flips the visible flag.
func (s *Store) ToggleVisibility(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.objects[i].Visible = !s.objects[i].Visible
	return true
}

// SelectObject sets the selection; an empty id clears it. The id is not
// checked against the collection.
func (s *Store) SelectObject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = id
}

// ============================================================
// Queries
// ============================================================

// Objects returns a copy of the collection in creation order.
func (s *Store) Objects() []models.MathObject {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copyObjects()
}

func (s *Store) Object(id string) (models.MathObject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.MathObject{}, false
	}
	return s.objects[i], true
}

// Selected returns the selected id, if any.
func (s *Store) Selected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selected, s.selected != ""
}

// Snapshot returns objects and selection read under a single lock.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.Snapshot{
		Objects:    s.copyObjects(),
		SelectedID: s.selected,
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.objects)
}

func (s *Store) copyObjects() []models.MathObject {
	out := make([]models.MathObject, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *Store) indexOf(id string) int {
	for i := range s.objects {
		if s.objects[i].ID == id {
			return i
		}
	}
	return -1
}
