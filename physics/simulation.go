// Package physics bridges the rigid-body engine with game entities
//
// Gameplay systems create bodies and colliders through registered wrappers,
// which record which entity owns each engine handle. Every Update steps the
// engine, converts the step's raw callbacks into Contact and Proximity events
// between entities, and hands them to the matchers registered by gameplay
// systems together with a WorldView.
//
// The simulation is single-threaded. Mutating it while it steps or while
// handlers run is a programming error and panics with *BorrowError; handlers
// use WorldView.Defer to create or release objects after dispatch.
package physics

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/j-rock/fortress-sub001/entity"
	"github.com/j-rock/fortress-sub001/status"
)

// collisionTypeEntity is set on every shape so a single engine handler sees
// all pairs; filtering is done by shape filters and by matchers
const collisionTypeEntity cp.CollisionType = 1

// Config holds world-level engine parameters
type Config struct {
	Gravity    cp.Vector
	Damping    float64 // fraction of velocity kept per second, 1 = none lost
	Iterations int
}

func DefaultConfig() Config {
	return Config{Damping: 1, Iterations: 10}
}

type bodyRecord struct {
	body          *cp.Body
	fixedRotation bool
	colliders     []ColliderHandle
}

type colliderRecord struct {
	shapes []*cp.Shape
	body   BodyHandle
}

// Simulation owns the engine space, the registrar and the matcher lists
type Simulation struct {
	cfg       Config
	space     *cp.Space
	registrar *Registrar
	bodies    arena[*bodyRecord]
	colliders arena[*colliderRecord]
	static    BodyHandle

	contactMatchers   []ContactMatcher
	proximityMatchers []ProximityMatcher

	pending  []rawEvent
	tracker  *proximityTracker
	deferred []func(*Simulation)
	borrower string

	log        *zap.Logger
	steps      *atomic.Int64
	events     *atomic.Int64
	dropped    *atomic.Int64
	dispatched *atomic.Int64
	registered *atomic.Int64
}

// NewSimulation creates an empty world
// log and stats may be nil
func NewSimulation(cfg Config, log *zap.Logger, stats *status.Registry) *Simulation {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultConfig().Iterations
	}
	if cfg.Damping <= 0 || cfg.Damping > 1 {
		cfg.Damping = 1
	}

	space := cp.NewSpace()
	space.SetGravity(cfg.Gravity)
	space.SetDamping(cfg.Damping)
	space.Iterations = uint(cfg.Iterations)

	s := &Simulation{
		cfg:        cfg,
		space:      space,
		registrar:  NewRegistrar(),
		tracker:    newProximityTracker(),
		log:        log.Named("physics"),
		steps:      stats.Counter("physics.steps"),
		events:     stats.Counter("physics.events"),
		dropped:    stats.Counter("physics.dropped"),
		dispatched: stats.Counter("physics.dispatched"),
		registered: stats.Counter("physics.registered"),
	}
	s.static = BodyHandle(s.bodies.insert(&bodyRecord{body: space.StaticBody}))

	handler := space.NewCollisionHandler(collisionTypeEntity, collisionTypeEntity)
	handler.BeginFunc = s.onBegin
	handler.SeparateFunc = s.onSeparate
	return s
}

func (s *Simulation) onBegin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	s.capture(arb, true)
	return true
}

func (s *Simulation) onSeparate(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	s.capture(arb, false)
}

func (s *Simulation) capture(arb *cp.Arbiter, begin bool) {
	sa, sb := arb.Shapes()
	ta, okA := sa.UserData.(shapeTag)
	tb, okB := sb.UserData.(shapeTag)
	if !okA || !okB {
		return
	}
	if ta.collider == tb.collider {
		// inner and margin ring of the same sensor
		return
	}
	s.pending = append(s.pending, rawEvent{begin: begin, a: ta, b: tb})
}

// borrow marks the simulation as exclusively in use by op
// The returned func releases it
func (s *Simulation) borrow(op string) func() {
	if s.borrower != "" {
		err := &BorrowError{Op: op, Owner: s.borrower}
		s.log.Error("reentrant simulation access", zap.Error(err))
		panic(err)
	}
	s.borrower = op
	return func() { s.borrower = "" }
}

// Borrowed reports whether a step or dispatch is in progress
func (s *Simulation) Borrowed() bool { return s.borrower != "" }

// StaticBody is the world's immovable body, for walls and pickups
func (s *Simulation) StaticBody() BodyHandle { return s.static }

// CreateBody adds a body to the world; it is not registered to any entity
func (s *Simulation) CreateBody(desc BodyDesc) BodyHandle {
	defer s.borrow("create body")()

	var body *cp.Body
	switch desc.Type {
	case BodyStatic:
		body = cp.NewStaticBody()
	case BodyKinematic:
		body = cp.NewKinematicBody()
	default:
		mass := desc.Mass
		if mass <= 0 {
			mass = 1
		}
		moment := cp.MomentForCircle(mass, 0, 1, cp.Vector{})
		if desc.FixedRotation {
			moment = math.Inf(1)
		}
		body = cp.NewBody(mass, moment)
	}
	body.SetPosition(desc.Position)
	if desc.Type != BodyStatic {
		body.SetVelocityVector(desc.Velocity)
	}
	s.space.AddBody(body)

	h := s.bodies.insert(&bodyRecord{body: body, fixedRotation: desc.FixedRotation})
	return BodyHandle(h)
}

// CreateCollider attaches a collider to a live body
// The collider is not registered; events on it resolve through its body
func (s *Simulation) CreateCollider(bh BodyHandle, desc ColliderDesc) (ColliderHandle, error) {
	defer s.borrow("create collider")()

	rec, ok := s.bodies.get(Handle(bh))
	if !ok {
		return 0, ErrStaleHandle
	}

	shapes := []*cp.Shape{desc.Shape.build(rec.body, 0)}
	if desc.Sensor && desc.Margin > 0 {
		shapes = append(shapes, desc.Shape.build(rec.body, desc.Margin))
	}

	filter := desc.Filter
	if filter == (Filter{}) {
		filter = FilterAll
	}

	ch := ColliderHandle(s.colliders.insert(&colliderRecord{shapes: shapes, body: bh}))
	for i, shape := range shapes {
		shape.UserData = shapeTag{collider: ch, body: bh, sensor: desc.Sensor, outer: i > 0}
		shape.SetFriction(desc.Friction)
		shape.SetElasticity(desc.Elasticity)
		shape.SetSensor(desc.Sensor)
		shape.SetFilter(filter.shapeFilter())
		shape.SetCollisionType(collisionTypeEntity)
		if desc.Density > 0 && i == 0 {
			shape.SetDensity(desc.Density)
		}
		s.space.AddShape(shape)
	}
	if rec.fixedRotation && desc.Density > 0 {
		rec.body.SetMoment(math.Inf(1))
	}
	rec.colliders = append(rec.colliders, ch)
	return ch, nil
}

// removeCollider destroys a collider; a stale handle is ignored
func (s *Simulation) removeCollider(ch ColliderHandle) {
	rec, ok := s.colliders.remove(Handle(ch))
	if !ok {
		return
	}
	for _, shape := range rec.shapes {
		s.space.RemoveShape(shape)
	}
	s.tracker.forget(ch)

	if body, ok := s.bodies.get(Handle(rec.body)); ok {
		for i, c := range body.colliders {
			if c == ch {
				body.colliders = append(body.colliders[:i], body.colliders[i+1:]...)
				break
			}
		}
	}
}

// removeBody destroys a body and every collider still attached to it
func (s *Simulation) removeBody(bh BodyHandle) {
	if bh == s.static {
		return
	}
	rec, ok := s.bodies.get(Handle(bh))
	if !ok {
		return
	}
	for _, ch := range append([]ColliderHandle(nil), rec.colliders...) {
		if e, registered := s.registrar.Resolve(ColliderID(ch)); registered {
			// a collider wrapper outlived its body; the handle dies now so
			// the entry has to go with it
			s.log.Warn("collider released with its body",
				zap.Stringer("collider", ch), zap.Stringer("entity", e))
			s.unregister(ColliderID(ch))
		}
		s.removeCollider(ch)
	}
	s.space.RemoveBody(rec.body)
	s.bodies.remove(Handle(bh))
}

func (s *Simulation) register(id EntityID, e entity.Entity) {
	s.registrar.Register(id, e)
	s.registered.Store(int64(s.registrar.Len()))
}

func (s *Simulation) unregister(id EntityID) {
	s.registrar.Unregister(id)
	s.registered.Store(int64(s.registrar.Len()))
}

// SpawnBody creates a body, registers it to e and attaches colliders that
// resolve through the body
func (s *Simulation) SpawnBody(desc BodyDesc, e entity.Entity, colliders ...ColliderDesc) (*RegisteredBody, error) {
	rb := NewRegisteredBody(s, s.CreateBody(desc), e)
	for _, cd := range colliders {
		if _, err := s.CreateCollider(rb.Handle(), cd); err != nil {
			rb.Close()
			return nil, err
		}
	}
	return rb, nil
}

// SpawnCollider creates a collider on body and registers it to e
func (s *Simulation) SpawnCollider(body BodyHandle, desc ColliderDesc, e entity.Entity) (*RegisteredCollider, error) {
	ch, err := s.CreateCollider(body, desc)
	if err != nil {
		return nil, err
	}
	return NewRegisteredCollider(s, ch, e), nil
}

// AddContactMatchers appends matchers; they live as long as the simulation
func (s *Simulation) AddContactMatchers(ms ...ContactMatcher) {
	defer s.borrow("add contact matchers")()
	for _, m := range ms {
		s.log.Debug("contact matcher added", zap.String("name", m.Name()))
	}
	s.contactMatchers = append(s.contactMatchers, ms...)
}

// AddProximityMatchers appends matchers; they live as long as the simulation
func (s *Simulation) AddProximityMatchers(ms ...ProximityMatcher) {
	defer s.borrow("add proximity matchers")()
	for _, m := range ms {
		s.log.Debug("proximity matcher added", zap.String("name", m.Name()))
	}
	s.proximityMatchers = append(s.proximityMatchers, ms...)
}

// Defer queues fn to run at the end of the current or next Update, after
// dispatch has released the simulation
func (s *Simulation) Defer(fn func(*Simulation)) {
	s.deferred = append(s.deferred, fn)
}

// Update advances the world by dt and dispatches the step's events
//
// Events are handled in the order the engine reported them. The engine's
// arbiter order is not guaranteed to be stable across runs, so handlers must
// not depend on the relative order of two events from the same step.
// Each event is offered to every matcher of its kind in registration order.
// Events whose handles no longer resolve are dropped silently.
func (s *Simulation) Update(dt time.Duration, audio AudioPlayer, players PlayerSystem) {
	release := s.borrow("update")
	view := newWorldView(s, dt, audio, players)
	func() {
		defer release()
		defer view.expire()

		if dt > 0 {
			s.space.Step(dt.Seconds())
			s.steps.Add(1)
		}

		events := s.pending
		s.pending = nil
		s.borrower = "dispatch"
		for _, ev := range events {
			s.dispatch(ev, view)
		}
	}()

	for len(s.deferred) > 0 {
		queue := s.deferred
		s.deferred = nil
		for _, fn := range queue {
			fn(s)
		}
	}
}

func (s *Simulation) resolveSide(tag shapeTag) (entity.Entity, bool) {
	if e, ok := s.registrar.Resolve(ColliderID(tag.collider)); ok {
		return e, true
	}
	if _, live := s.colliders.get(Handle(tag.collider)); !live {
		return entity.Entity{}, false
	}
	return s.registrar.Resolve(BodyID(tag.body))
}

func (s *Simulation) dispatch(ev rawEvent, view *WorldView) {
	s.events.Add(1)

	e1, ok1 := s.resolveSide(ev.a)
	e2, ok2 := s.resolveSide(ev.b)
	if !ok1 || !ok2 {
		s.dropped.Add(1)
		s.log.Debug("stale physics event dropped",
			zap.Stringer("a", ev.a.collider), zap.Stringer("b", ev.b.collider), zap.Bool("begin", ev.begin))
		return
	}

	if ev.proximity() {
		prev, curr, changed := s.tracker.apply(ev)
		if !changed {
			return
		}
		p := Proximity{Entity1: e1, Entity2: e2, Prev: prev, Curr: curr}
		for _, m := range s.proximityMatchers {
			m.TryApply(p, view)
			s.dispatched.Add(1)
		}
		return
	}

	c := Contact{Kind: ContactStarted, Entity1: e1, Entity2: e2}
	if !ev.begin {
		c.Kind = ContactStopped
	}
	for _, m := range s.contactMatchers {
		m.TryApply(c, view)
		s.dispatched.Add(1)
	}
}

// Resolve returns the entity registered under id
func (s *Simulation) Resolve(id EntityID) (entity.Entity, bool) {
	return s.registrar.Resolve(id)
}

// Registered is the number of live registrar entries
func (s *Simulation) Registered() int { return s.registrar.Len() }

// Digest is the registrar digest, see Registrar.Digest
func (s *Simulation) Digest() uint64 { return s.registrar.Digest() }

// Bodies is the number of live bodies, the static body included
func (s *Simulation) Bodies() int { return s.bodies.len() }

// Colliders is the number of live colliders
func (s *Simulation) Colliders() int { return s.colliders.len() }

// BodyPosition returns the position of a live body
func (s *Simulation) BodyPosition(h BodyHandle) (cp.Vector, bool) {
	rec, ok := s.bodies.get(Handle(h))
	if !ok {
		return cp.Vector{}, false
	}
	return rec.body.Position(), true
}

// BodyVelocity returns the velocity of a live body
func (s *Simulation) BodyVelocity(h BodyHandle) (cp.Vector, bool) {
	rec, ok := s.bodies.get(Handle(h))
	if !ok {
		return cp.Vector{}, false
	}
	return rec.body.Velocity(), true
}

// ColliderPosition returns the center of a live collider's bounding box
func (s *Simulation) ColliderPosition(h ColliderHandle) (cp.Vector, bool) {
	rec, ok := s.colliders.get(Handle(h))
	if !ok {
		return cp.Vector{}, false
	}
	return rec.shapes[0].BB().Center(), true
}

// SetBodyVelocity sets the velocity of a live body
func (s *Simulation) SetBodyVelocity(h BodyHandle, v cp.Vector) bool {
	defer s.borrow("set velocity")()
	rec, ok := s.bodies.get(Handle(h))
	if !ok {
		return false
	}
	rec.body.SetVelocityVector(v)
	return true
}

// SetBodyPosition teleports a live body
func (s *Simulation) SetBodyPosition(h BodyHandle, p cp.Vector) bool {
	defer s.borrow("set position")()
	rec, ok := s.bodies.get(Handle(h))
	if !ok {
		return false
	}
	rec.body.SetPosition(p)
	if rec.body.GetType() == cp.BODY_STATIC {
		s.reindexStatic(rec)
	}
	return true
}

// reindexStatic re-inserts the shapes of a moved static body
// The engine never updates static shape bounds on its own
func (s *Simulation) reindexStatic(rec *bodyRecord) {
	for _, ch := range rec.colliders {
		c, ok := s.colliders.get(Handle(ch))
		if !ok {
			continue
		}
		for _, shape := range c.shapes {
			s.space.RemoveShape(shape)
			s.space.AddShape(shape)
		}
	}
}

// ApplyImpulse pushes a live body through its center of gravity
func (s *Simulation) ApplyImpulse(h BodyHandle, impulse cp.Vector) bool {
	defer s.borrow("apply impulse")()
	rec, ok := s.bodies.get(Handle(h))
	if !ok {
		return false
	}
	rec.body.ApplyImpulseAtLocalPoint(impulse, cp.Vector{})
	return true
}
