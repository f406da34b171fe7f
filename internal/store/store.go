package store

import (
	"sync"
	"time"

	"delivery-ops/internal/models"

	"github.com/google/uuid"
)

// DefaultETA is how far after intake a new order is expected to be delivered.
const DefaultETA = 45 * time.Minute

// Subscriber is called after every successful mutation with the new state.
// It runs while the store is locked and must treat the state as read-only.
type Subscriber func(Change, State)

// Store owns the application state. It is created once by the composition
// root and handed to every service; mutations are serialized so each one is
// applied atomically.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers []Subscriber

	now    func() time.Time
	newID  func() string
	policy Policy
	eta    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPolicy sets whether the transition table is enforced.
func WithPolicy(p Policy) Option {
	return func(s *Store) { s.policy = p }
}

// WithETA sets the delivery estimate given to new orders.
func WithETA(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.eta = d
		}
	}
}

// WithIDGenerator overrides how session user ids are made.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New returns a store holding initial.
func New(initial State, opts ...Option) *Store {
	s := &Store{
		state:  initial.Clone(),
		now:    time.Now,
		newID:  func() string { return "user-" + uuid.NewString() },
		policy: PolicyAdvisory,
		eta:    DefaultETA,
	}
	if !s.state.Language.IsValid() {
		s.state.Language = models.LangEnglish
	}
	if floor := nextSeqAfter(s.state.Orders); s.state.NextOrderSeq < floor {
		s.state.NextOrderSeq = floor
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn for all future mutations.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Now is the store's clock.
func (s *Store) Now() time.Time { return s.now() }

// Policy reports the transition policy in force.
func (s *Store) Policy() Policy { return s.policy }

// Session returns the signed-in user, if any.
func (s *Store) Session() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Session == nil {
		return models.User{}, false
	}
	return *s.state.Session, true
}

// Login starts a new session, replacing any existing one.
func (s *Store) Login(name string, role models.UserRole) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Login(s.state, s.newID(), name, role)
	if err != nil {
		return models.User{}, err
	}
	s.commit(next, Change{Kind: ChangeLogin, Actor: name})
	return *next.Session, nil
}

// Logout ends the session.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	actor := s.actor()
	s.commit(Logout(s.state), Change{Kind: ChangeLogout, Actor: actor})
}

// AddOrder runs order intake and returns the created order.
func (s *Store) AddOrder(draft models.OrderDraft) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	actor := s.actor()
	next, order := AddOrder(s.state, draft, actor, s.now(), s.eta)
	s.commit(next, Change{Kind: ChangeOrderAdded, OrderID: order.ID, To: order.Status, Actor: actor})
	return order
}

// UpdateOrderStatus sets the status of orderID and returns the updated order.
func (s *Store) UpdateOrderStatus(orderID string, status models.OrderStatus, courierName string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, change, err := UpdateOrderStatus(s.state, orderID, status, courierName, s.actor(), s.now(), s.policy)
	if err != nil {
		return models.Order{}, err
	}
	s.commit(next, change)
	order, _ := FindOrder(next, orderID)
	return order, nil
}

// AdvanceOrder moves orderID to status after check accepts the order as it
// stands under the lock. A check error aborts the move and is returned as is.
func (s *Store) AdvanceOrder(orderID string, status models.OrderStatus, check func(models.Order) error) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := FindOrder(s.state, orderID)
	if !ok {
		return models.Order{}, models.ErrOrderNotFound
	}
	if check != nil {
		if err := check(current); err != nil {
			return models.Order{}, err
		}
	}
	next, change, err := UpdateOrderStatus(s.state, orderID, status, "", s.actor(), s.now(), s.policy)
	if err != nil {
		return models.Order{}, err
	}
	s.commit(next, change)
	order, _ := FindOrder(next, orderID)
	return order, nil
}

// AssignCourier hands orderID to courierID and returns the updated order.
func (s *Store) AssignCourier(orderID, courierID string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, change, err := AssignCourier(s.state, orderID, courierID, s.actor(), s.now(), s.policy)
	if err != nil {
		return models.Order{}, err
	}
	s.commit(next, change)
	order, _ := FindOrder(next, orderID)
	return order, nil
}

// ToggleLanguage flips the UI language and returns the new one.
func (s *Store) ToggleLanguage() models.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := ToggleLanguage(s.state)
	s.commit(next, Change{Kind: ChangeLanguage, Actor: s.actor()})
	return next.Language
}

// commit installs next and notifies subscribers. Callers hold mu.
func (s *Store) commit(next State, change Change) {
	s.state = next
	for _, fn := range s.subscribers {
		fn(change, s.state)
	}
}

// actor names the session user for history entries. Callers hold mu.
func (s *Store) actor() string {
	if s.state.Session == nil {
		return ""
	}
	return s.state.Session.Name
}
