package services

import (
	"sort"
	"sync"
	"sync/atomic"

	"gorm.io/gorm"

	"github.com/gastromanager/dashboard/metrics"
	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/utils"
)

// Snapshot is the complete in-memory working set. It is immutable
// once published: consumers always see either the old complete
// snapshot or the new one, never a mix.
type Snapshot struct {
	Restaurants  []models.Restaurant   `json:"restaurants"`
	Users        []models.User         `json:"users"`
	Categories   []models.MenuCategory `json:"menu_categories"`
	MenuItems    []models.MenuItem     `json:"menu_items"`
	Orders       []models.Order        `json:"orders"`
	Reservations []models.Reservation  `json:"reservations"`
}

// Synchronizer loads the six entity collections and republishes them
// as one atomically swapped snapshot. Writers serialize on a mutex;
// readers never block.
type Synchronizer struct {
	DB      *gorm.DB
	current atomic.Value // *Snapshot
	mu      sync.Mutex
}

func NewSynchronizer(db *gorm.DB) *Synchronizer {
	s := &Synchronizer{DB: db}
	s.current.Store(&Snapshot{})
	return s
}

// Snapshot returns the currently published snapshot.
func (s *Synchronizer) Snapshot() *Snapshot {
	return s.current.Load().(*Snapshot)
}

// Resync fetches all six collections and replaces the snapshot
// wholesale. Safe to call repeatedly and concurrently; a slow
// in-flight run can be superseded by a later one (last write wins,
// each run is total). On any fetch error the old snapshot stays.
func (s *Synchronizer) Resync(trigger string) error {
	next := &Snapshot{}
	errs := make([]error, 6)

	var wg sync.WaitGroup
	wg.Add(6)
	go func() {
		defer wg.Done()
		errs[0] = s.DB.Find(&next.Restaurants).Error
	}()
	go func() {
		defer wg.Done()
		errs[1] = s.DB.Find(&next.Users).Error
	}()
	go func() {
		defer wg.Done()
		errs[2] = s.DB.Order("order_position asc").Find(&next.Categories).Error
	}()
	go func() {
		defer wg.Done()
		errs[3] = s.DB.Find(&next.MenuItems).Error
	}()
	go func() {
		defer wg.Done()
		errs[4] = s.DB.Order("created_at desc").Find(&next.Orders).Error
	}()
	go func() {
		defer wg.Done()
		errs[5] = s.DB.Order("date asc").Find(&next.Reservations).Error
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			utils.ErrorLogger.Printf("Snapshot resync failed (%s): %v", trigger, err)
			return err
		}
	}

	s.mu.Lock()
	s.current.Store(next)
	s.mu.Unlock()

	metrics.SyncRunsTotal.WithLabelValues(trigger).Inc()
	utils.InfoLogger.Printf("Snapshot resynced (%s): %d restaurants, %d users, %d categories, %d items, %d orders, %d reservations",
		trigger, len(next.Restaurants), len(next.Users), len(next.Categories),
		len(next.MenuItems), len(next.Orders), len(next.Reservations))
	return nil
}

// ReloadOrders re-fetches only the order collection and republishes
// it, for the write-through paths in the order lifecycle.
func (s *Synchronizer) ReloadOrders() error {
	var orders []models.Order
	if err := s.DB.Order("created_at desc").Find(&orders).Error; err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.Snapshot()
	next.Orders = orders
	s.current.Store(&next)
	return nil
}

// ApplyOrder upserts a single order into the snapshot, keeping the
// created_at descending order.
func (s *Synchronizer) ApplyOrder(order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.Snapshot()
	next.Orders = upsertOrder(next.Orders, order)
	s.current.Store(&next)
}

// RemoveOrder drops a deleted order from the snapshot.
func (s *Synchronizer) RemoveOrder(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.Snapshot()
	orders := make([]models.Order, 0, len(next.Orders))
	for _, o := range next.Orders {
		if o.ID != id {
			orders = append(orders, o)
		}
	}
	next.Orders = orders
	s.current.Store(&next)
}

// ApplyReservation upserts a single reservation, keeping date
// ascending order.
func (s *Synchronizer) ApplyReservation(reservation models.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.Snapshot()
	next.Reservations = upsertReservation(next.Reservations, reservation)
	s.current.Store(&next)
}

// RemoveReservation drops a deleted reservation from the snapshot.
func (s *Synchronizer) RemoveReservation(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.Snapshot()
	reservations := make([]models.Reservation, 0, len(next.Reservations))
	for _, r := range next.Reservations {
		if r.ID != id {
			reservations = append(reservations, r)
		}
	}
	next.Reservations = reservations
	s.current.Store(&next)
}

func upsertOrder(orders []models.Order, order models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	copy(out, orders)

	replaced := false
	for i := range out {
		if out[i].ID == order.ID {
			out[i] = order
			replaced = true
			break
		}
	}
	if !replaced {
		out = append(out, order)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func upsertReservation(reservations []models.Reservation, reservation models.Reservation) []models.Reservation {
	out := make([]models.Reservation, len(reservations))
	copy(out, reservations)

	replaced := false
	for i := range out {
		if out[i].ID == reservation.ID {
			out[i] = reservation
			replaced = true
			break
		}
	}
	if !replaced {
		out = append(out, reservation)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
