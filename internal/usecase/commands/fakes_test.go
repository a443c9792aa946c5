//go:build unit

package commands_test

import (
	"context"
	"sync"
	"time"

	"gearpool/internal/domain/booking"
	"gearpool/internal/domain/checkout"
	"gearpool/internal/domain/item"
	"gearpool/internal/domain/vehicle"
	"gearpool/internal/infra"
	"gearpool/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory stand-ins for the pgx repositories. Each method takes the state
// lock, so a single repository call is atomic the way a single conditional
// UPDATE is.
type fakeState struct {
	mu          sync.Mutex
	items       map[uuid.UUID]*itemRow
	vehicles    map[uuid.UUID]*vehicleRow
	bookings    map[uuid.UUID]*bookingRow
	assignments map[uuid.UUID]uuid.UUID // bookingID -> vehicleID
	checkouts   map[uuid.UUID]*checkoutRow

	// When set, the next assignment upsert fails with this error.
	assignUpsertErr error

	// Counts reads taken through FindByIDForUpdate so tests can assert a
	// write path used the locking read.
	lockedItemReads int
}

type itemRow struct {
	name      string
	available int32
	total     int32
	status    item.Status
}

type vehicleRow struct {
	label  string
	status vehicle.Status
}

type bookingRow struct {
	requesterID uuid.UUID
	slot        booking.UseSlot
	status      booking.Status
}

type checkoutRow struct {
	requesterID    uuid.UUID
	lines          []checkout.Line
	status         checkout.Status
	pendingCheckIn bool
}

func newFakeState() *fakeState {
	return &fakeState{
		items:       make(map[uuid.UUID]*itemRow),
		vehicles:    make(map[uuid.UUID]*vehicleRow),
		bookings:    make(map[uuid.UUID]*bookingRow),
		assignments: make(map[uuid.UUID]uuid.UUID),
		checkouts:   make(map[uuid.UUID]*checkoutRow),
	}
}

func (s *fakeState) addItem(available, total int32, status item.Status) uuid.UUID {
	id := uuid.New()
	s.items[id] = &itemRow{name: "item-" + id.String()[:8], available: available, total: total, status: status}
	return id
}

func (s *fakeState) addVehicle(status vehicle.Status) uuid.UUID {
	id := uuid.New()
	s.vehicles[id] = &vehicleRow{label: "vehicle-" + id.String()[:8], status: status}
	return id
}

func (s *fakeState) addBooking(status booking.Status, date time.Time, timeSlot string) uuid.UUID {
	id := uuid.New()
	slot, err := booking.NewUseSlot(date, timeSlot)
	if err != nil {
		panic(err)
	}
	s.bookings[id] = &bookingRow{requesterID: uuid.New(), slot: slot, status: status}
	return id
}

func (s *fakeState) addCheckout(status checkout.Status, pendingCheckIn bool, lines ...checkout.Line) uuid.UUID {
	id := uuid.New()
	s.checkouts[id] = &checkoutRow{requesterID: uuid.New(), lines: lines, status: status, pendingCheckIn: pendingCheckIn}
	return id
}

type fakeUoW struct {
	state *fakeState
}

func newFakeUoW(state *fakeState) *fakeUoW {
	return &fakeUoW{state: state}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{state: u.state})
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads shared.CommandReads) error) error {
	return fn(ctx, &fakeReads{state: u.state})
}

type fakeTx struct {
	state *fakeState
}

func (t *fakeTx) Items() shared.ItemRepository             { return &fakeItemRepo{state: t.state} }
func (t *fakeTx) Vehicles() shared.VehicleRepository       { return &fakeVehicleRepo{state: t.state} }
func (t *fakeTx) Bookings() shared.BookingRepository       { return &fakeBookingRepo{state: t.state} }
func (t *fakeTx) Assignments() shared.AssignmentRepository { return &fakeAssignmentRepo{state: t.state} }
func (t *fakeTx) Checkouts() shared.CheckoutRepository     { return &fakeCheckoutRepo{state: t.state} }
func (t *fakeTx) Reads() shared.CommandReads               { return &fakeReads{state: t.state} }

type fakeItemRepo struct {
	state *fakeState
}

func (r *fakeItemRepo) Create(_ context.Context, it *item.Item) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.items[it.ID()] = &itemRow{
		name:      it.Name(),
		available: it.QuantityAvailable(),
		total:     it.QuantityTotal(),
		status:    it.Status(),
	}
	return nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*item.Item, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	row, ok := r.state.items[id]
	if !ok {
		return nil, infra.WrapRepoErr("item not found", nil, infra.KindNotFound)
	}
	now := time.Now()
	return item.ReconstructItem(id, row.name, row.total, row.available, row.status, now, now), nil
}

func (r *fakeItemRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	r.state.mu.Lock()
	r.state.lockedItemReads++
	r.state.mu.Unlock()
	return r.FindByID(ctx, id)
}

func (r *fakeItemRepo) ReserveUnits(_ context.Context, id uuid.UUID, qty int32) (shared.ItemCounters, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	row, ok := r.state.items[id]
	if !ok {
		return shared.ItemCounters{}, infra.WrapRepoErr("item not found", nil, infra.KindNotFound)
	}
	if row.status.IsAdministrative() {
		return shared.ItemCounters{}, infra.WrapRepoErr("item is "+row.status.String(), nil, infra.KindUnavailable)
	}
	if row.available < qty {
		return shared.ItemCounters{}, infra.WrapRepoErr("insufficient availability", nil, infra.KindConflict)
	}
	row.available -= qty
	return shared.ItemCounters{Available: row.available, Total: row.total, Status: row.status}, nil
}

func (r *fakeItemRepo) ReturnUnits(_ context.Context, id uuid.UUID, qty int32) (shared.ItemCounters, int32, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	row, ok := r.state.items[id]
	if !ok {
		return shared.ItemCounters{}, 0, infra.WrapRepoErr("item not found", nil, infra.KindNotFound)
	}
	var surplus int32
	row.available += qty
	if row.available > row.total {
		surplus = row.available - row.total
		row.available = row.total
	}
	return shared.ItemCounters{Available: row.available, Total: row.total, Status: row.status}, surplus, nil
}

func (r *fakeItemRepo) AdjustTotal(_ context.Context, id uuid.UUID, newTotal int32) (shared.ItemCounters, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	row, ok := r.state.items[id]
	if !ok {
		return shared.ItemCounters{}, infra.WrapRepoErr("item not found", nil, infra.KindNotFound)
	}
	checkedOut := row.total - row.available
	if checkedOut > newTotal {
		return shared.ItemCounters{}, infra.WrapRepoErr("total below checked-out count", nil, infra.KindConflict)
	}
	row.total = newTotal
	row.available = newTotal - checkedOut
	return shared.ItemCounters{Available: row.available, Total: row.total, Status: row.status}, nil
}

func (r *fakeItemRepo) SetStatus(_ context.Context, id uuid.UUID, status item.Status) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	row, ok := r.state.items[id]
	if !ok {
		return infra.WrapRepoErr("item not found", nil, infra.KindNotFound)
	}
	row.status = status
	return nil
}

type fakeVehicleRepo struct {
	state *fakeState
}

func (r *fakeVehicleRepo) Create(_ context.Context, v *vehicle.Vehicle) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.vehicles[v.ID()] = &vehicleRow{label: v.Label(), status: v.Status()}
	return nil
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	row, ok := r.state.vehicles[id]
	if !ok {
		return nil, infra.WrapRepoErr("vehicle not found", nil, infra.KindNotFound)
	}
	now := time.Now()
	return vehicle.ReconstructVehicle(id, row.label, row.status, now, now), nil
}

func (r *fakeVehicleRepo) SetStatus(_ context.Context, id uuid.UUID, status vehicle.Status) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	row, ok := r.state.vehicles[id]
	if !ok {
		return infra.WrapRepoErr("vehicle not found", nil, infra.KindNotFound)
	}
	row.status = status
	return nil
}

type fakeBookingRepo struct {
	state *fakeState
}

func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.bookings[b.ID()] = &bookingRow{requesterID: b.RequesterID(), slot: b.Slot(), status: b.Status()}
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	row, ok := r.state.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	now := time.Now()
	return booking.ReconstructBooking(id, row.requesterID, row.slot, row.status, now, now), nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status booking.Status) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	row, ok := r.state.bookings[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	row.status = status
	return nil
}

type fakeAssignmentRepo struct {
	state *fakeState
}

func (r *fakeAssignmentRepo) ListActiveByVehicle(_ context.Context, vehicleID uuid.UUID, excludeBooking uuid.UUID) ([]shared.ActiveAssignment, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var out []shared.ActiveAssignment
	for bookingID, vid := range r.state.assignments {
		if vid != vehicleID || bookingID == excludeBooking {
			continue
		}
		row, ok := r.state.bookings[bookingID]
		if !ok || row.status != booking.StatusApproved {
			continue
		}
		out = append(out, shared.ActiveAssignment{
			BookingID: bookingID,
			VehicleID: vid,
			DateOfUse: row.slot.DateOfUse(),
			TimeSlot:  row.slot.TimeSlot(),
		})
	}
	return out, nil
}

func (r *fakeAssignmentRepo) FindByBooking(_ context.Context, bookingID uuid.UUID) (*shared.AssignmentRecord, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	vid, ok := r.state.assignments[bookingID]
	if !ok {
		return nil, infra.WrapRepoErr("assignment not found", nil, infra.KindNotFound)
	}
	return &shared.AssignmentRecord{BookingID: bookingID, VehicleID: vid}, nil
}

func (r *fakeAssignmentRepo) Upsert(_ context.Context, bookingID, vehicleID uuid.UUID) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if err := r.state.assignUpsertErr; err != nil {
		r.state.assignUpsertErr = nil
		return err
	}
	r.state.assignments[bookingID] = vehicleID
	return nil
}

func (r *fakeAssignmentRepo) DeleteByBooking(_ context.Context, bookingID uuid.UUID) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.assignments[bookingID]; !ok {
		return infra.WrapRepoErr("assignment not found", nil, infra.KindNotFound)
	}
	delete(r.state.assignments, bookingID)
	return nil
}

type fakeCheckoutRepo struct {
	state *fakeState
}

func (r *fakeCheckoutRepo) Create(_ context.Context, req *checkout.Request) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.checkouts[req.ID()] = &checkoutRow{
		requesterID:    req.RequesterID(),
		lines:          req.Lines(),
		status:         req.Status(),
		pendingCheckIn: req.PendingCheckIn(),
	}
	return nil
}

func (r *fakeCheckoutRepo) FindByID(_ context.Context, id uuid.UUID) (*checkout.Request, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	row, ok := r.state.checkouts[id]
	if !ok {
		return nil, infra.WrapRepoErr("checkout request not found", nil, infra.KindNotFound)
	}
	now := time.Now()
	return checkout.ReconstructRequest(id, row.requesterID, row.lines, row.status, row.pendingCheckIn, now, now), nil
}

func (r *fakeCheckoutRepo) UpdateStatus(_ context.Context, id uuid.UUID, status checkout.Status, pendingCheckIn bool) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	row, ok := r.state.checkouts[id]
	if !ok {
		return infra.WrapRepoErr("checkout request not found", nil, infra.KindNotFound)
	}
	row.status = status
	row.pendingCheckIn = pendingCheckIn
	return nil
}

func (r *fakeCheckoutRepo) PendingCheckInCount(_ context.Context, itemID uuid.UUID) (int64, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var n int64
	for _, row := range r.state.checkouts {
		if !row.pendingCheckIn {
			continue
		}
		for _, line := range row.lines {
			if line.ItemID == itemID {
				n++
			}
		}
	}
	return n, nil
}

type fakeReads struct {
	state *fakeState
}

func (r *fakeReads) ItemReconRows(_ context.Context) ([]shared.ItemReconRow, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var rows []shared.ItemReconRow
	for id, row := range r.state.items {
		recon := shared.ItemReconRow{
			ItemID:    id,
			Name:      row.name,
			Available: row.available,
			Total:     row.total,
			Status:    row.status,
		}
		for _, c := range r.state.checkouts {
			for _, line := range c.lines {
				if line.ItemID != id {
					continue
				}
				if c.status == checkout.StatusApproved || c.status == checkout.StatusCheckedOut {
					recon.OutstandingLines++
				}
				if c.pendingCheckIn {
					recon.PendingCheckIns++
				}
			}
		}
		rows = append(rows, recon)
	}
	return rows, nil
}
