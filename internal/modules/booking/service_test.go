package booking

import (
	"context"
	"testing"
	"time"

	"navm8/internal/domain"
	"navm8/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock repositories

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CountActiveForDate(ctx context.Context, tourID int64, date time.Time) (int64, error) {
	args := m.Called(ctx, tourID, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) CreateReserving(ctx context.Context, b *domain.Booking, maxPeople int) error {
	args := m.Called(ctx, b, maxPeople)
	if b != nil && args.Error(0) == nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByTour(ctx context.Context, tourID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, tourID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTourProvider struct {
	mock.Mock
}

func (m *MockTourProvider) GetByID(ctx context.Context, id int64) (*domain.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tour), args.Error(1)
}

type MockSlotLocker struct {
	mock.Mock
}

func (m *MockSlotLocker) Acquire(ctx context.Context, tourID int64, date time.Time) (bool, error) {
	args := m.Called(ctx, tourID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockSlotLocker) Release(ctx context.Context, tourID int64, date time.Time) error {
	args := m.Called(ctx, tourID, date)
	return args.Error(0)
}

const (
	authorID    = int64(1)
	travellerID = int64(2)
)

func oneTimeJune1(maxPeople int) *domain.Tour {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Tour{
		ID:                 10,
		AuthorID:           authorID,
		Name:               "Old town walk",
		MaxPeople:          maxPeople,
		TypeOfAvailability: domain.AvailabilityOneTime,
		Date:               &date,
	}
}

func TestRequestBooking_Success(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	tour := oneTimeJune1(2)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mockTours.On("GetByID", mock.Anything, int64(10)).Return(tour, nil)
	mockBookings.On("CountActiveForDate", mock.Anything, int64(10), day).Return(int64(0), nil)
	mockBookings.On("CreateReserving", mock.Anything, mock.Anything, 2).Return(nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	b, err := service.RequestBooking(context.Background(), travellerID, 10, day)

	assert.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, travellerID, b.UserID)
	assert.Equal(t, day, b.Date)
}

func TestRequestBooking_NormalizesDate(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	tour := oneTimeJune1(2)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mockTours.On("GetByID", mock.Anything, int64(10)).Return(tour, nil)
	mockBookings.On("CountActiveForDate", mock.Anything, int64(10), day).Return(int64(0), nil)
	mockBookings.On("CreateReserving", mock.Anything, mock.Anything, 2).Return(nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	// afternoon request for the same calendar day
	b, err := service.RequestBooking(context.Background(), travellerID, 10,
		time.Date(2025, 6, 1, 15, 45, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Equal(t, day, b.Date)
}

func TestRequestBooking_TourNotFound(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	mockTours.On("GetByID", mock.Anything, int64(77)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockBookings, mockTours, nil, nil)

	_, err := service.RequestBooking(context.Background(), travellerID, 77, time.Now())
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestRequestBooking_SelfBooking(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	tour := oneTimeJune1(2)
	mockTours.On("GetByID", mock.Anything, int64(10)).Return(tour, nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	// valid date, free capacity — the author still gets rejected
	_, err := service.RequestBooking(context.Background(), authorID, 10,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrSelfBooking)
	mockBookings.AssertNotCalled(t, "CountActiveForDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestBooking_SelfBookingBeatsInvalidDate(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	tour := oneTimeJune1(2)
	mockTours.On("GetByID", mock.Anything, int64(10)).Return(tour, nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	// wrong date too, but self-booking is reported first
	_, err := service.RequestBooking(context.Background(), authorID, 10,
		time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrSelfBooking)
}

func TestRequestBooking_CapacityExceeded(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	tour := oneTimeJune1(2)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mockTours.On("GetByID", mock.Anything, int64(10)).Return(tour, nil)
	mockBookings.On("CountActiveForDate", mock.Anything, int64(10), day).Return(int64(2), nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	_, err := service.RequestBooking(context.Background(), travellerID, 10, day)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	mockBookings.AssertNotCalled(t, "CreateReserving", mock.Anything, mock.Anything, mock.Anything)
}

// Scenario: maxPeople=2, two admissions succeed, the third fails.
func TestRequestBooking_FillsToCapacity(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	tour := oneTimeJune1(2)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mockTours.On("GetByID", mock.Anything, int64(10)).Return(tour, nil)
	mockBookings.On("CountActiveForDate", mock.Anything, int64(10), day).Return(int64(0), nil).Once()
	mockBookings.On("CountActiveForDate", mock.Anything, int64(10), day).Return(int64(1), nil).Once()
	mockBookings.On("CountActiveForDate", mock.Anything, int64(10), day).Return(int64(2), nil).Once()
	mockBookings.On("CreateReserving", mock.Anything, mock.Anything, 2).Return(nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	_, err := service.RequestBooking(context.Background(), int64(2), 10, day)
	assert.NoError(t, err)
	_, err = service.RequestBooking(context.Background(), int64(3), 10, day)
	assert.NoError(t, err)
	_, err = service.RequestBooking(context.Background(), int64(4), 10, day)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestRequestBooking_InvalidDate(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	tour := oneTimeJune1(2)
	wrongDay := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	mockTours.On("GetByID", mock.Anything, int64(10)).Return(tour, nil)
	mockBookings.On("CountActiveForDate", mock.Anything, int64(10), wrongDay).Return(int64(0), nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	_, err := service.RequestBooking(context.Background(), travellerID, 10, wrongDay)
	assert.ErrorIs(t, err, ErrDateNotBookable)
}

func TestRequestBooking_ReserveLosesRace(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	tour := oneTimeJune1(1)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mockTours.On("GetByID", mock.Anything, int64(10)).Return(tour, nil)
	mockBookings.On("CountActiveForDate", mock.Anything, int64(10), day).Return(int64(0), nil)
	// slot filled between the count and the insert
	mockBookings.On("CreateReserving", mock.Anything, mock.Anything, 1).Return(repository.ErrSlotFull)

	service := NewService(mockBookings, mockTours, nil, nil)

	_, err := service.RequestBooking(context.Background(), travellerID, 10, day)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestRequestBooking_SlotLockHeld(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)
	mockLocks := new(MockSlotLocker)

	tour := oneTimeJune1(2)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mockTours.On("GetByID", mock.Anything, int64(10)).Return(tour, nil)
	mockLocks.On("Acquire", mock.Anything, int64(10), day).Return(false, nil)

	service := NewService(mockBookings, mockTours, mockLocks, nil)

	_, err := service.RequestBooking(context.Background(), travellerID, 10, day)
	assert.ErrorIs(t, err, ErrSlotBusy)
	mockBookings.AssertNotCalled(t, "CountActiveForDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestBooking_SlotLockAcquiredAndReleased(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)
	mockLocks := new(MockSlotLocker)

	tour := oneTimeJune1(2)
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mockTours.On("GetByID", mock.Anything, int64(10)).Return(tour, nil)
	mockLocks.On("Acquire", mock.Anything, int64(10), day).Return(true, nil)
	mockLocks.On("Release", mock.Anything, int64(10), day).Return(nil)
	mockBookings.On("CountActiveForDate", mock.Anything, int64(10), day).Return(int64(0), nil)
	mockBookings.On("CreateReserving", mock.Anything, mock.Anything, 2).Return(nil)

	service := NewService(mockBookings, mockTours, mockLocks, nil)

	_, err := service.RequestBooking(context.Background(), travellerID, 10, day)
	assert.NoError(t, err)
	mockLocks.AssertCalled(t, "Release", mock.Anything, int64(10), day)
}

// Lifecycle

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:     50,
		TourID: 10,
		UserID: travellerID,
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Status: domain.BookingPending,
	}
}

func TestSetStatus_ConfirmByAuthor(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	mockBookings.On("GetByID", mock.Anything, int64(50)).Return(pendingBooking(), nil)
	mockTours.On("GetByID", mock.Anything, int64(10)).Return(oneTimeJune1(2), nil)
	mockBookings.On("UpdateStatus", mock.Anything, int64(50), domain.BookingConfirmed).Return(nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	b, err := service.SetStatus(context.Background(), authorID, 50, domain.BookingConfirmed)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
}

func TestSetStatus_ConfirmByOwnerForbidden(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	mockBookings.On("GetByID", mock.Anything, int64(50)).Return(pendingBooking(), nil)
	mockTours.On("GetByID", mock.Anything, int64(10)).Return(oneTimeJune1(2), nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	// the booking's own owner may not confirm
	_, err := service.SetStatus(context.Background(), travellerID, 50, domain.BookingConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)
	mockBookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetStatus_CancelByOwner(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	mockBookings.On("GetByID", mock.Anything, int64(50)).Return(pendingBooking(), nil)
	mockTours.On("GetByID", mock.Anything, int64(10)).Return(oneTimeJune1(2), nil)
	mockBookings.On("UpdateStatus", mock.Anything, int64(50), domain.BookingCancelled).Return(nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	b, err := service.SetStatus(context.Background(), travellerID, 50, domain.BookingCancelled)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
}

func TestSetStatus_CancelByStranger(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	mockBookings.On("GetByID", mock.Anything, int64(50)).Return(pendingBooking(), nil)
	mockTours.On("GetByID", mock.Anything, int64(10)).Return(oneTimeJune1(2), nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	_, err := service.SetStatus(context.Background(), int64(99), 50, domain.BookingCancelled)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSetStatus_CompleteByAuthor(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	confirmed := pendingBooking()
	confirmed.Status = domain.BookingConfirmed
	mockBookings.On("GetByID", mock.Anything, int64(50)).Return(confirmed, nil)
	mockTours.On("GetByID", mock.Anything, int64(10)).Return(oneTimeJune1(2), nil)
	mockBookings.On("UpdateStatus", mock.Anything, int64(50), domain.BookingCompleted).Return(nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	b, err := service.SetStatus(context.Background(), authorID, 50, domain.BookingCompleted)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, b.Status)
}

func TestSetStatus_CompleteFromPendingRejected(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	mockBookings.On("GetByID", mock.Anything, int64(50)).Return(pendingBooking(), nil)
	mockTours.On("GetByID", mock.Anything, int64(10)).Return(oneTimeJune1(2), nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	_, err := service.SetStatus(context.Background(), authorID, 50, domain.BookingCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetStatus_TerminalStateImmutable(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	cancelled := pendingBooking()
	cancelled.Status = domain.BookingCancelled
	mockBookings.On("GetByID", mock.Anything, int64(50)).Return(cancelled, nil)
	mockTours.On("GetByID", mock.Anything, int64(10)).Return(oneTimeJune1(2), nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	_, err := service.SetStatus(context.Background(), authorID, 50, domain.BookingConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetStatus_UnknownStatus(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	service := NewService(mockBookings, mockTours, nil, nil)

	_, err := service.SetStatus(context.Background(), authorID, 50, "ARCHIVED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	mockBookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSetStatus_BookingNotFound(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	mockBookings.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockBookings, mockTours, nil, nil)

	_, err := service.SetStatus(context.Background(), authorID, 404, domain.BookingConfirmed)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

// Deletion

func TestDelete_ByOwner(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	mockBookings.On("GetByID", mock.Anything, int64(50)).Return(pendingBooking(), nil)
	mockTours.On("GetByID", mock.Anything, int64(10)).Return(oneTimeJune1(2), nil)
	mockBookings.On("Delete", mock.Anything, int64(50)).Return(nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	assert.NoError(t, service.Delete(context.Background(), travellerID, 50))
}

func TestDelete_ByStrangerForbidden(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	mockBookings.On("GetByID", mock.Anything, int64(50)).Return(pendingBooking(), nil)
	mockTours.On("GetByID", mock.Anything, int64(10)).Return(oneTimeJune1(2), nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	err := service.Delete(context.Background(), int64(99), 50)
	assert.ErrorIs(t, err, ErrForbidden)
	mockBookings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListForTour_AuthorOnly(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockTours := new(MockTourProvider)

	mockTours.On("GetByID", mock.Anything, int64(10)).Return(oneTimeJune1(2), nil)
	mockBookings.On("GetByTour", mock.Anything, int64(10)).Return([]domain.Booking{*pendingBooking()}, nil)

	service := NewService(mockBookings, mockTours, nil, nil)

	bookings, err := service.ListForTour(context.Background(), authorID, 10)
	assert.NoError(t, err)
	assert.Len(t, bookings, 1)

	_, err = service.ListForTour(context.Background(), travellerID, 10)
	assert.ErrorIs(t, err, ErrForbidden)
}
