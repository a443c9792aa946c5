//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"

	"gearpool/internal/handler/api"
	"gearpool/internal/usecase/commands"
	commonhttp "gearpool/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// stubAllocatorCommands lets each test script the command outcome.
type stubAllocatorCommands struct {
	assignErr   error
	unassignErr error

	gotBookingID uuid.UUID
	gotVehicleID uuid.UUID
}

func (s *stubAllocatorCommands) AssignVehicle(_ context.Context, bookingID, vehicleID uuid.UUID) error {
	s.gotBookingID = bookingID
	s.gotVehicleID = vehicleID
	return s.assignErr
}

func (s *stubAllocatorCommands) UnassignVehicle(_ context.Context, bookingID uuid.UUID) error {
	s.gotBookingID = bookingID
	return s.unassignErr
}

type AssignmentHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	stub    *stubAllocatorCommands
	handler *api.AssignmentHandler
}

func (s *AssignmentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.stub = &stubAllocatorCommands{}
	s.handler = api.NewAssignmentHandler(s.stub)

	s.router.PUT("/bookings/:id/assignment", s.handler.Assign)
	s.router.DELETE("/bookings/:id/assignment", s.handler.Unassign)
}

func TestAssignmentHandlerSuite(t *testing.T) {
	suite.Run(t, new(AssignmentHandlerTestSuite))
}

func (s *AssignmentHandlerTestSuite) TestAssign() {
	bookingID := uuid.New()
	vehicleID := uuid.New()
	body := map[string]any{"vehicle_id": vehicleID.String()}

	tests := []struct {
		name       string
		assignErr  error
		expectCode int
		expectMsg  string
	}{
		{name: "granted", assignErr: nil, expectCode: http.StatusNoContent},
		{name: "missing booking", assignErr: commands.ErrBookingNotFound, expectCode: http.StatusNotFound, expectMsg: "Booking not found"},
		{name: "retired vehicle", assignErr: commands.ErrVehicleUnavailable, expectCode: http.StatusUnprocessableEntity, expectMsg: "missing or retired"},
		{name: "booking not approved", assignErr: commands.ErrBookingNotApproved, expectCode: http.StatusConflict, expectMsg: "not approved"},
		{name: "race fallback lock", assignErr: commands.ErrVehicleLocked, expectCode: http.StatusConflict, expectMsg: "locked"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.stub.assignErr = tt.assignErr

			w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPut, "/bookings/"+bookingID.String()+"/assignment", body, "")

			if tt.expectCode == http.StatusNoContent {
				s.Equal(http.StatusNoContent, w.Code)
				s.Equal(bookingID, s.stub.gotBookingID)
				s.Equal(vehicleID, s.stub.gotVehicleID)
				return
			}
			commonhttp.AssertErrorResponse(s.T(), w, tt.expectCode, tt.expectMsg)
		})
	}
}

func (s *AssignmentHandlerTestSuite) TestAssignConflictCarriesDetail() {
	holder := uuid.New()
	vehicleID := uuid.New()
	s.stub.assignErr = &commands.ConflictError{
		Sentinel: commands.ErrSlotConflict,
		Detail: commands.SlotConflictDetail{
			VehicleID:       vehicleID,
			HeldByBookingID: holder,
			DateOfUse:       "2026-07-14",
			TimeSlot:        "09:00-12:00",
			SameSlot:        true,
		},
	}

	w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPut,
		"/bookings/"+uuid.New().String()+"/assignment",
		map[string]any{"vehicle_id": vehicleID.String()}, "")

	commonhttp.AssertErrorResponse(s.T(), w, http.StatusConflict, "already assigned")
	s.Contains(w.Body.String(), holder.String(), "conflict detail must name the blocking booking")
	s.Contains(w.Body.String(), `"same_slot":true`)
}

func (s *AssignmentHandlerTestSuite) TestAssignRejectsBadInput() {
	s.Run("malformed booking id", func() {
		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPut, "/bookings/not-a-uuid/assignment",
			map[string]any{"vehicle_id": uuid.New().String()}, "")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("missing vehicle id", func() {
		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodPut,
			"/bookings/"+uuid.New().String()+"/assignment", map[string]any{}, "")
		commonhttp.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request")
	})
}

func (s *AssignmentHandlerTestSuite) TestUnassign() {
	s.Run("released", func() {
		s.stub.unassignErr = nil
		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodDelete,
			"/bookings/"+uuid.New().String()+"/assignment", nil, "")
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("no assignment", func() {
		s.stub.unassignErr = commands.ErrAssignmentNotFound
		w := commonhttp.PerformRequest(s.T(), s.router, http.MethodDelete,
			"/bookings/"+uuid.New().String()+"/assignment", nil, "")
		commonhttp.AssertErrorResponse(s.T(), w, http.StatusNotFound, "No assignment")
	})
}
