package fleet

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/internal/domain/types"
	"fleetmaster/pkg/accesscode"
	"fleetmaster/pkg/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVehicleRepo struct {
	vehicles    map[uuid.UUID]*models.Vehicle
	syncedCalls []uuid.UUID
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[uuid.UUID]*models.Vehicle)}
}

func (f *fakeVehicleRepo) Create(_ context.Context, v *models.Vehicle) error {
	stored := *v
	f.vehicles[v.ID] = &stored
	return nil
}

func (f *fakeVehicleRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Vehicle, error) {
	return f.vehicles[id], nil
}

func (f *fakeVehicleRepo) ListByProfile(_ context.Context, profileID uuid.UUID, _ string, filters models.Filters) ([]models.Vehicle, models.Metadata, error) {
	var out []models.Vehicle
	for _, v := range f.vehicles {
		if v.ProfileID == profileID {
			out = append(out, *v)
		}
	}
	return out, models.CalculateMetadata(len(out), filters.Page, filters.PageSize), nil
}

func (f *fakeVehicleRepo) Update(_ context.Context, v *models.Vehicle) error {
	stored := *v
	f.vehicles[v.ID] = &stored
	return nil
}

func (f *fakeVehicleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.vehicles, id)
	return nil
}

func (f *fakeVehicleRepo) SyncMileage(_ context.Context, vehicleID uuid.UUID) error {
	f.syncedCalls = append(f.syncedCalls, vehicleID)
	return nil
}

type fakeDriverRepo struct {
	drivers map[uuid.UUID]*models.Driver
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{drivers: make(map[uuid.UUID]*models.Driver)}
}

func (f *fakeDriverRepo) Create(_ context.Context, d *models.Driver) error {
	stored := *d
	f.drivers[d.ID] = &stored
	return nil
}

func (f *fakeDriverRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Driver, error) {
	if d, ok := f.drivers[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeDriverRepo) ListByProfile(_ context.Context, profileID uuid.UUID, filters models.Filters) ([]models.Driver, models.Metadata, error) {
	var out []models.Driver
	for _, d := range f.drivers {
		if d.ProfileID == profileID {
			out = append(out, *d)
		}
	}
	return out, models.CalculateMetadata(len(out), filters.Page, filters.PageSize), nil
}

func (f *fakeDriverRepo) Update(_ context.Context, d *models.Driver) error {
	stored := *d
	f.drivers[d.ID] = &stored
	return nil
}

func (f *fakeDriverRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.drivers, id)
	return nil
}

func (f *fakeDriverRepo) AccessCodeExists(_ context.Context, code string) (bool, error) {
	for _, d := range f.drivers {
		if d.AccessCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDriverRepo) UpdateAccessCode(_ context.Context, id uuid.UUID, code string) error {
	if d, ok := f.drivers[id]; ok {
		d.AccessCode = code
	}
	return nil
}

type fakeMaintenanceRepo struct {
	reports map[uuid.UUID]*models.MaintenanceReport
	parts   map[uuid.UUID][]models.PartPurchaseEvent
	service map[uuid.UUID][]models.ServiceProviderEvent
}

func newFakeMaintenanceRepo() *fakeMaintenanceRepo {
	return &fakeMaintenanceRepo{
		reports: make(map[uuid.UUID]*models.MaintenanceReport),
		parts:   make(map[uuid.UUID][]models.PartPurchaseEvent),
		service: make(map[uuid.UUID][]models.ServiceProviderEvent),
	}
}

func (f *fakeMaintenanceRepo) CreateReport(_ context.Context, r *models.MaintenanceReport) error {
	stored := *r
	f.reports[r.ID] = &stored
	return nil
}

func (f *fakeMaintenanceRepo) GetByID(_ context.Context, id uuid.UUID) (*models.MaintenanceReport, error) {
	if r, ok := f.reports[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeMaintenanceRepo) ListByProfile(_ context.Context, profileID uuid.UUID, vehicleID uuid.UUID, filters models.Filters) ([]models.MaintenanceReport, models.Metadata, error) {
	var out []models.MaintenanceReport
	for _, r := range f.reports {
		if r.ProfileID != profileID {
			continue
		}
		if !vehicleID.IsNil() && r.VehicleID != vehicleID {
			continue
		}
		out = append(out, *r)
	}
	return out, models.CalculateMetadata(len(out), filters.Page, filters.PageSize), nil
}

func (f *fakeMaintenanceRepo) Update(_ context.Context, r *models.MaintenanceReport) error {
	stored := *r
	f.reports[r.ID] = &stored
	return nil
}

func (f *fakeMaintenanceRepo) DeleteReport(_ context.Context, id uuid.UUID) error {
	delete(f.reports, id)
	return nil
}

func (f *fakeMaintenanceRepo) DeleteEvents(_ context.Context, reportID uuid.UUID) error {
	delete(f.parts, reportID)
	delete(f.service, reportID)
	return nil
}

func (f *fakeMaintenanceRepo) AddPartPurchase(_ context.Context, e *models.PartPurchaseEvent) error {
	f.parts[e.ReportID] = append(f.parts[e.ReportID], *e)
	return nil
}

func (f *fakeMaintenanceRepo) AddServiceEvent(_ context.Context, e *models.ServiceProviderEvent) error {
	f.service[e.ReportID] = append(f.service[e.ReportID], *e)
	return nil
}

func (f *fakeMaintenanceRepo) LoadEvents(_ context.Context, r *models.MaintenanceReport) error {
	r.PartPurchases = f.parts[r.ID]
	r.ServiceEvents = f.service[r.ID]
	return nil
}

type fakeShiftRepo struct {
	shifts map[uuid.UUID]*models.Shift
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[uuid.UUID]*models.Shift)}
}

func (f *fakeShiftRepo) Create(_ context.Context, s *models.Shift) error {
	stored := *s
	f.shifts[s.ID] = &stored
	return nil
}

func (f *fakeShiftRepo) GetOpen(_ context.Context, driverID uuid.UUID) (*models.Shift, error) {
	for _, s := range f.shifts {
		if s.DriverID == driverID && s.EndedAt == nil {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeShiftRepo) Close(_ context.Context, shiftID uuid.UUID, endedAt time.Time) error {
	if s, ok := f.shifts[shiftID]; ok {
		ended := endedAt
		s.EndedAt = &ended
	}
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type testLogger struct{}

func (testLogger) Debug(ctx context.Context, msg string, args ...any)            {}
func (testLogger) Info(ctx context.Context, msg string, args ...any)             {}
func (testLogger) Warn(ctx context.Context, msg string, args ...any)             {}
func (testLogger) Error(ctx context.Context, msg string, err error, args ...any) {}
func (testLogger) GetSlogLogger() *slog.Logger                                   { return slog.Default() }

type fixture struct {
	svc      *Service
	vehicles *fakeVehicleRepo
	drivers  *fakeDriverRepo
	reports  *fakeMaintenanceRepo
	shifts   *fakeShiftRepo
}

func newFixture() *fixture {
	vehicles := newFakeVehicleRepo()
	drivers := newFakeDriverRepo()
	reports := newFakeMaintenanceRepo()
	shifts := newFakeShiftRepo()

	svc := New(vehicles, drivers, reports, shifts, nil, nil, fakeTxManager{}, testLogger{})

	return &fixture{svc: svc, vehicles: vehicles, drivers: drivers, reports: reports, shifts: shifts}
}

func (f *fixture) addVehicle(profileID uuid.UUID) *models.Vehicle {
	v := &models.Vehicle{
		ID:           uuid.New(),
		ProfileID:    profileID,
		Registration: "KA01",
		VehicleType:  types.CarType.String(),
	}
	f.vehicles.vehicles[v.ID] = v
	return v
}

func TestGetVehicleOwnership(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	stranger := uuid.New()
	vehicle := f.addVehicle(owner)

	got, err := f.svc.GetVehicle(context.Background(), owner, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, vehicle.ID, got.ID)

	// A foreign vehicle reads as forbidden, a missing one as not found.
	_, err = f.svc.GetVehicle(context.Background(), stranger, vehicle.ID)
	assert.ErrorIs(t, err, types.ErrForbidden)

	_, err = f.svc.GetVehicle(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, types.ErrVehicleNotFound)
}

func TestCreateDriverGeneratesValidAccessCode(t *testing.T) {
	f := newFixture()
	profileID := uuid.New()

	driver, err := f.svc.CreateDriver(context.Background(), &models.DriverCreateRequest{
		ProfileID:   profileID,
		FirstName:   "Marta",
		LastName:    "Kovacs",
		DateOfBirth: time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.True(t, accesscode.Valid(driver.AccessCode))
	assert.Equal(t, profileID, driver.ProfileID)

	// The plaintext code is only returned at creation time.
	got, err := f.svc.GetDriver(context.Background(), profileID, driver.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AccessCode)
}

func TestRegenerateAccessCodeReplacesOld(t *testing.T) {
	f := newFixture()
	profileID := uuid.New()

	driver, err := f.svc.CreateDriver(context.Background(), &models.DriverCreateRequest{
		ProfileID: profileID,
		FirstName: "Marta",
		LastName:  "Kovacs",
	})
	require.NoError(t, err)
	oldCode := driver.AccessCode

	newCode, err := f.svc.RegenerateAccessCode(context.Background(), profileID, driver.ID)
	require.NoError(t, err)

	assert.True(t, accesscode.Valid(newCode))
	assert.NotEqual(t, oldCode, newCode)
	assert.Equal(t, newCode, f.drivers.drivers[driver.ID].AccessCode)
}

func TestCreateReportSyncsMileage(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	vehicle := f.addVehicle(owner)

	report := &models.MaintenanceReport{
		VehicleID:       vehicle.ID,
		StartDate:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Mileage:         120000,
		MaintenanceType: string(types.CorrectiveMaintenance),
		PartPurchases: []models.PartPurchaseEvent{
			{PartName: "brake pad", Cost: 80},
		},
		ServiceEvents: []models.ServiceProviderEvent{
			{ProviderName: "garage", Cost: 120},
		},
	}

	created, err := f.svc.CreateReport(context.Background(), owner, report)
	require.NoError(t, err)

	assert.Equal(t, 200.0, created.TotalCost)
	assert.Equal(t, []uuid.UUID{vehicle.ID}, f.vehicles.syncedCalls)
	assert.Len(t, f.reports.parts[created.ID], 1)
	assert.Len(t, f.reports.service[created.ID], 1)
}

func TestCreateReportRejectsInvalidDateRange(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	vehicle := f.addVehicle(owner)

	report := &models.MaintenanceReport{
		VehicleID:       vehicle.ID,
		StartDate:       time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		MaintenanceType: string(types.PreventiveMaintenance),
	}

	_, err := f.svc.CreateReport(context.Background(), owner, report)
	assert.ErrorIs(t, err, types.ErrInvalidDateRange)
}

func TestDeleteReportCascadesAndResyncs(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	vehicle := f.addVehicle(owner)

	report := &models.MaintenanceReport{
		VehicleID:       vehicle.ID,
		StartDate:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		MaintenanceType: string(types.InspectionMaintenance),
		PartPurchases: []models.PartPurchaseEvent{
			{PartName: "oil filter", Cost: 30},
		},
	}

	created, err := f.svc.CreateReport(context.Background(), owner, report)
	require.NoError(t, err)
	f.vehicles.syncedCalls = nil

	err = f.svc.DeleteReport(context.Background(), owner, created.ID)
	require.NoError(t, err)

	assert.Empty(t, f.reports.reports)
	assert.Empty(t, f.reports.parts[created.ID])
	// Mileage resynced after the cascade.
	assert.Equal(t, []uuid.UUID{vehicle.ID}, f.vehicles.syncedCalls)
}

func TestDeleteReportOwnership(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	vehicle := f.addVehicle(owner)

	report := &models.MaintenanceReport{
		VehicleID:       vehicle.ID,
		StartDate:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		MaintenanceType: string(types.PreventiveMaintenance),
	}

	created, err := f.svc.CreateReport(context.Background(), owner, report)
	require.NoError(t, err)

	err = f.svc.DeleteReport(context.Background(), uuid.New(), created.ID)
	assert.ErrorIs(t, err, types.ErrForbidden)

	err = f.svc.DeleteReport(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, types.ErrReportNotFound)
}

func TestStartShiftTwiceFails(t *testing.T) {
	f := newFixture()
	driverID := uuid.New()

	shift, err := f.svc.StartShift(context.Background(), driverID)
	require.NoError(t, err)
	assert.Nil(t, shift.EndedAt)

	_, err = f.svc.StartShift(context.Background(), driverID)
	assert.ErrorIs(t, err, types.ErrShiftAlreadyOpen)
}

func TestEndShiftClosesOpenShift(t *testing.T) {
	f := newFixture()
	driverID := uuid.New()

	_, err := f.svc.EndShift(context.Background(), driverID)
	assert.ErrorIs(t, err, types.ErrNoOpenShift)

	started, err := f.svc.StartShift(context.Background(), driverID)
	require.NoError(t, err)

	ended, err := f.svc.EndShift(context.Background(), driverID)
	require.NoError(t, err)
	assert.Equal(t, started.ID, ended.ID)
	require.NotNil(t, ended.EndedAt)

	// A new shift can be started after the old one is closed.
	_, err = f.svc.StartShift(context.Background(), driverID)
	assert.NoError(t, err)
}

func TestDeleteVehicleCascadesReports(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	vehicle := f.addVehicle(owner)

	report := &models.MaintenanceReport{
		VehicleID:       vehicle.ID,
		StartDate:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		MaintenanceType: string(types.PreventiveMaintenance),
	}
	_, err := f.svc.CreateReport(context.Background(), owner, report)
	require.NoError(t, err)

	err = f.svc.DeleteVehicle(context.Background(), owner, vehicle.ID)
	require.NoError(t, err)

	assert.Empty(t, f.vehicles.vehicles)
	assert.Empty(t, f.reports.reports)
}
