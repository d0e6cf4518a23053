package service

import (
	"context"
	"strings"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/contract"
	"github.com/ZaneerahEssop/QUANTIX-sub001/model"
	"github.com/ZaneerahEssop/QUANTIX-sub001/pkg/logger"
	"github.com/ZaneerahEssop/QUANTIX-sub001/pkg/metrics"
)

// DirectoryService manages the events and vendors contracts are drawn up for
type DirectoryService struct {
	store   Store
	metrics *metrics.Metrics
}

func NewDirectoryService(store Store, m *metrics.Metrics) *DirectoryService {
	return &DirectoryService{store: store, metrics: m}
}

// CreateEvent registers an event owned by the calling planner
func (d *DirectoryService) CreateEvent(ctx context.Context, user Identity, name string, start time.Time) (*model.Event, error) {
	if user.Role != model.RolePlanner {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &contract.ValidationError{Reason: "name required", Field: "name"}
	}

	e := &model.Event{
		Name:        name,
		StartTime:   start.UTC(),
		PlannerID:   user.UserID,
		PlannerName: user.DisplayName,
	}
	began := time.Now()
	err := d.store.CreateEvent(ctx, e)
	d.metrics.ObserveStore("create_event", time.Since(began))
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "event created", "event_id", e.ID)
	return e, nil
}

func (d *DirectoryService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	began := time.Now()
	defer func() { d.metrics.ObserveStore("get_event", time.Since(began)) }()
	return d.store.GetEvent(ctx, id)
}

// CreateVendor lists a business owned by the calling vendor
func (d *DirectoryService) CreateVendor(ctx context.Context, user Identity, businessName, serviceType, description string) (*model.Vendor, error) {
	if user.Role != model.RoleVendor {
		return nil, ErrForbidden
	}
	businessName = strings.TrimSpace(businessName)
	if businessName == "" {
		return nil, &contract.ValidationError{Reason: "business name required", Field: "businessName"}
	}

	v := &model.Vendor{
		BusinessName: businessName,
		ServiceType:  contract.ParseServiceType(serviceType).String(),
		Description:  strings.TrimSpace(description),
		OwnerID:      user.UserID,
	}
	began := time.Now()
	err := d.store.CreateVendor(ctx, v)
	d.metrics.ObserveStore("create_vendor", time.Since(began))
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "vendor created", "vendor_id", v.ID, "service_type", v.ServiceType)
	return v, nil
}

func (d *DirectoryService) GetVendor(ctx context.Context, id string) (*model.Vendor, error) {
	began := time.Now()
	defer func() { d.metrics.ObserveStore("get_vendor", time.Since(began)) }()
	return d.store.GetVendor(ctx, id)
}
