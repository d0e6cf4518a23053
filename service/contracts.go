package service

import (
	"context"
	"errors"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/contract"
	"github.com/ZaneerahEssop/QUANTIX-sub001/model"
	"github.com/ZaneerahEssop/QUANTIX-sub001/pkg/logger"
	"github.com/ZaneerahEssop/QUANTIX-sub001/pkg/metrics"
)

var (
	// ErrForbidden is returned when the caller acts for a role they do not hold
	ErrForbidden = errors.New("forbidden")
	// ErrExportDisabled is returned when no object storage is configured
	ErrExportDisabled = errors.New("document export is not configured")
)

// Identity is the authenticated caller
type Identity struct {
	UserID      string
	DisplayName string
	Role        model.Role
}

// Permissions tells the viewer which actions are currently open to them
type Permissions struct {
	CanEdit   bool `json:"canEdit"`
	CanSign   bool `json:"canSign"`
	CanRevise bool `json:"canRevise"`
}

// Document states as shown to viewers
const (
	StateNone  = "none"
	StateDraft = "draft"
	StateSaved = "saved"
)

// ContractView is everything a viewer needs to render and act on a contract
type ContractView struct {
	EventID      string                 `json:"eventId"`
	VendorID     string                 `json:"vendorId"`
	State        string                 `json:"state"`
	Status       model.Status           `json:"status,omitempty"`
	Content      string                 `json:"content"`
	Fields       contract.Fields        `json:"fields"`
	CustomFields []contract.CustomField `json:"customFields"`
	Contract     *model.Contract        `json:"contract,omitempty"`
	Permissions  Permissions            `json:"permissions"`
}

// SaveRequest is a vendor's save. When Fields or CustomFields are present the
// document is rebuilt from a fresh template, otherwise Content is stored as is.
type SaveRequest struct {
	EventID      string
	VendorID     string
	Content      string
	Fields       *contract.Fields
	CustomFields []contract.CustomField
	Status       model.Status
}

// RevisionRequest is a planner asking for changes
type RevisionRequest struct {
	Comment     string
	RequestedBy string
	Timestamp   time.Time
	Status      model.Status
}

// ContractService runs contract actions against the store and announces the
// results on the change feed.
type ContractService struct {
	store    Store
	engine   *contract.Engine
	feed     ChangeFeed
	metrics  *metrics.Metrics
	exporter *Exporter
	now      func() time.Time
}

type ServiceOption func(*ContractService)

func WithFeed(feed ChangeFeed) ServiceOption {
	return func(s *ContractService) {
		if feed != nil {
			s.feed = feed
		}
	}
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *ContractService) { s.metrics = m }
}

func WithExporter(x *Exporter) ServiceOption {
	return func(s *ContractService) { s.exporter = x }
}

func NewContractService(store Store, engine *contract.Engine, opts ...ServiceOption) *ContractService {
	if engine == nil {
		engine = contract.NewEngine()
	}
	s := &ContractService{
		store:  store,
		engine: engine,
		feed:   NopFeed{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the saved contract for an event and vendor
func (s *ContractService) Get(ctx context.Context, eventID, vendorID string) (*model.Contract, error) {
	start := s.now()
	rec, err := s.store.GetContractByPair(ctx, eventID, vendorID)
	s.metrics.ObserveStore("get_by_pair", time.Since(start))
	return rec, err
}

// Load resolves the document for a pair. The template input is nil when the
// event or vendor is unknown.
func (s *ContractService) Load(ctx context.Context, eventID, vendorID string, user Identity) (contract.Document, *contract.TemplateInput, error) {
	rec, err := s.Get(ctx, eventID, vendorID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, nil, err
	}

	in, err := s.templateInput(ctx, eventID, vendorID, user)
	if err != nil {
		return nil, nil, err
	}
	return s.engine.Resolve(eventID, vendorID, rec, in), in, nil
}

func (s *ContractService) templateInput(ctx context.Context, eventID, vendorID string, user Identity) (*contract.TemplateInput, error) {
	start := s.now()
	defer func() { s.metrics.ObserveStore("get_directory", time.Since(start)) }()

	event, err := s.store.GetEvent(ctx, eventID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	vendor, err := s.store.GetVendor(ctx, vendorID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &contract.TemplateInput{
		Event: contract.EventInfo{
			Name:        event.Name,
			StartTime:   event.StartTime,
			PlannerName: event.PlannerName,
		},
		Vendor: contract.VendorInfo{
			BusinessName: vendor.BusinessName,
			ServiceType:  vendor.ServiceType,
			Description:  vendor.Description,
		},
		User: contract.UserInfo{
			DisplayName: user.DisplayName,
			Role:        user.Role,
		},
	}, nil
}

// View resolves the pair and parses the structured fields out of the content
func (s *ContractService) View(ctx context.Context, eventID, vendorID string, user Identity) (*ContractView, error) {
	doc, _, err := s.Load(ctx, eventID, vendorID, user)
	if err != nil {
		return nil, err
	}

	parsed := s.engine.View(doc)
	rec := contract.RecordOf(doc)
	view := &ContractView{
		EventID:      eventID,
		VendorID:     vendorID,
		Status:       contract.StatusOf(doc),
		Content:      contract.ContentOf(doc),
		Fields:       parsed.Fields,
		CustomFields: parsed.CustomFields,
		Contract:     rec,
		Permissions: Permissions{
			CanEdit:   contract.CanEdit(user.Role, doc),
			CanSign:   contract.CanSign(user.Role, rec),
			CanRevise: contract.CanRevise(user.Role, rec),
		},
	}
	switch doc.(type) {
	case contract.NoContract:
		view.State = StateNone
	case contract.Draft:
		view.State = StateDraft
	default:
		view.State = StateSaved
	}
	return view, nil
}

// Save creates or updates the contract for a pair
func (s *ContractService) Save(ctx context.Context, user Identity, req SaveRequest) (*model.Contract, error) {
	doc, in, err := s.Load(ctx, req.EventID, req.VendorID, user)
	if err != nil {
		return nil, err
	}
	if _, missing := doc.(contract.NoContract); missing {
		return nil, s.reject(ctx, "save", contract.ErrUnknownPair)
	}

	var rec *model.Contract
	switch {
	case req.Fields == nil && req.CustomFields == nil:
		rec, err = s.engine.SaveContent(doc, user.Role, req.Content, req.Status)
	case in != nil:
		edit := contract.Edit{CustomFields: req.CustomFields, Status: req.Status}
		if req.Fields != nil {
			edit.Fields = *req.Fields
		}
		rec, err = s.engine.Save(doc, user.Role, edit, *in)
	default:
		// Saved record whose event or vendor is gone: edit the stored text in place.
		rec, err = s.saveInPlace(doc, user.Role, req)
	}
	if err != nil {
		return nil, s.reject(ctx, "save", err)
	}

	if err := s.persist(ctx, rec); err != nil {
		return nil, err
	}
	s.announce(ctx, "save", EventContractSaved, rec)
	return rec, nil
}

func (s *ContractService) saveInPlace(doc contract.Document, role model.Role, req SaveRequest) (*model.Contract, error) {
	var fields contract.Fields
	if req.Fields != nil {
		var err error
		if fields, err = req.Fields.Normalize(); err != nil {
			return nil, err
		}
	}
	custom, err := contract.NormalizeCustomFields(req.CustomFields)
	if err != nil {
		return nil, err
	}
	content := s.engine.Assemble(contract.Edit{Fields: fields, CustomFields: custom}, contract.ContentOf(doc))
	return s.engine.SaveContent(doc, role, content, req.Status)
}

// Sign applies the caller's signature. role is the role the caller claims to
// sign as and must match their identity.
func (s *ContractService) Sign(ctx context.Context, user Identity, id string, role model.Role, name string) (*model.Contract, error) {
	if role != "" && role != user.Role {
		return nil, s.reject(ctx, "sign", ErrForbidden)
	}
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	signed, err := s.engine.Sign(rec, user.Role, name)
	if err != nil {
		return nil, s.reject(ctx, "sign", err)
	}
	if err := s.persist(ctx, signed); err != nil {
		return nil, err
	}
	s.announce(ctx, "sign", EventContractSigned, signed)
	return signed, nil
}

// RequestRevision records a planner's change request
func (s *ContractService) RequestRevision(ctx context.Context, user Identity, id string, req RevisionRequest) (*model.Contract, error) {
	if req.Status != "" && req.Status != model.StatusRevisionsRequested {
		return nil, s.reject(ctx, "revise", contract.ErrInvalidTransition)
	}
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	rev := model.Revision{
		RequestedBy: req.RequestedBy,
		Comment:     req.Comment,
		Timestamp:   req.Timestamp,
	}
	if rev.RequestedBy == "" {
		rev.RequestedBy = user.DisplayName
	}

	revised, err := s.engine.RequestRevision(rec, user.Role, rev)
	if err != nil {
		return nil, s.reject(ctx, "revise", err)
	}
	if err := s.persist(ctx, revised); err != nil {
		return nil, err
	}
	s.announce(ctx, "revise", EventContractRevised, revised)
	return revised, nil
}

// Export renders the stored contract and uploads it to object storage
func (s *ContractService) Export(ctx context.Context, id string) (*ExportResult, error) {
	if s.exporter == nil {
		return nil, ErrExportDisabled
	}
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := s.exporter.Export(ctx, rec)
	if err != nil {
		logger.Error(ctx, "contract export failed", "contract_id", id, "error", err)
		return nil, err
	}
	logger.Info(ctx, "contract exported", "contract_id", id, "key", res.HTMLKey)
	return res, nil
}

func (s *ContractService) load(ctx context.Context, id string) (*model.Contract, error) {
	start := s.now()
	rec, err := s.store.GetContract(ctx, id)
	s.metrics.ObserveStore("get", time.Since(start))
	return rec, err
}

func (s *ContractService) persist(ctx context.Context, rec *model.Contract) error {
	start := s.now()
	err := s.store.SaveContract(ctx, rec)
	s.metrics.ObserveStore("save", time.Since(start))
	if err != nil {
		logger.Error(ctx, "failed to save contract", "event_id", rec.EventID, "vendor_id", rec.VendorID, "error", err)
	}
	return err
}

func (s *ContractService) announce(ctx context.Context, action, eventType string, rec *model.Contract) {
	s.metrics.IncrementTransition(action, string(rec.Status))
	logger.Info(ctx, "contract "+action, "contract_id", rec.ID, "status", rec.Status)

	ev := ChangeEvent{Type: eventType, Contract: rec, At: s.now().UTC()}
	if err := s.feed.Publish(ctx, ev); err != nil {
		logger.Warn(ctx, "failed to publish contract change", "contract_id", rec.ID, "error", err)
	}
}

// reject logs and counts a refused action, then hands the error back
func (s *ContractService) reject(ctx context.Context, action string, err error) error {
	reason := err.Error()
	var verr *contract.ValidationError
	if errors.As(err, &verr) {
		reason = verr.Reason
	}
	s.metrics.IncrementRejection(action, reason)
	logger.Warn(ctx, "contract "+action+" rejected", "reason", reason)
	return err
}
