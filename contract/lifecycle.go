package contract

import (
	"errors"
	"strings"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/model"
	"gorm.io/datatypes"
)

// ErrUnknownPair is returned when a contract is requested for an event or vendor that does not exist.
var ErrUnknownPair = errors.New("event or vendor not found")

// Document is the contract as a viewer sees it: nothing, an unsaved draft, or a saved record.
type Document interface {
	isDocument()
}

// NoContract means there is no record and nothing to build a draft from.
type NoContract struct {
	EventID  string
	VendorID string
}

// Draft is generated template content that has never been saved.
type Draft struct {
	EventID  string
	VendorID string
	Content  string
}

// Saved wraps a persisted record.
type Saved struct {
	Record *model.Contract
}

func (NoContract) isDocument() {}
func (Draft) isDocument()      {}
func (Saved) isDocument()      {}

// StatusOf returns the lifecycle status of doc; drafts and missing contracts report StatusDraft.
func StatusOf(doc Document) model.Status {
	if s, ok := doc.(Saved); ok && s.Record != nil {
		return recordStatus(s.Record)
	}
	return model.StatusDraft
}

// ContentOf returns the document text, or "" when there is none.
func ContentOf(doc Document) string {
	switch d := doc.(type) {
	case Draft:
		return d.Content
	case Saved:
		if d.Record != nil {
			return d.Record.Content
		}
	}
	return ""
}

// RecordOf returns the saved record, or nil for drafts and missing contracts.
func RecordOf(doc Document) *model.Contract {
	if s, ok := doc.(Saved); ok {
		return s.Record
	}
	return nil
}

func recordStatus(rec *model.Contract) model.Status {
	if rec.Status == "" {
		return model.StatusPendingPlannerSignature
	}
	return rec.Status
}

// Allowed status moves. Self-moves cover re-saves and repeated revision requests.
var transitions = map[model.Status][]model.Status{
	model.StatusDraft:                   {model.StatusPendingPlannerSignature},
	model.StatusPendingPlannerSignature: {model.StatusPendingPlannerSignature, model.StatusRevisionsRequested, model.StatusActive},
	model.StatusRevisionsRequested:      {model.StatusRevisionsRequested, model.StatusPendingPlannerSignature, model.StatusActive},
	model.StatusActive:                  {model.StatusActive},
}

// CanTransition reports whether a contract may move from one status to another.
func CanTransition(from, to model.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanEdit: only vendors edit, and only until the contract is active.
func CanEdit(role model.Role, doc Document) bool {
	if _, missing := doc.(NoContract); missing || doc == nil {
		return false
	}
	return role == model.RoleVendor && StatusOf(doc) != model.StatusActive
}

// CanSign: the planner signs first, then the vendor countersigns.
func CanSign(role model.Role, rec *model.Contract) bool {
	if rec == nil {
		return false
	}
	switch role {
	case model.RolePlanner:
		return !rec.HasPlannerSignature()
	case model.RoleVendor:
		return !rec.HasVendorSignature() && rec.HasPlannerSignature()
	}
	return false
}

// CanRevise: a planner may ask for changes until they sign or the contract is active.
func CanRevise(role model.Role, rec *model.Contract) bool {
	if rec == nil {
		return false
	}
	return role == model.RolePlanner &&
		recordStatus(rec) != model.StatusActive &&
		!rec.HasPlannerSignature()
}

// Edit is a vendor's change to the structured fields
type Edit struct {
	Fields       Fields
	CustomFields []CustomField
	// Status, when set, is the status the caller expects the save to produce.
	Status model.Status
}

// Engine applies contract actions. It holds no state besides configuration
// and is safe for concurrent use.
type Engine struct {
	currency string
	now      func() time.Time
}

type Option func(*Engine)

// WithCurrency sets the symbol written in front of the total fee
func WithCurrency(symbol string) Option {
	return func(e *Engine) {
		if symbol != "" {
			e.currency = symbol
		}
	}
}

// WithClock replaces time.Now for signatures and revisions without a timestamp
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{currency: DefaultCurrency, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Currency() string { return e.currency }

// Resolve picks the document variant for a pair. in is nil when the event or
// vendor could not be found.
func (e *Engine) Resolve(eventID, vendorID string, rec *model.Contract, in *TemplateInput) Document {
	switch {
	case rec != nil:
		return Saved{Record: rec}
	case in != nil:
		return Draft{EventID: eventID, VendorID: vendorID, Content: Generate(*in)}
	default:
		return NoContract{EventID: eventID, VendorID: vendorID}
	}
}

// View re-derives the structured fields from the document's current content.
func (e *Engine) View(doc Document) Parsed {
	return Parse(ContentOf(doc))
}

// Assemble merges an edit into base using the engine's currency
func (e *Engine) Assemble(edit Edit, base string) string {
	return Assemble(edit.Fields, edit.CustomFields, base, e.currency)
}

// Save assembles the edit onto a fresh template and returns the record to store.
// A save clears a revisions request and sends the contract back to the planner.
func (e *Engine) Save(doc Document, role model.Role, edit Edit, in TemplateInput) (*model.Contract, error) {
	fields, err := edit.Fields.Normalize()
	if err != nil {
		return nil, err
	}
	custom, err := NormalizeCustomFields(edit.CustomFields)
	if err != nil {
		return nil, err
	}
	content := e.Assemble(Edit{Fields: fields, CustomFields: custom}, Generate(in))
	return e.commit(doc, role, content, edit.Status)
}

// SaveContent stores document text as sent by the caller, under the same rules as Save.
func (e *Engine) SaveContent(doc Document, role model.Role, content string, expected model.Status) (*model.Contract, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fieldError(ErrInvalidValue, "content")
	}
	return e.commit(doc, role, content, expected)
}

func (e *Engine) commit(doc Document, role model.Role, content string, expected model.Status) (*model.Contract, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if !CanEdit(role, doc) {
		if _, missing := doc.(NoContract); missing {
			return nil, ErrUnknownPair
		}
		return nil, ErrNotEditable
	}

	var rec *model.Contract
	switch d := doc.(type) {
	case Draft:
		rec = &model.Contract{
			EventID:   d.EventID,
			VendorID:  d.VendorID,
			Status:    model.StatusPendingPlannerSignature,
			Revisions: datatypes.JSONSlice[model.Revision]{},
		}
	case Saved:
		if d.Record == nil {
			return nil, ErrNoRecord
		}
		next := recordStatus(d.Record)
		if next == model.StatusRevisionsRequested {
			next = model.StatusPendingPlannerSignature
		}
		var err error
		if rec, err = e.SetStatus(d.Record, next); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnknownPair
	}

	if expected != "" && expected != rec.Status {
		return nil, ErrInvalidTransition
	}
	rec.Content = content
	return rec, nil
}

// Sign applies one party's signature. Once both parties have signed the
// contract is active.
func (e *Engine) Sign(rec *model.Contract, role model.Role, name string) (*model.Contract, error) {
	if rec == nil {
		return nil, ErrNoRecord
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSignatureRequired
	}

	switch {
	case role == model.RolePlanner && rec.HasPlannerSignature(),
		role == model.RoleVendor && rec.HasVendorSignature():
		return nil, ErrAlreadySigned
	case role == model.RoleVendor && !rec.HasPlannerSignature():
		return nil, ErrPlannerMustSignFirst
	}

	out := rec.Clone()
	now := e.now().UTC()
	if role == model.RolePlanner {
		out.PlannerSignature, out.PlannerSignedAt = &name, &now
	} else {
		out.VendorSignature, out.VendorSignedAt = &name, &now
	}

	if out.HasPlannerSignature() && out.HasVendorSignature() {
		return e.SetStatus(out, model.StatusActive)
	}
	return out, nil
}

// AppendRevision records a revision request without touching the status.
// A zero timestamp is filled from the engine clock.
func (e *Engine) AppendRevision(rec *model.Contract, rev model.Revision) (*model.Contract, error) {
	if rec == nil {
		return nil, ErrNoRecord
	}
	rev.Comment = strings.TrimSpace(rev.Comment)
	if rev.Comment == "" {
		return nil, ErrCommentRequired
	}
	rev.RequestedBy = strings.TrimSpace(rev.RequestedBy)
	if rev.Timestamp.IsZero() {
		rev.Timestamp = e.now().UTC()
	}

	out := rec.Clone()
	out.Revisions = append(out.Revisions, rev)
	return out, nil
}

// SetStatus moves the record along the lifecycle graph
func (e *Engine) SetStatus(rec *model.Contract, to model.Status) (*model.Contract, error) {
	if rec == nil {
		return nil, ErrNoRecord
	}
	if !to.Valid() || !CanTransition(recordStatus(rec), to) {
		return nil, ErrInvalidTransition
	}
	out := rec.Clone()
	out.Status = to
	return out, nil
}

// RequestRevision is the planner's combined action: append the revision and
// mark the contract as needing changes.
func (e *Engine) RequestRevision(rec *model.Contract, role model.Role, rev model.Revision) (*model.Contract, error) {
	if rec == nil {
		return nil, ErrNoRecord
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if strings.TrimSpace(rev.Comment) == "" {
		return nil, ErrCommentRequired
	}
	if !CanRevise(role, rec) {
		return nil, ErrNotRevisable
	}
	out, err := e.AppendRevision(rec, rev)
	if err != nil {
		return nil, err
	}
	return e.SetStatus(out, model.StatusRevisionsRequested)
}
