package contract

import (
	"strings"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/model"
)

const (
	// NotSpecified stands in for any value nobody has supplied yet
	NotSpecified = "[Not Specified]"
	// PaymentTermsHeading anchors custom clauses, which are inserted just above it
	PaymentTermsHeading = "## Payment Terms"

	dateLayout = "January 2, 2006"
)

// EventInfo is the part of an event the template needs
type EventInfo struct {
	Name        string
	StartTime   time.Time
	PlannerName string
}

// VendorInfo is the part of a vendor listing the template needs
type VendorInfo struct {
	BusinessName string
	ServiceType  string
	Description  string
}

// UserInfo identifies who is looking at the contract
type UserInfo struct {
	DisplayName string
	Role        model.Role
}

// TemplateInput bundles everything Generate reads
type TemplateInput struct {
	Event  EventInfo
	Vendor VendorInfo
	User   UserInfo
}

// Generate renders the default contract document. Identical input always
// yields identical text.
func Generate(in TemplateInput) string {
	var b strings.Builder

	b.WriteString("# Event Services Agreement\n\n")
	b.WriteString("**Event:** " + orNotSpecified(in.Event.Name) + "  \n")
	b.WriteString("**Date:** " + formatDate(in.Event.StartTime) + "\n\n")

	b.WriteString("## Parties\n\n")
	b.WriteString("- **Client:** " + orNotSpecified(clientName(in)) + "\n")
	b.WriteString("- **Vendor:** " + orNotSpecified(in.Vendor.BusinessName) + "\n\n")

	section := serviceSections[ParseServiceType(in.Vendor.ServiceType)]
	b.WriteString("## " + section.title + "\n\n")
	for _, c := range section.clauses {
		value := c.placeholder
		if c.field == FieldSpacesProvided {
			value = orNotSpecified(in.Vendor.Description)
		}
		b.WriteString("- **" + c.field.Label() + ":** " + value + "\n")
	}
	b.WriteString("\n")

	b.WriteString(PaymentTermsHeading + "\n\n")
	b.WriteString("- **Total Fee:** [Amount]\n")
	b.WriteString("- **Deposit:** 50% of the Total Fee, due on signing\n")
	b.WriteString("- **Balance Due:** 14 days before the event date\n")
	b.WriteString("- **Payment Method:** Electronic funds transfer\n\n")

	b.WriteString("## Cancellation Policy\n\n")
	b.WriteString("Cancellations made more than 30 days before the event date are refunded in full, less the deposit. ")
	b.WriteString("Cancellations made within 30 days of the event date forfeit 50% of the Total Fee. ")
	b.WriteString("Cancellations made within 7 days of the event date forfeit the full Total Fee.\n\n")

	b.WriteString("## Signatures\n\n")
	b.WriteString("By signing electronically, both parties agree to the terms of this agreement.\n")

	return b.String()
}

func clientName(in TemplateInput) string {
	if in.User.Role == model.RolePlanner && strings.TrimSpace(in.User.DisplayName) != "" {
		return in.User.DisplayName
	}
	return in.Event.PlannerName
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return NotSpecified
	}
	return t.Format(dateLayout)
}

func orNotSpecified(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotSpecified
	}
	// keep free text on a single bullet line
	return strings.Join(strings.Fields(s), " ")
}
