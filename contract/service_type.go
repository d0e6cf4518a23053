package contract

import "strings"

// ServiceType selects the services section of a generated contract
type ServiceType int

const (
	ServiceGeneric ServiceType = iota
	ServiceCatering
	ServicePhotography
	ServiceMusic
	ServiceDecor
	ServiceFlowers
	ServiceVenue
)

var serviceTypeNames = map[string]ServiceType{
	"catering":    ServiceCatering,
	"photography": ServicePhotography,
	"music":       ServiceMusic,
	"decor":       ServiceDecor,
	"flowers":     ServiceFlowers,
	"venue":       ServiceVenue,
}

// ParseServiceType matches case-insensitively; anything unknown is ServiceGeneric
func ParseServiceType(s string) ServiceType {
	if t, ok := serviceTypeNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return ServiceGeneric
}

func (t ServiceType) String() string {
	for name, v := range serviceTypeNames {
		if v == t {
			return name
		}
	}
	return "generic"
}

type clause struct {
	field       FieldKey
	placeholder string
}

type serviceSection struct {
	title   string
	clauses []clause
}

// Sections by service type. Each clause renders as "- **<Label>:** <placeholder>".
var serviceSections = map[ServiceType]serviceSection{
	ServiceCatering: {
		title: "Catering Services",
		clauses: []clause{
			{FieldServiceStyle, "[e.g., Buffet, Plated, Family Style]"},
			{FieldStaffing, "[e.g., 4 servers, 1 chef]"},
			{FieldRestrictions, "[e.g., Halaal, vegetarian options]"},
		},
	},
	ServicePhotography: {
		title: "Photography Services",
		clauses: []clause{
			{FieldHoursOfCoverage, "[Number of hours]"},
			{FieldDeliverables, "[e.g., Digital gallery]"},
		},
	},
	ServiceMusic: {
		title: "Music & Entertainment Services",
		clauses: []clause{
			{FieldServiceType, "[e.g., DJ, Live Band]"},
			{FieldPerformanceTime, "[e.g., 18:00 - 23:00]"},
			{FieldEquipment, "[e.g., PA system, lighting]"},
		},
	},
	ServiceDecor: {
		title: "Decor Services",
		clauses: []clause{
			{FieldScope, "[e.g., Table settings, backdrop]"},
			{FieldEquipment, "[e.g., Draping, centrepieces]"},
		},
	},
	ServiceFlowers: {
		title: "Floral Services",
		clauses: []clause{
			{FieldArrangementTypes, "[e.g., Bouquets, centrepieces]"},
			{FieldDeliverables, "[e.g., Delivery and setup]"},
		},
	},
	ServiceVenue: {
		title: "Venue Services",
		clauses: []clause{
			{FieldSpacesProvided, ""}, // filled from the vendor description
			{FieldCapacity, "[Maximum guests]"},
			{FieldRestrictions, "[e.g., Noise curfew, no open flames]"},
		},
	},
	ServiceGeneric: {
		title: "Services",
		clauses: []clause{
			{FieldScope, "[Describe the services to be provided]"},
		},
	},
}
