package domain

// ModuleCategory groups intelligence modules in the catalog.
type ModuleCategory string

const (
	CategorySocial    ModuleCategory = "social"
	CategoryBreach    ModuleCategory = "breach"
	CategoryNetwork   ModuleCategory = "network"
	CategoryIdentity  ModuleCategory = "identity"
	CategoryGaming    ModuleCategory = "gaming"
	CategoryUtilities ModuleCategory = "utilities"
)

// SearchType describes one query shape a module accepts.
type SearchType struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
}

// Module is one entry of the intelligence module catalog. The catalog is
// static; accounts below RequiredTier see the module as locked.
type Module struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Category     ModuleCategory `json:"category"`
	SearchTypes  []SearchType   `json:"search_types"`
	Active       bool           `json:"is_active"`
	RequiredTier Tier           `json:"required_tier"`
}

// AcceptsSearchType reports whether the module supports the given query shape.
func (m *Module) AcceptsSearchType(id string) bool {
	if m == nil {
		return false
	}
	for _, st := range m.SearchTypes {
		if st.ID == id {
			return true
		}
	}
	return false
}

var moduleCatalog = []Module{
	{
		ID:          "discord",
		Name:        "Discord Lookup",
		Description: "Resolve Discord identities, badges and mutual servers.",
		Category:    CategorySocial,
		SearchTypes: []SearchType{
			{ID: "user_id", Label: "User ID", Placeholder: "Enter Discord user ID"},
			{ID: "username", Label: "Username", Placeholder: "Enter username#tag"},
		},
		Active:       true,
		RequiredTier: TierPro,
	},
	{
		ID:          "instagram",
		Name:        "Instagram Profiler",
		Description: "Profile metadata, follower graph and visibility flags.",
		Category:    CategorySocial,
		SearchTypes: []SearchType{
			{ID: "username", Label: "Username", Placeholder: "Enter Instagram handle"},
		},
		Active:       true,
		RequiredTier: TierPro,
	},
	{
		ID:          "snusbase",
		Name:        "Breach Index",
		Description: "Cross-reference credentials against indexed breach corpora.",
		Category:    CategoryBreach,
		SearchTypes: []SearchType{
			{ID: "email", Label: "Email", Placeholder: "Enter email address"},
			{ID: "password", Label: "Password", Placeholder: "Enter password"},
		},
		Active:       true,
		RequiredTier: TierEnterprise,
	},
	{
		ID:          "shodan",
		Name:        "Shodan Scan",
		Description: "Host exposure, open ports and known vulnerabilities.",
		Category:    CategoryNetwork,
		SearchTypes: []SearchType{
			{ID: "ip", Label: "IP Address", Placeholder: "Enter IPv4 address"},
			{ID: "hostname", Label: "Hostname", Placeholder: "Enter hostname"},
		},
		Active:       true,
		RequiredTier: TierEnterprise,
	},
	{
		ID:          "fivem",
		Name:        "FiveM Tracker",
		Description: "Game server membership and identifier history.",
		Category:    CategoryGaming,
		SearchTypes: []SearchType{
			{ID: "license", Label: "License", Placeholder: "Enter FiveM license"},
		},
		Active:       true,
		RequiredTier: TierPro,
	},
	{
		ID:          "dorker",
		Name:        "Dork Builder",
		Description: "Assemble advanced search-engine queries from templates.",
		Category:    CategoryUtilities,
		SearchTypes: []SearchType{
			{ID: "keyword", Label: "Keyword", Placeholder: "Enter keyword"},
		},
		Active:       true,
		RequiredTier: TierPro,
	},
}

// Modules returns the full module catalog.
func Modules() []Module {
	out := make([]Module, len(moduleCatalog))
	copy(out, moduleCatalog)
	return out
}

// ModuleByID looks a module up in the catalog.
func ModuleByID(id string) (*Module, bool) {
	for i := range moduleCatalog {
		if moduleCatalog[i].ID == id {
			m := moduleCatalog[i]
			return &m, true
		}
	}
	return nil, false
}
