package officials

// Kind tags which backend produced a raw record.
type Kind string

const (
	KindREST     Kind = "rest"
	KindContract Kind = "contract"
)

// Display fallbacks used when a backend leaves a field empty. They are
// presentation defaults and say nothing about whether the data exists.
const (
	DefaultPhone   = "+234 000 000 0000"
	DefaultEmail   = "example@email.com"
	DefaultWebsite = "example.gov.ng"
	DefaultAddress = "Not Available"
	DefaultAvatar  = "./images/Ellipse 1.png"
)

// RestRecord is an official as served by the directory service.
// The service keys records by "_id"; "id" is accepted as well.
type RestRecord struct {
	ID          string   `json:"id,omitempty"`
	MongoID     string   `json:"_id,omitempty"`
	Name        string   `json:"name"`
	Position    string   `json:"position"`
	Level       string   `json:"level"`
	Description string   `json:"description"`
	Phone       string   `json:"phone,omitempty"`
	Email       string   `json:"email,omitempty"`
	Website     string   `json:"website,omitempty"`
	Address     string   `json:"address,omitempty"`
	Verified    bool     `json:"verified"`
	Category    Category `json:"category"`
}

// Category carries the record's avatar.
type Category struct {
	Image string `json:"image,omitempty"`
}

// Identifier returns the record id, preferring "id" over "_id".
func (r RestRecord) Identifier() string {
	if r.ID != "" {
		return r.ID
	}
	return r.MongoID
}

// ContractRecord is an official as returned by the search contract.
// It has no identifier.
type ContractRecord struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	ContactEmail string `json:"contactEmail"`
	OfficeLine   string `json:"officeLine"`
}

// RawRecord is the tagged union handed to Normalize. Exactly one of REST or
// Contract is set, matching Kind.
type RawRecord struct {
	Kind     Kind
	REST     *RestRecord
	Contract *ContractRecord
}

// FromRESTRecords tags a directory response for normalization.
func FromRESTRecords(records []RestRecord) []RawRecord {
	raw := make([]RawRecord, len(records))
	for i := range records {
		raw[i] = RawRecord{Kind: KindREST, REST: &records[i]}
	}
	return raw
}

// FromContractRecords tags a contract response for normalization.
func FromContractRecords(records []ContractRecord) []RawRecord {
	raw := make([]RawRecord, len(records))
	for i := range records {
		raw[i] = RawRecord{Kind: KindContract, Contract: &records[i]}
	}
	return raw
}

// OfficialView is the canonical display shape consumed by every render strategy.
type OfficialView struct {
	ID          string  `json:"id,omitempty"`
	DisplayName string  `json:"display_name"`
	RoleLabel   string  `json:"role_label"`
	Level       string  `json:"level,omitempty"`
	Description string  `json:"description,omitempty"`
	AvatarURL   string  `json:"avatar_url"`
	Contact     Contact `json:"contact"`
	Verified    bool    `json:"verified"`
	Source      Kind    `json:"source"`
}

// Contact holds the four contact rows. Address is split into display lines.
type Contact struct {
	Phone   string   `json:"phone"`
	Email   string   `json:"email"`
	Website string   `json:"website"`
	Address []string `json:"address"`
}

// HasDetail reports whether the view can link to a detail page.
func (v OfficialView) HasDetail() bool {
	return v.ID != ""
}

// ResultSet keeps backend order. No dedup, no sort.
type ResultSet []OfficialView
