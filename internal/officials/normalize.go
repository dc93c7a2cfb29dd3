// Package officials maps directory and contract records into the canonical
// OfficialView consumed by the render strategies.
package officials

import (
	"fmt"
	"strings"

	dErrors "civiclink/pkg/domain-errors"
)

// Normalize dispatches a tagged record to its mapping function.
func Normalize(raw RawRecord) (OfficialView, error) {
	switch raw.Kind {
	case KindREST:
		if raw.REST == nil {
			return OfficialView{}, dErrors.New(dErrors.CodeMalformedRecord, "rest record is empty")
		}
		return FromREST(*raw.REST)
	case KindContract:
		if raw.Contract == nil {
			return OfficialView{}, dErrors.New(dErrors.CodeMalformedRecord, "contract record is empty")
		}
		return FromContract(*raw.Contract)
	default:
		return OfficialView{}, dErrors.Newf(dErrors.CodeMalformedRecord, "unknown record kind %q", raw.Kind)
	}
}

// NormalizeAll normalizes records in order. A single malformed record fails
// the whole batch since results are never partially rendered.
func NormalizeAll(raw []RawRecord) (ResultSet, error) {
	views := make(ResultSet, 0, len(raw))
	for i, r := range raw {
		v, err := Normalize(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		views = append(views, v)
	}
	return views, nil
}

// FromREST maps a directory record.
func FromREST(r RestRecord) (OfficialView, error) {
	if strings.TrimSpace(r.Name) == "" {
		return OfficialView{}, dErrors.Newf(dErrors.CodeMalformedRecord, "record %q has no name", r.Identifier())
	}
	return OfficialView{
		ID:          r.Identifier(),
		DisplayName: r.Name,
		RoleLabel:   r.Position,
		Level:       r.Level,
		Description: r.Description,
		AvatarURL:   orDefault(r.Category.Image, DefaultAvatar),
		Contact: Contact{
			Phone:   orDefault(r.Phone, DefaultPhone),
			Email:   orDefault(r.Email, DefaultEmail),
			Website: orDefault(r.Website, DefaultWebsite),
			Address: AddressLines(orDefault(r.Address, DefaultAddress)),
		},
		Verified: r.Verified,
		Source:   KindREST,
	}, nil
}

// FromContract maps a contract record. The office line is the record's phone row.
func FromContract(r ContractRecord) (OfficialView, error) {
	if strings.TrimSpace(r.Name) == "" {
		return OfficialView{}, dErrors.New(dErrors.CodeMalformedRecord, "contract record has no name")
	}
	return OfficialView{
		DisplayName: r.Name,
		RoleLabel:   r.Role,
		AvatarURL:   DefaultAvatar,
		Contact: Contact{
			Phone:   orDefault(r.OfficeLine, DefaultPhone),
			Email:   orDefault(r.ContactEmail, DefaultEmail),
			Website: DefaultWebsite,
			Address: AddressLines(DefaultAddress),
		},
		Source: KindContract,
	}, nil
}

// AddressLines breaks an address at its first newline only. Any further
// newlines stay inside the second line as literal text.
func AddressLines(address string) []string {
	return strings.SplitN(address, "\n", 2)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
