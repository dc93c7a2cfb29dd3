package render

import (
	"fmt"
	"net/url"
	"strings"

	"civiclink/internal/officials"
)

// DetailLink is the listing card's link to the detail page.
func DetailLink(id string) string {
	return "./directory.html?id=" + url.QueryEscape(id)
}

// Subtitle is the detail page's role line.
func Subtitle(v officials.OfficialView) string {
	return fmt.Sprintf("%s Minister for %s, Nigeria", v.Level, v.RoleLabel)
}

// ListPlan discards the previous clones and appends one template clone per view.
func ListPlan(views officials.ResultSet) Plan {
	plan := Plan{{
		Kind:     OpRemove,
		Selector: SelMinisterContainer + " > [" + RenderedAttr + "]",
	}}
	for i, v := range views {
		h := fmt.Sprintf("card-%d", i)
		plan = append(plan,
			Op{Kind: OpClone, Handle: h, Template: SelMinisterTemplate},
			Op{Kind: OpSetAttr, Handle: h, Selector: SelMinisterAvatar, Key: "src", Value: v.AvatarURL},
			Op{Kind: OpSetText, Handle: h, Selector: SelMinisterName, Value: v.DisplayName},
			Op{Kind: OpSetText, Handle: h, Selector: SelMinisterTitle, Value: v.RoleLabel},
			Op{Kind: OpSetText, Handle: h, Selector: SelMinisterDesc, Value: v.Description},
		)
		if v.HasDetail() {
			plan = append(plan, Op{Kind: OpSetAttr, Handle: h, Selector: SelContactLink, Key: "href", Value: DetailLink(v.ID)})
		} else {
			plan = append(plan, Op{Kind: OpRemove, Handle: h, Selector: SelContactLink})
		}
		plan = append(plan, Op{Kind: OpAppend, Handle: h, Selector: SelMinisterContainer})
	}
	return plan
}

// ReplacePlan builds a fresh results container, then removes the previous
// one and inserts the new one. Search results never link to a detail page.
func ReplacePlan(views officials.ResultSet) Plan {
	const results = "results"
	plan := Plan{{
		Kind:   OpCreate,
		Handle: results,
		Tag:    "div",
		Attrs:  []Attr{{Key: "id", Val: SearchResultsID}},
	}}
	for i, v := range views {
		card := fmt.Sprintf("card-%d", i)
		plan = append(plan,
			Op{Kind: OpCreate, Handle: card, Parent: results, Tag: "div", Attrs: []Attr{{Key: "class", Val: OfficialCardClass}}},
			Op{Kind: OpCreate, Parent: card, Tag: "h3", Value: v.DisplayName},
			Op{Kind: OpCreate, Parent: card, Tag: "p", Value: "Role: " + v.RoleLabel},
			Op{Kind: OpCreate, Parent: card, Tag: "p", Value: "Email: " + v.Contact.Email},
			Op{Kind: OpCreate, Parent: card, Tag: "p", Value: "Office: " + v.Contact.Phone},
		)
	}
	return append(plan,
		Op{Kind: OpRemove, Selector: SelSearchResults},
		Op{Kind: OpAppend, Handle: results, Selector: SelSearchSection},
	)
}

// DetailPlan fills the detail page slots for one view.
func DetailPlan(v officials.OfficialView) Plan {
	display := "none"
	if v.Verified {
		display = "inline"
	}
	return Plan{
		{Kind: OpSetAttr, Selector: SelMinisterAvatar, Key: "src", Value: v.AvatarURL},
		{Kind: OpSetText, Selector: SelDetailHeading, Value: v.DisplayName},
		{Kind: OpSetText, Selector: SelDetailSubtitle, Value: Subtitle(v)},
		{Kind: OpSetStyle, Selector: SelDetailBadge, Key: "display", Value: display},
		{Kind: OpSetText, Selector: SelDetailDescription, Value: v.Description},
		{Kind: OpSetText, Selector: contactRow(1), Value: v.Contact.Phone},
		{Kind: OpSetText, Selector: contactRow(2), Value: v.Contact.Email},
		{Kind: OpSetText, Selector: contactRow(3), Value: v.Contact.Website},
		{Kind: OpSetLines, Selector: contactRow(4), Lines: v.Contact.Address},
	}
}

// AlertPlan shows msg in the alert region, or hides the region when msg is empty.
func AlertPlan(msg string) Plan {
	display := "block"
	if strings.TrimSpace(msg) == "" {
		display = "none"
	}
	return Plan{
		{Kind: OpSetText, Selector: SelAlert, Value: msg},
		{Kind: OpSetStyle, Selector: SelAlert, Key: "display", Value: display},
	}
}

// LabelPlan sets the connect button label.
func LabelPlan(label string) Plan {
	return Plan{{Kind: OpSetText, Selector: SelConnectButton, Value: label}}
}

// InputPlan echoes the last search term back into the search box.
func InputPlan(term string) Plan {
	return Plan{{Kind: OpSetAttr, Selector: SelSearchInput, Key: "value", Value: term}}
}

func contactRow(n int) string {
	return fmt.Sprintf(SelContactRow, n)
}
