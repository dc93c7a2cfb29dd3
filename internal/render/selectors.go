package render

// Selectors shared with the page markup.
const (
	// listing page
	SelMinisterContainer = "#minister-template"
	SelMinisterTemplate  = "#minister-section"
	SelMinisterAvatar    = "#minister-avatar"
	SelMinisterName      = "#minister-name"
	SelMinisterTitle     = "#minister-title"
	SelMinisterDesc      = "#minister-description"
	SelContactLink       = "#contact-link"

	// detail page
	SelDetailHeading     = "#section_1 h1"
	SelDetailSubtitle    = "#section_1 p"
	SelDetailBadge       = "#section_1 .im"
	SelDetailDescription = "#sec_2 p"
	SelContactRow        = "#sec_3 .flex > div:nth-child(%d) > *:last-child"

	// search page
	SelConnectButton  = "#connectButton"
	SelSearchInput    = "#searchInput"
	SelSearchSection  = "#section_1"
	SelSearchResults  = "#search-results"
	SelAlert          = "#alert"
	SearchResultsID   = "search-results"
	OfficialCardClass = "official-card"
)
