package render

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civiclink/internal/officials"
	"civiclink/web"
)

func loadPage(t *testing.T, name string) *Document {
	t.Helper()
	raw, err := fs.ReadFile(web.Pages, name)
	require.NoError(t, err)
	doc, err := ParseString(string(raw))
	require.NoError(t, err)
	return doc
}

func views(names ...string) officials.ResultSet {
	set := make(officials.ResultSet, 0, len(names))
	for i, name := range names {
		v, _ := officials.FromREST(officials.RestRecord{ID: string(rune('a' + i)), Name: name, Position: "Works"})
		set = append(set, v)
	}
	return set
}

func TestListStrategy(t *testing.T) {
	doc := loadPage(t, "index.html")
	ctrl, err := NewController(doc, []string{SelMinisterTemplate})
	require.NoError(t, err)

	assert.Zero(t, doc.Count(SelMinisterTemplate), "template is detached at startup")

	require.NoError(t, ctrl.RenderList(views("Jane Doe", "John Roe", "Ada Obi")))

	cards := doc.QueryAll(SelMinisterContainer + " > [data-rendered]")
	require.Len(t, cards, 3)
	assert.Equal(t, 3, doc.Count(SelMinisterContainer+" > *"), "only clones live in the container")
	assert.Equal(t, "Jane Doe", doc.Text(SelMinisterName))
	href, ok := doc.Attr(SelContactLink, "href")
	require.True(t, ok)
	assert.Equal(t, "./directory.html?id=a", href)

	t.Run("re-render rebuilds all clones", func(t *testing.T) {
		require.NoError(t, ctrl.RenderList(views("Only One")))
		assert.Equal(t, 1, doc.Count(SelMinisterContainer+" > [data-rendered]"))
		assert.Equal(t, "Only One", doc.Text(SelMinisterName))
	})

	t.Run("empty set renders zero cards", func(t *testing.T) {
		require.NoError(t, ctrl.RenderList(nil))
		assert.Zero(t, doc.Count(SelMinisterContainer+" > *"))
	})
}

func TestReplaceStrategy(t *testing.T) {
	doc := loadPage(t, "search.html")
	ctrl, err := NewController(doc, nil)
	require.NoError(t, err)

	require.NoError(t, ctrl.RenderResults(views("Jane Doe", "John Roe")))
	assert.Equal(t, 1, doc.Count(SelSearchResults))
	assert.Equal(t, 2, doc.Count(SelSearchResults+" ."+OfficialCardClass))

	require.NoError(t, ctrl.RenderResults(views("Ada Obi")))
	assert.Equal(t, 1, doc.Count(SelSearchResults), "never two results containers")
	assert.Equal(t, 1, doc.Count(SelSearchResults+" ."+OfficialCardClass))
	assert.Equal(t, "Ada Obi", doc.Text(SelSearchResults+" h3"))
	assert.Equal(t, 1, doc.Count(SelSearchSection+" > "+SelSearchResults))

	require.NoError(t, ctrl.RenderResults(nil))
	assert.Equal(t, 1, doc.Count(SelSearchResults))
	assert.Zero(t, doc.Count("."+OfficialCardClass))
}

func TestDetailStrategy(t *testing.T) {
	doc := loadPage(t, "directory.html")
	ctrl, err := NewController(doc, nil)
	require.NoError(t, err)

	view, err := officials.FromREST(officials.RestRecord{
		ID:          "1",
		Name:        "Jane Doe",
		Position:    "Health",
		Level:       "Federal",
		Description: "Oversees public health.",
		Email:       "jane@health.gov.ng",
		Address:     "Plot 1\nCentral\nAbuja",
		Verified:    true,
		Category:    officials.Category{Image: "jane.png"},
	})
	require.NoError(t, err)
	require.NoError(t, ctrl.RenderDetail(view))

	src, _ := doc.Attr(SelMinisterAvatar, "src")
	assert.Equal(t, "jane.png", src)
	assert.Equal(t, "Jane Doe", doc.Text(SelDetailHeading))
	assert.Equal(t, "Federal Minister for Health, Nigeria", doc.Text(SelDetailSubtitle))
	style, _ := doc.Attr(SelDetailBadge, "style")
	assert.Equal(t, "display: inline", style)
	assert.Equal(t, "Oversees public health.", doc.Text(SelDetailDescription))

	assert.Equal(t, officials.DefaultPhone, doc.Text(contactRow(1)))
	assert.Equal(t, "jane@health.gov.ng", doc.Text(contactRow(2)))
	assert.Equal(t, officials.DefaultWebsite, doc.Text(contactRow(3)))
	assert.Equal(t, "Plot 1\nCentral\nAbuja", doc.Text(contactRow(4)))
	assert.Equal(t, 1, doc.Count(contactRow(4)+" br"), "only the first newline becomes a break")
}

func TestApplyIsAllOrNothing(t *testing.T) {
	doc := loadPage(t, "search.html")

	err := doc.Apply(Plan{
		{Kind: OpSetText, Selector: SelConnectButton, Value: "0x1234...abcd"},
		{Kind: OpSetText, Selector: "#does-not-exist", Value: "x"},
	})
	require.Error(t, err)
	assert.Equal(t, "Connect Wallet", doc.Text(SelConnectButton))
}

func TestAlertAndLabel(t *testing.T) {
	doc := loadPage(t, "search.html")
	ctrl, err := NewController(doc, nil)
	require.NoError(t, err)

	require.NoError(t, ctrl.ShowAlert("Please connect wallet first"))
	assert.Equal(t, "Please connect wallet first", doc.Text(SelAlert))
	style, _ := doc.Attr(SelAlert, "style")
	assert.Equal(t, "display: block", style)

	require.NoError(t, ctrl.ShowAlert(""))
	style, _ = doc.Attr(SelAlert, "style")
	assert.Equal(t, "display: none", style)

	require.NoError(t, ctrl.SetLabel("0x1234...abcd"))
	assert.Equal(t, "0x1234...abcd", doc.Text(SelConnectButton))

	var out strings.Builder
	require.NoError(t, doc.Render(&out))
	assert.Contains(t, out.String(), `id="connectButton"`)
}

func TestSetStyle(t *testing.T) {
	assert.Equal(t, "display: inline", setStyle("", "display", "inline"))
	assert.Equal(t, "color: red; display: none", setStyle("color: red; display:inline", "display", "none"))
	assert.Equal(t, "color: red; display: none", setStyle("color: red;", "display", "none"))
}
