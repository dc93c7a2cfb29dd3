package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civiclink/internal/officials"
)

func janeDoe() officials.OfficialView {
	view, _ := officials.FromREST(officials.RestRecord{
		ID:          "1",
		Name:        "Jane Doe",
		Position:    "Health",
		Description: "...",
	})
	return view
}

func TestListPlan(t *testing.T) {
	t.Run("one clone per view with filled slots", func(t *testing.T) {
		plan := ListPlan(officials.ResultSet{janeDoe()})

		require.Equal(t, OpRemove, plan[0].Kind, "prior clones are discarded first")
		assert.Equal(t, 1, plan.Count(OpClone))
		assert.Equal(t, 1, plan.Count(OpAppend))
		assert.Contains(t, plan, Op{Kind: OpSetAttr, Handle: "card-0", Selector: SelMinisterAvatar, Key: "src", Value: officials.DefaultAvatar})
		assert.Contains(t, plan, Op{Kind: OpSetText, Handle: "card-0", Selector: SelMinisterName, Value: "Jane Doe"})
		assert.Contains(t, plan, Op{Kind: OpSetText, Handle: "card-0", Selector: SelMinisterTitle, Value: "Health"})
		assert.Contains(t, plan, Op{Kind: OpSetAttr, Handle: "card-0", Selector: SelContactLink, Key: "href", Value: "./directory.html?id=1"})
	})

	t.Run("views without id drop the link", func(t *testing.T) {
		view, err := officials.FromContract(officials.ContractRecord{Name: "Jane Doe"})
		require.NoError(t, err)

		plan := ListPlan(officials.ResultSet{view})
		assert.Contains(t, plan, Op{Kind: OpRemove, Handle: "card-0", Selector: SelContactLink})
	})

	t.Run("empty set only clears", func(t *testing.T) {
		plan := ListPlan(nil)
		assert.Len(t, plan, 1)
		assert.Equal(t, OpRemove, plan[0].Kind)
	})
}

func TestReplacePlan(t *testing.T) {
	view, err := officials.FromContract(officials.ContractRecord{
		Name:         "Jane Doe",
		Role:         "Commissioner",
		ContactEmail: "jane@gov.ng",
		OfficeLine:   "+234 1 234 5678",
	})
	require.NoError(t, err)

	plan := ReplacePlan(officials.ResultSet{view})

	t.Run("builds then removes then inserts", func(t *testing.T) {
		n := len(plan)
		require.GreaterOrEqual(t, n, 3)
		assert.Equal(t, OpCreate, plan[0].Kind)
		assert.Equal(t, Op{Kind: OpRemove, Selector: SelSearchResults}, plan[n-2])
		assert.Equal(t, Op{Kind: OpAppend, Handle: "results", Selector: SelSearchSection}, plan[n-1])
		assert.Equal(t, 1, plan.Count(OpRemove))
	})

	t.Run("card carries the four literal fields", func(t *testing.T) {
		var texts []string
		for _, op := range plan {
			if op.Kind == OpCreate && op.Parent == "card-0" {
				texts = append(texts, op.Value)
			}
		}
		assert.Equal(t, []string{
			"Jane Doe",
			"Role: Commissioner",
			"Email: jane@gov.ng",
			"Office: +234 1 234 5678",
		}, texts)
	})

	t.Run("no detail link", func(t *testing.T) {
		for _, op := range plan {
			assert.NotEqual(t, "a", op.Tag)
			assert.NotEqual(t, "href", op.Key)
		}
	})
}

func TestDetailPlan(t *testing.T) {
	view, err := officials.FromREST(officials.RestRecord{
		ID:       "1",
		Name:     "Jane Doe",
		Position: "Health",
		Level:    "Federal",
		Address:  "Plot 1\nAbuja",
		Verified: true,
	})
	require.NoError(t, err)

	plan := DetailPlan(view)

	assert.Contains(t, plan, Op{Kind: OpSetText, Selector: SelDetailSubtitle, Value: "Federal Minister for Health, Nigeria"})
	assert.Contains(t, plan, Op{Kind: OpSetStyle, Selector: SelDetailBadge, Key: "display", Value: "inline"})
	assert.Contains(t, plan, Op{Kind: OpSetLines, Selector: contactRow(4), Lines: []string{"Plot 1", "Abuja"}})
	assert.Contains(t, plan, Op{Kind: OpSetText, Selector: contactRow(1), Value: officials.DefaultPhone})
}
