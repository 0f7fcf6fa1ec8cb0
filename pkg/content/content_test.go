package content

import (
	"encoding/json"
	"math/rand/v2"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsAndValidates(t *testing.T) {
	lib, err := Default()
	require.NoError(t, err)

	ev, ok := lib.Event("sacrifice_altar")
	require.True(t, ok)
	c, ok := ev.Choice("", "sacrifice")
	require.True(t, ok)
	assert.Equal(t, 20, c.Cost.HPPercent)
	assert.Equal(t, Range(10, 20), c.Rewards.Resources.EtherPts)

	assert.Len(t, lib.StartingDeck(), 5)
	assert.True(t, lib.HasIdentity("warrior"))
	assert.Contains(t, lib.MapEvents(), "travelling_peddler")
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	_, err := Decode([]byte("events:\n  - id: x\n    bogus: 1\n"))
	require.Error(t, err)

	_, err = Decode([]byte("events:\n  - id: x\n    choices:\n      - id: a\n        rewards:\n          resources:\n            diamonds: 3\n"))
	require.Error(t, err)
}

func TestDecode_AmountForms(t *testing.T) {
	doc, err := Decode([]byte(`
events:
  - id: e
    choices:
      - id: a
        rewards:
          resources:
            gold: 15
            intel: {min: 1, max: 3}
`))
	require.NoError(t, err)
	r := doc.Events[0].Choices[0].Rewards.Resources
	assert.Equal(t, Flat(15), r.Gold)
	assert.Equal(t, Range(1, 3), r.Intel)
}

func TestAmount_RollStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	a := Range(3, 6)
	seen := map[int]bool{}
	for range 200 {
		v := a.Roll(rng)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 6)
		seen[v] = true
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, 7, Flat(7).Roll(nil))
}

func TestAmount_JSON(t *testing.T) {
	b, err := json.Marshal(ResourceAmounts{Gold: Flat(5), Intel: Range(1, 2)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"gold":5,"intel":{"min":1,"max":2}}`, string(b))

	var back ResourceAmounts
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, Flat(5), back.Gold)
	assert.Equal(t, Range(1, 2), back.Intel)
}

func TestCardGrant_Pick(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	catalog := []string{"a", "b", "c"}

	tests := []struct {
		name   string
		grant  CardGrant
		owned  []string
		want   string
		wantOK bool
	}{
		{"fixed unowned", CardGrant{Mode: CardGrantFixed, CardID: "b"}, nil, "b", true},
		{"fixed owned", CardGrant{Mode: CardGrantFixed, CardID: "b"}, []string{"b"}, "", false},
		{"pool skips owned", CardGrant{Mode: CardGrantRandom, Pool: []string{"a", "c"}}, []string{"a"}, "c", true},
		{"catalog exhausted", CardGrant{Mode: CardGrantRandom}, catalog, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.grant.Pick(rng, catalog, tt.owned)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yaml": {Data: []byte(`
events:
  - id: broken
    choices:
      - id: a
        nextStage: nowhere
        openShop: ghost
        nextEvent: missing
        cost:
          hpPercent: 150
merchants:
  - id: m
    stock:
      - {kind: item, id: nothing}
`)},
	}
	_, err := Load(fsys)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Problems), 5)
}

func TestLoad_LaterFilesOverride(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("cards:\n  - {id: x, name: First}\n")},
		"b.yml":  {Data: []byte("cards:\n  - {id: x, name: Second}\n")},
	}
	lib, err := Load(fsys)
	require.NoError(t, err)
	c, ok := lib.Card("x")
	require.True(t, ok)
	assert.Equal(t, "Second", c.Name)
}

func TestLoad_Empty(t *testing.T) {
	_, err := Load(fstest.MapFS{})
	require.Error(t, err)
}

func TestPrice_FallsBackToCatalog(t *testing.T) {
	lib, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 30, lib.Price(MerchantEntry{Kind: StockItem, ID: "healing_draught"}))
	assert.Equal(t, 25, lib.Price(MerchantEntry{Kind: StockItem, ID: "focus_incense", Price: 25}))
}
