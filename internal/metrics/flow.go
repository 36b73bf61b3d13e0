package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/klaro/internal/model"
)

// Flow graph node names.
const (
	FlowIncome  = "Income"
	FlowSavings = "Savings"
	FlowOther   = "Other"
)

// FlowNode is a vertex of the money-flow graph.
type FlowNode struct {
	Name string `json:"name"`
}

// FlowLink routes Value from node Source to node Target (indexes into Nodes).
type FlowLink struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Value  float64 `json:"value"`
}

// FlowGraph shows how income is spent across expense categories.
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
}

// Flow builds the graph for the filtered view. Node 0 is Income; every expense
// category present gets one node and one link from Income. Uncategorized expenses
// are not routed; unknown category ids are routed to Other. When income exceeds
// the routed expenses a final Savings link carries the residual.
func Flow(filtered []model.Transaction, categories []model.Category) FlowGraph {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	acc := newAccumulator()
	var income, routed decimal.Decimal
	for i := range filtered {
		t := &filtered[i]
		switch {
		case t.Type == model.TypeIncome:
			income = income.Add(decimal.NewFromFloat(t.Amount))
		case t.Type == model.TypeExpense && t.CategoryID != "":
			name, ok := names[t.CategoryID]
			if !ok {
				name = FlowOther
			}
			acc.add(name, t.Amount)
			routed = routed.Add(decimal.NewFromFloat(t.Amount))
		}
	}

	g := FlowGraph{
		Nodes: make([]FlowNode, 0, len(acc.order)+2),
		Links: make([]FlowLink, 0, len(acc.order)+1),
	}
	g.Nodes = append(g.Nodes, FlowNode{Name: FlowIncome})
	for _, name := range acc.order {
		g.Nodes = append(g.Nodes, FlowNode{Name: name})
		g.Links = append(g.Links, FlowLink{Source: 0, Target: len(g.Nodes) - 1, Value: acc.get(name)})
	}

	if residual := income.Sub(routed); residual.IsPositive() {
		g.Nodes = append(g.Nodes, FlowNode{Name: FlowSavings})
		g.Links = append(g.Links, FlowLink{Source: 0, Target: len(g.Nodes) - 1, Value: residual.InexactFloat64()})
	}
	return g
}
