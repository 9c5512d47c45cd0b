package chart

import (
	"strings"

	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/format"
)

type TooltipLine struct {
	Label string
	Value string
}

type Tooltip struct {
	Lines []TooltipLine
}

// NewTooltip builds the hover content for a renderable record.
func NewTooltip(r dataset.Record) Tooltip {
	var lifeExp, income float64
	if r.LifeExp != nil {
		lifeExp = *r.LifeExp
	}
	if r.Income != nil {
		income = *r.Income
	}
	return Tooltip{Lines: []TooltipLine{
		{"Country", r.Country},
		{"Continent", string(r.Continent)},
		{"Life Expectancy", format.Fixed(lifeExp, 2)},
		{"GDP Per Capita", format.Currency(income)},
		{"Population", format.Grouped(r.Population)},
	}}
}

// String renders one "Label: value" pair per line.
func (t Tooltip) String() string {
	var sb strings.Builder
	for i, l := range t.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Label)
		sb.WriteString(": ")
		sb.WriteString(l.Value)
	}
	return sb.String()
}
