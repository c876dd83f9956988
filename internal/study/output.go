package study

import (
	"encoding/json"
	"math"
	"time"
)

// Column is one named output array, aligned with the input bars
type Column struct {
	Name   string
	Values []float64
}

type columnJSON struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// MarshalJSON writes NaN values as null
func (c Column) MarshalJSON() ([]byte, error) {
	out := columnJSON{Name: c.Name, Values: make([]*float64, len(c.Values))}
	for i := range c.Values {
		if !math.IsNaN(c.Values[i]) && !math.IsInf(c.Values[i], 0) {
			out.Values[i] = &c.Values[i]
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads null values back as NaN
func (c *Column) UnmarshalJSON(data []byte) error {
	var in columnJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	c.Name = in.Name
	c.Values = make([]float64, len(in.Values))
	for i, v := range in.Values {
		if v == nil {
			c.Values[i] = math.NaN()
		} else {
			c.Values[i] = *v
		}
	}
	return nil
}

// Output is the result of one study computation
type Output struct {
	Study      string      `json:"study"`
	Symbol     string      `json:"symbol,omitempty"`
	Params     Params      `json:"params"`
	Time       []time.Time `json:"time,omitempty"`
	Columns    []Column    `json:"columns"`
	ComputedAt time.Time   `json:"computed_at"`
}

// Len returns the number of rows
func (o *Output) Len() int {
	if len(o.Columns) == 0 {
		return len(o.Time)
	}
	return len(o.Columns[0].Values)
}

// Column returns the named column
func (o *Output) Column(name string) (Column, bool) {
	for _, c := range o.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Last returns the final value of each column, keyed by column name
func (o *Output) Last() map[string]float64 {
	last := make(map[string]float64, len(o.Columns))
	for _, c := range o.Columns {
		if len(c.Values) > 0 {
			last[c.Name] = c.Values[len(c.Values)-1]
		}
	}
	return last
}
