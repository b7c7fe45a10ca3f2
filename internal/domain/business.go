package domain

// BusinessFact is one topic of the static fact sheet (location, hours, ...)
type BusinessFact struct {
	Key  string `mapstructure:"key" json:"key"`
	Text string `mapstructure:"text" json:"text"`
}

// BusinessFactSheet is the ordered list of facts the assistant may quote
type BusinessFactSheet []BusinessFact
