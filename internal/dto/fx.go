package dto

type RateResponse struct {
	Institution    string  `json:"institution"`
	SourceCurrency string  `json:"source_currency"`
	TargetCurrency string  `json:"target_currency"`
	Rate           string  `json:"rate"`
	InverseRate    string  `json:"inverse_rate"`
	MinRate        *string `json:"min_rate,omitempty"`
	MaxRate        *string `json:"max_rate,omitempty"`
	EffectiveDate  string  `json:"effective_date"`
}

type PairRateResponse struct {
	SourceCurrency string         `json:"source_currency"`
	TargetCurrency string         `json:"target_currency"`
	CurrentRate    string         `json:"current_rate"`
	InverseRate    string         `json:"inverse_rate"`
	MinRate        string         `json:"min_rate"`
	MaxRate        string         `json:"max_rate"`
	AvgRate        string         `json:"avg_rate"`
	Institution    string         `json:"institution"`
	EffectiveDate  string         `json:"effective_date"`
	AllRates       []RateResponse `json:"all_rates"`
}

type PopularRateResponse struct {
	Pair          string  `json:"pair"`
	Source        string  `json:"source"`
	Target        string  `json:"target"`
	Rate          string  `json:"rate"`
	ChangePercent float64 `json:"change_percent"`
	Institution   string  `json:"institution"`
	EffectiveDate string  `json:"effective_date"`
}

type ConversionResponse struct {
	SourceAmount   string `json:"source_amount"`
	SourceCurrency string `json:"source_currency"`
	TargetAmount   string `json:"target_amount"`
	TargetCurrency string `json:"target_currency"`
	Rate           string `json:"rate"`
	Institution    string `json:"institution"`
}
