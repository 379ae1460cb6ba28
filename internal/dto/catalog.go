package dto

import "encoding/json"

type AddressResponse struct {
	Country     string `json:"country"`
	City        string `json:"city"`
	Street      string `json:"street"`
	Area        string `json:"area,omitempty"`
	State       string `json:"state,omitempty"`
	Postcode    string `json:"postcode"`
	CountryCode string `json:"country_code"`
}

type InstitutionResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	WebsiteURL   string           `json:"website_url,omitempty"`
	ContactEmail string           `json:"contact_email,omitempty"`
	ContactPhone string           `json:"contact_phone,omitempty"`
	Type         string           `json:"type,omitempty"`
	BICCode      string           `json:"bic_code,omitempty"`
	Address      *AddressResponse `json:"address,omitempty"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ProductResponse struct {
	ID             string          `json:"id"`
	InstitutionID  string          `json:"institution_id"`
	Institution    string          `json:"institution,omitempty"`
	Category       string          `json:"category,omitempty"`
	ProductCode    string          `json:"product_code"`
	CommercialName string          `json:"commercial_name"`
	Type           string          `json:"type"`
	Description    string          `json:"description,omitempty"`
	Details        json.RawMessage `json:"details,omitempty"`
}

type FeeResponse struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	FeeCode        string `json:"fee_code"`
	ServiceChannel string `json:"service_channel,omitempty"`
	Service        string `json:"service"`
	Category       string `json:"category,omitempty"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	AdditionalInfo string `json:"additional_info,omitempty"`
	FeeType        string `json:"fee_type,omitempty"`
}

type AccountResponse struct {
	ID               string `json:"id"`
	Institution      string `json:"institution"`
	AccountNumber    string `json:"account_number"`
	Status           string `json:"status"`
	Currency         string `json:"currency"`
	AvailableBalance string `json:"available_balance,omitempty"`
}
