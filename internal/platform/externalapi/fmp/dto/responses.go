// Package dto defines data transfer objects for the FMP API responses.
package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// SecurityItem represents one element of the /stock/list and
// /symbol/available-securities responses.
type SecurityItem struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Exchange          string `json:"exchange"`
	ExchangeShortName string `json:"exchangeShortName"`
	Type              string `json:"type"`
}

// ProfileItem represents one element of the /profile/{symbol} response.
type ProfileItem struct {
	Symbol            string       `json:"symbol"`
	CompanyName       string       `json:"companyName"`
	Sector            string       `json:"sector"`
	Industry          string       `json:"industry"`
	MktCap            *FlexFloat64 `json:"mktCap"`
	Country           string       `json:"country"`
	Exchange          string       `json:"exchange"`
	ExchangeShortName string       `json:"exchangeShortName"`
}

// ErrorResponse is the body FMP returns for rejected requests (e.g. invalid API key).
type ErrorResponse struct {
	ErrorMessage string `json:"Error Message"`
}

// FlexFloat64 は数値・数値文字列・null のいずれでも受け付ける float64 です。
type FlexFloat64 float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parse mktCap %q: %w", s, err)
		}
		*f = FlexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// Float64Ptr は nil を保ったまま *float64 に変換します。
func (f *FlexFloat64) Float64Ptr() *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}
