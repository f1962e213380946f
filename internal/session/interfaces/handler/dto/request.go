package dto

type SelectReq struct {
	CityID string `json:"cityId" mapstructure:"cityId" binding:"required"`
}

type RatesReq struct {
	CityID string `json:"cityId" mapstructure:"cityId"`
}
