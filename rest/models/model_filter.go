package models

type TwoAxisResult struct {
	TwoAxis bool `json:"twoAxis"`
}
