// Package api holds response envelopes shared across handler packages.
package api

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
